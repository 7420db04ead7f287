package httpclient

import (
	"maps"
	nethttp "net/http"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gaborage/go-smileid/logger"
)

// DefaultMaxPayloadLogBytes caps logged body previews when LogPayloads is enabled
const DefaultMaxPayloadLogBytes = 1024

// NewClient creates a client with default configuration
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the client
type Builder struct {
	config         *Config
	logger         logger.Logger
	transport      Transport
	tracerProvider oteltrace.TracerProvider
	meterProvider  metric.MeterProvider
}

// NewBuilder creates a new client builder
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		config: &Config{
			Timeout:              DefaultTimeout,
			DefaultHeaders:       make(map[string]string),
			RequestInterceptors:  []RequestInterceptor{},
			ResponseInterceptors: []ResponseInterceptor{},
			MaxPayloadLogBytes:   DefaultMaxPayloadLogBytes,
		},
		logger: log,
	}
}

// WithTimeout sets the per-attempt timeout used when a request sets none
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithDefaultHeader adds a header sent with every request unless the request overrides it
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithTransport replaces the underlying transport (default: a plain *http.Client)
func (b *Builder) WithTransport(transport Transport) *Builder {
	b.transport = transport
	return b
}

// WithLogPayloads enables debug logging of headers and body previews up to maxBytes
func (b *Builder) WithLogPayloads(enabled bool, maxBytes int) *Builder {
	b.config.LogPayloads = enabled
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

// WithStrictDecoding surfaces malformed JSON bodies as errors
func (b *Builder) WithStrictDecoding(strict bool) *Builder {
	b.config.StrictDecoding = strict
	return b
}

// WithRateLimit caps attempts per second across all calls made by the client
func (b *Builder) WithRateLimit(perSecond float64, burst int) *Builder {
	b.config.RateLimit = perSecond
	b.config.RateBurst = burst
	return b
}

// WithTracerProvider sets the provider for client spans (default: the global provider)
func (b *Builder) WithTracerProvider(tp oteltrace.TracerProvider) *Builder {
	b.tracerProvider = tp
	return b
}

// WithMeterProvider sets the provider for client metrics (default: the global provider)
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// Build creates the client with the configured options. The client owns a copy of
// the configuration, so later Builder calls do not affect it.
func (b *Builder) Build() Client {
	cfg := *b.config
	cfg.DefaultHeaders = maps.Clone(b.config.DefaultHeaders)
	cfg.RequestInterceptors = slices.Clone(b.config.RequestInterceptors)
	cfg.ResponseInterceptors = slices.Clone(b.config.ResponseInterceptors)

	transport := b.transport
	if transport == nil {
		transport = &nethttp.Client{}
	}
	tp := b.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := b.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}

	return &client{
		transport:            transport,
		logger:               b.logger,
		config:               &cfg,
		requestInterceptors:  cfg.RequestInterceptors,
		responseInterceptors: cfg.ResponseInterceptors,
		limiter:              limiter,
		tracer:               tp.Tracer(instrumentationName),
		metrics:              newInstruments(mp, b.logger),
	}
}
