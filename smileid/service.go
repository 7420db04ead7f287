package smileid

import (
	"strings"

	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-smileid/config"
	"github.com/gaborage/go-smileid/httpclient"
	"github.com/gaborage/go-smileid/logger"
	"github.com/gaborage/go-smileid/signature"
)

const (
	defaultSourceSDK        = "go"
	defaultSourceSDKVersion = "1.0.0"
)

// Service is the entry point to the Smile Identity API.
type Service struct {
	WebAPI    *WebAPI
	IDAPI     *IDAPI
	Utilities *Utilities
	Signature *signature.Engine

	base *base
}

// Option customizes New.
type Option func(*options)

type options struct {
	logger         logger.Logger
	client         httpclient.Client
	transport      httpclient.Transport
	clock          signature.Clock
	tracerProvider oteltrace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the logger used by the service and its HTTP client.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithHTTPClient replaces the HTTP client built from the configuration.
// Transport, telemetry and rate limit options are ignored when it is set.
func WithHTTPClient(client httpclient.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithTransport sets the transport of the HTTP client built from the configuration.
func WithTransport(transport httpclient.Transport) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithClock sets the clock used to timestamp signatures.
func WithClock(clock signature.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithTracerProvider sets the provider for HTTP client spans.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider for HTTP client metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// New creates a Service from cfg. Unset connection settings fall back to the
// production base URL, a 30s timeout and the default retry policy. Missing
// credentials are allowed; signed operations then fail with ErrNotConfigured.
func New(cfg config.SmileIDConfig, opts ...Option) *Service {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	applyDefaults(&cfg)

	client := o.client
	if client == nil {
		client = newHTTPClient(cfg, o)
	}

	b := &base{
		cfg:       cfg,
		client:    client,
		signer:    signature.NewEngine(o.clock),
		logger:    o.logger,
		validator: NewValidator(),
	}
	return &Service{
		WebAPI:    &WebAPI{base: b},
		IDAPI:     &IDAPI{base: b},
		Utilities: &Utilities{base: b},
		Signature: b.signer,
		base:      b,
	}
}

func newHTTPClient(cfg config.SmileIDConfig, o options) httpclient.Client {
	builder := httpclient.NewBuilder(o.logger).
		WithTimeout(cfg.Timeout).
		WithDefaultHeader("User-Agent", "smileid-"+cfg.Source.SDK+"/"+cfg.Source.Version).
		WithLogPayloads(cfg.Log.Payloads, cfg.Log.MaxBytes).
		WithStrictDecoding(cfg.StrictDecoding).
		WithRateLimit(cfg.Rate.Limit, cfg.Rate.Burst)
	if o.transport != nil {
		builder = builder.WithTransport(o.transport)
	}
	if o.tracerProvider != nil {
		builder = builder.WithTracerProvider(o.tracerProvider)
	}
	if o.meterProvider != nil {
		builder = builder.WithMeterProvider(o.meterProvider)
	}
	return builder.Build()
}

func applyDefaults(cfg *config.SmileIDConfig) {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = httpclient.DefaultTimeout
	}
	if cfg.Retry == (config.RetryConfig{}) {
		cfg.Retry = config.RetryConfig{
			Max:      httpclient.DefaultMaxRetries,
			Delay:    httpclient.DefaultRetryDelay,
			MaxDelay: httpclient.DefaultMaxRetryDelay,
		}
	}
	if cfg.Source.SDK == "" {
		cfg.Source.SDK = defaultSourceSDK
	}
	if cfg.Source.Version == "" {
		cfg.Source.Version = defaultSourceSDKVersion
	}
}

// Config returns a copy of the effective configuration.
func (s *Service) Config() config.SmileIDConfig {
	return s.base.cfg
}

// IsConfigured reports whether both a partner ID and an API key are set.
func (s *Service) IsConfigured() bool {
	return s.base.configured() == nil
}
