package callback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-smileid/config"
	"github.com/gaborage/go-smileid/logger"
	"github.com/gaborage/go-smileid/signature"
	"github.com/gaborage/go-smileid/smileid"
	"github.com/gaborage/go-smileid/trace"
)

const (
	defaultServiceName = "smileid-callback"
	bodyLimit          = "2M"
)

var (
	errMissingSignature = errors.New("missing signature")
	errInvalidSignature = errors.New("signature is invalid")
	errStaleTimestamp   = errors.New("timestamp outside the accepted window")
)

// Receiver is an HTTP server that accepts signed job results.
type Receiver struct {
	echo      *echo.Echo
	cfg       config.CallbackConfig
	partnerID string
	apiKey    string
	signer    *signature.Engine
	handler   Handler
	logger    logger.Logger
}

// Option customizes New.
type Option func(*options)

type options struct {
	logger         logger.Logger
	clock          signature.Clock
	serviceName    string
	tracerProvider oteltrace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the logger for request and lifecycle messages.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithClock sets the clock used for the freshness check.
func WithClock(clock signature.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithServiceName sets the server name reported on spans and metrics.
func WithServiceName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.serviceName = name
		}
	}
}

// WithTracerProvider sets the provider for server spans (default: the global provider).
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider for server metrics (default: the global provider).
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// New creates a Receiver that verifies results with the credentials in creds.
func New(cfg config.CallbackConfig, creds config.SmileIDConfig, handler Handler, opts ...Option) (*Receiver, error) {
	if handler == nil {
		return nil, errors.New("callback: handler is required")
	}
	if creds.PartnerID == "" || creds.APIKey == "" {
		return nil, fmt.Errorf("callback: %w", smileid.ErrNotConfigured)
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}

	o := options{logger: logger.Nop(), serviceName: defaultServiceName}
	for _, opt := range opts {
		opt(&o)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	r := &Receiver{
		echo:      e,
		cfg:       cfg,
		partnerID: creds.PartnerID,
		apiKey:    creds.APIKey,
		signer:    signature.NewEngine(o.clock),
		handler:   handler,
		logger:    o.logger,
	}
	r.setupMiddlewares(o)
	e.POST(cfg.Path, r.handle)

	return r, nil
}

func (r *Receiver) setupMiddlewares(o options) {
	var otelOpts []otelecho.Option
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, otelecho.WithTracerProvider(o.tracerProvider))
	}
	if o.meterProvider != nil {
		otelOpts = append(otelOpts, otelecho.WithMeterProvider(o.meterProvider))
	}

	r.echo.Use(middleware.RequestID())
	r.echo.Use(otelecho.Middleware(o.serviceName, otelOpts...))
	r.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			r.logger.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Bytes("stack", stack).
				Msg("Panic recovered")
			return err
		},
	}))
	r.echo.Use(middleware.BodyLimit(bodyLimit))
	r.echo.Use(RateLimit(r.cfg.RateLimit, r.cfg.RateBurst))
}

func (r *Receiver) handle(c echo.Context) error {
	req := c.Request()
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	ctx := trace.WithRequestID(req.Context(), requestID)

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Unable to read request body")
	}
	result, err := decodeResult(body)
	if err != nil {
		r.logger.Warn().Err(err).Str("request_id", requestID).Msg("Rejected malformed callback")
		return errorResponse(c, http.StatusBadRequest, "Malformed callback payload")
	}

	if err := r.verify(result); err != nil {
		r.logger.Warn().
			Err(err).
			Str("request_id", requestID).
			Str("smile_job_id", result.SmileJobID).
			Msg("Rejected callback signature")
		return errorResponse(c, http.StatusUnauthorized, "Invalid signature")
	}

	if err := r.handler.HandleResult(ctx, result); err != nil {
		r.logger.Error().
			Err(err).
			Str("request_id", requestID).
			Str("smile_job_id", result.SmileJobID).
			Msg("Callback handler failed")
		return errorResponse(c, http.StatusInternalServerError, "Callback processing failed")
	}

	r.logger.Info().
		Str("request_id", requestID).
		Str("smile_job_id", result.SmileJobID).
		Str("job_id", result.PartnerParams.JobID).
		Str("result_code", result.ResultCode).
		Msg("Callback accepted")
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func decodeResult(body []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &result.Raw); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Receiver) verify(result *Result) error {
	if result.Signature == "" || result.Timestamp == "" {
		return errMissingSignature
	}
	ts, err := signature.ParseTimestamp(string(result.Timestamp))
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidSignature, err)
	}
	if !r.signer.Verify(ts, result.Signature, r.partnerID, r.apiKey).Valid {
		return errInvalidSignature
	}
	if !signature.IsFresh(ts, r.signer.Now(), r.cfg.MaxSkew) {
		return errStaleTimestamp
	}
	return nil
}

// Handler returns the receiver as an http.Handler for mounting in another server.
func (r *Receiver) Handler() http.Handler {
	return r.echo
}

// Echo returns the underlying Echo instance.
func (r *Receiver) Echo() *echo.Echo {
	return r.echo
}

// Addr returns the configured listen address.
func (r *Receiver) Addr() string {
	return net.JoinHostPort(r.cfg.Host, strconv.Itoa(r.cfg.Port))
}

// Start listens on the configured address and blocks until the server stops.
// It returns http.ErrServerClosed after Shutdown.
func (r *Receiver) Start() error {
	r.logger.Info().
		Str("address", r.Addr()).
		Str("path", r.cfg.Path).
		Msg("Starting callback receiver...")
	return r.echo.StartServer(&http.Server{
		Addr:              r.Addr(),
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// Shutdown stops accepting callbacks and waits for in-flight ones until ctx is done.
func (r *Receiver) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
