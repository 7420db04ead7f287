package observability

import (
	"fmt"
	"maps"
	"time"
)

const (
	// EndpointStdout writes telemetry to the provider's writer (stdout by default) instead of an OTLP collector.
	EndpointStdout = "stdout"

	// ProtocolHTTP specifies OTLP over HTTP/protobuf.
	ProtocolHTTP = "http"

	// ProtocolGRPC specifies OTLP over gRPC.
	ProtocolGRPC = "grpc"

	// EnvironmentDevelopment is the default deployment environment.
	EnvironmentDevelopment = "development"

	defaultServiceVersion  = "unknown"
	defaultSampleRate      = 1.0
	defaultBatchTimeout    = 5 * time.Second
	defaultExportTimeout   = 30 * time.Second
	defaultMetricsInterval = 60 * time.Second
)

// Config defines the telemetry pipelines the SDK reports into. It is loaded
// from the "observability" section of the application configuration.
type Config struct {
	// Enabled turns on the SDK providers. When false every operation is a no-op.
	Enabled bool `koanf:"enabled"`

	Service ServiceConfig `koanf:"service"`

	// Environment is reported as deployment.environment.name.
	Environment string `koanf:"environment"`

	Trace   TraceConfig   `koanf:"trace"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ServiceConfig identifies the process in exported telemetry.
type ServiceConfig struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
}

// TraceConfig configures span export.
type TraceConfig struct {
	// Enabled is nil when unset, which means enabled.
	Enabled *bool `koanf:"enabled"`

	// Endpoint is "stdout" or an OTLP collector address. gRPC endpoints are host:port,
	// HTTP endpoints may carry a scheme.
	Endpoint string            `koanf:"endpoint"`
	Protocol string            `koanf:"protocol"`
	Insecure bool              `koanf:"insecure"`
	Headers  map[string]string `koanf:"headers"`

	// SampleRate is the fraction of root traces kept. nil means 1.0.
	SampleRate *float64 `koanf:"samplerate"`

	BatchTimeout  time.Duration `koanf:"batchtimeout"`
	ExportTimeout time.Duration `koanf:"exporttimeout"`
}

// MetricsConfig configures metric export. Empty fields inherit from TraceConfig.
type MetricsConfig struct {
	// Enabled is nil when unset, which means enabled.
	Enabled  *bool             `koanf:"enabled"`
	Endpoint string            `koanf:"endpoint"`
	Protocol string            `koanf:"protocol"`
	Insecure *bool             `koanf:"insecure"`
	Headers  map[string]string `koanf:"headers"`

	Interval      time.Duration `koanf:"interval"`
	ExportTimeout time.Duration `koanf:"exporttimeout"`
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// ApplyDefaults fills unset fields. Metrics inherit the trace endpoint settings.
func (c *Config) ApplyDefaults() {
	if c.Service.Version == "" {
		c.Service.Version = defaultServiceVersion
	}
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}

	if c.Trace.Enabled == nil {
		c.Trace.Enabled = BoolPtr(true)
	}
	if c.Trace.Endpoint == "" {
		c.Trace.Endpoint = EndpointStdout
	}
	if c.Trace.Protocol == "" {
		c.Trace.Protocol = ProtocolHTTP
	}
	if c.Trace.SampleRate == nil {
		c.Trace.SampleRate = Float64Ptr(defaultSampleRate)
	}
	if c.Trace.BatchTimeout <= 0 {
		c.Trace.BatchTimeout = defaultBatchTimeout
	}
	if c.Trace.ExportTimeout <= 0 {
		c.Trace.ExportTimeout = defaultExportTimeout
	}

	if c.Metrics.Enabled == nil {
		c.Metrics.Enabled = BoolPtr(true)
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = c.Trace.Endpoint
	}
	if c.Metrics.Protocol == "" {
		c.Metrics.Protocol = c.Trace.Protocol
	}
	if c.Metrics.Insecure == nil {
		c.Metrics.Insecure = BoolPtr(c.Trace.Insecure)
	}
	if len(c.Metrics.Headers) == 0 && len(c.Trace.Headers) > 0 {
		c.Metrics.Headers = maps.Clone(c.Trace.Headers)
	}
	if c.Metrics.Interval <= 0 {
		c.Metrics.Interval = defaultMetricsInterval
	}
	if c.Metrics.ExportTimeout <= 0 {
		c.Metrics.ExportTimeout = defaultExportTimeout
	}
}

// TraceEnabled reports whether span export is on.
func (c *Config) TraceEnabled() bool {
	return c.Enabled && (c.Trace.Enabled == nil || *c.Trace.Enabled)
}

// MetricsEnabled reports whether metric export is on.
func (c *Config) MetricsEnabled() bool {
	return c.Enabled && (c.Metrics.Enabled == nil || *c.Metrics.Enabled)
}

// Validate checks an enabled configuration. Disabled configurations are always valid.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}
	if c.Service.Name == "" {
		return ErrMissingServiceName
	}

	if c.TraceEnabled() {
		if rate := c.Trace.SampleRate; rate != nil && (*rate < 0 || *rate > 1) {
			return fmt.Errorf("%w: got %v", ErrInvalidSampleRate, *rate)
		}
		if err := validateEndpoint("trace", c.Trace.Endpoint, c.Trace.Protocol); err != nil {
			return err
		}
	}
	if c.MetricsEnabled() {
		if err := validateEndpoint("metrics", c.Metrics.Endpoint, c.Metrics.Protocol); err != nil {
			return err
		}
	}
	return nil
}

func validateEndpoint(signal, endpoint, protocol string) error {
	if endpoint == EndpointStdout {
		return nil
	}
	switch protocol {
	case ProtocolHTTP:
		return nil
	case ProtocolGRPC:
		if hasScheme(endpoint) {
			return fmt.Errorf("%s endpoint %q: %w: grpc expects host:port", signal, endpoint, ErrInvalidEndpointFormat)
		}
		return nil
	default:
		return fmt.Errorf("%s protocol %q: %w", signal, protocol, ErrInvalidProtocol)
	}
}
