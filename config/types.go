package config

import (
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-smileid/observability"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the full SDK configuration. The embedded koanf instance keeps keys
// outside the known sections reachable through the getters.
type Config struct {
	App           AppConfig            `koanf:"app" json:"app" yaml:"app"`
	SmileID       SmileIDConfig        `koanf:"smileid" json:"smileid" yaml:"smileid"`
	Log           LogConfig            `koanf:"log" json:"log" yaml:"log"`
	Callback      CallbackConfig       `koanf:"callback" json:"callback" yaml:"callback"`
	Observability observability.Config `koanf:"observability" json:"observability" yaml:"observability" validate:"-"`

	k *koanf.Koanf `json:"-" yaml:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" validate:"required"`
	Env     string `koanf:"env" json:"env" yaml:"env" validate:"oneof=development staging production"`
}

// SmileIDConfig holds partner credentials and client behavior for the Smile Identity API.
// PartnerID and APIKey are optional at load time; the service reports IsConfigured false without them.
type SmileIDConfig struct {
	PartnerID       string `koanf:"partnerid" json:"partnerid" yaml:"partnerid"`
	APIKey          string `koanf:"apikey" json:"-" yaml:"apikey"`
	BaseURL         string `koanf:"baseurl" json:"baseurl" yaml:"baseurl" validate:"required,http_url"`
	DefaultCallback string `koanf:"defaultcallback" json:"defaultcallback" yaml:"defaultcallback" validate:"omitempty,http_url"`

	// Timeout bounds each attempt, not the whole retried call.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gt=0"`

	Retry          RetryConfig      `koanf:"retry" json:"retry" yaml:"retry"`
	Rate           RateConfig       `koanf:"rate" json:"rate" yaml:"rate"`
	Source         SourceConfig     `koanf:"source" json:"source" yaml:"source"`
	Log            PayloadLogConfig `koanf:"log" json:"log" yaml:"log"`
	StrictDecoding bool             `koanf:"strictdecoding" json:"strictdecoding" yaml:"strictdecoding"`
}

// RetryConfig controls the retry policy applied to every API call.
type RetryConfig struct {
	Max      int           `koanf:"max" json:"max" yaml:"max" validate:"gte=0"`
	Delay    time.Duration `koanf:"delay" json:"delay" yaml:"delay" validate:"gte=0"`
	MaxDelay time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" validate:"gte=0"`
}

// RateConfig caps outbound requests per second. A zero limit disables the limiter.
type RateConfig struct {
	Limit float64 `koanf:"limit" json:"limit" yaml:"limit" validate:"gte=0"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=0"`
}

// SourceConfig identifies the SDK in request payloads.
type SourceConfig struct {
	SDK     string `koanf:"sdk" json:"sdk" yaml:"sdk" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" validate:"required"`
}

// PayloadLogConfig enables debug logging of request and response bodies.
type PayloadLogConfig struct {
	Payloads bool `koanf:"payloads" json:"payloads" yaml:"payloads"`
	MaxBytes int  `koanf:"maxbytes" json:"maxbytes" yaml:"maxbytes" validate:"gte=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// CallbackConfig configures the receiver for signed job-result callbacks.
type CallbackConfig struct {
	Host string `koanf:"host" json:"host" yaml:"host"`
	Port int    `koanf:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
	Path string `koanf:"path" json:"path" yaml:"path" validate:"required,startswith=/"`

	// MaxSkew rejects callbacks whose timestamp is further than this from now. Zero disables the check.
	MaxSkew time.Duration `koanf:"maxskew" json:"maxskew" yaml:"maxskew" validate:"gte=0"`

	// RateLimit caps accepted callbacks per second. Zero disables the limiter.
	RateLimit float64 `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit" validate:"gte=0"`
	RateBurst int     `koanf:"rateburst" json:"rateburst" yaml:"rateburst" validate:"gte=0"`

	ShutdownTimeout time.Duration `koanf:"shutdowntimeout" json:"shutdowntimeout" yaml:"shutdowntimeout" validate:"gt=0"`
}
