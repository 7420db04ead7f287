package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultBaseURL is the production Smile Identity API root.
	DefaultBaseURL = "https://api.smileidentity.com/v1"
	// SandboxBaseURL is the Smile Identity sandbox API root.
	SandboxBaseURL = "https://testapi.smileidentity.com/v1"

	defaultConfigFile = "config.yaml"
)

// envRoots are the top-level keys environment variables may set.
// SMILEID_PARTNERID becomes smileid.partnerid; LOG_LEVEL becomes log.level.
var envRoots = map[string]struct{}{
	"app":           {},
	"smileid":       {},
	"log":           {},
	"callback":      {},
	"observability": {},
}

// Load loads configuration with priority, highest first:
//  1. Environment variables
//  2. config.<app.env>.yaml
//  3. config.yaml
//  4. Defaults
//
// Missing YAML files are skipped.
func Load() (*Config, error) {
	return LoadFrom(defaultConfigFile)
}

// LoadFrom is Load with explicit base YAML files, applied in order. After the
// files, the environment-specific variant of the first file is applied when present.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	for _, path := range paths {
		if err := loadOptionalFile(k, path); err != nil {
			return nil, err
		}
	}

	// app.env may come from a file or from APP_ENV, so peek at the environment first.
	if len(paths) > 0 {
		env := k.String("app.env")
		if v := os.Getenv("APP_ENV"); v != "" {
			env = v
		}
		if err := loadOptionalFile(k, envVariant(paths[0], env)); err != nil {
			return nil, err
		}
	}

	return finish(k)
}

// LoadBytes loads defaults, then the YAML document in data, then environment variables.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	if err := k.Load(envprovider.Provider(".", envprovider.Opt{TransformFunc: envKey}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k
	cfg.inheritServiceIdentity()

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// inheritServiceIdentity names telemetry after the application unless configured otherwise.
func (c *Config) inheritServiceIdentity() {
	if c.Observability.Service.Name == "" {
		c.Observability.Service.Name = c.App.Name
	}
	if c.Observability.Service.Version == "" {
		c.Observability.Service.Version = c.App.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.App.Env
	}
}

// envKey maps UPPER_CASE variables onto lower.case keys under a known root.
func envKey(name, value string) (string, any) {
	key := strings.ReplaceAll(strings.ToLower(name), "_", ".")
	root, rest, nested := strings.Cut(key, ".")
	if !nested || rest == "" {
		return "", nil
	}
	if _, ok := envRoots[root]; !ok {
		return "", nil
	}
	return key, value
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// envVariant turns config.yaml into config.<env>.yaml.
func envVariant(path, env string) string {
	if env == "" {
		return ""
	}
	if ext := strings.LastIndex(path, "."); ext > strings.LastIndex(path, "/") {
		return path[:ext] + "." + env + path[ext:]
	}
	return path + "." + env
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "smileid-client",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,

		"smileid.baseurl":        DefaultBaseURL,
		"smileid.timeout":        "30s",
		"smileid.retry.max":      3,
		"smileid.retry.delay":    "1s",
		"smileid.retry.maxdelay": "10s",
		"smileid.rate.limit":     0,
		"smileid.rate.burst":     0,
		"smileid.source.sdk":     "go",
		"smileid.source.version": "1.0.0",
		"smileid.log.payloads":   false,
		"smileid.log.maxbytes":   1024,
		"smileid.strictdecoding": false,

		"log.level":  "info",
		"log.pretty": false,

		"callback.host":            "0.0.0.0",
		"callback.port":            8080,
		"callback.path":            "/smileid/callback",
		"callback.maxskew":         "5m",
		"callback.ratelimit":       0,
		"callback.rateburst":       0,
		"callback.shutdowntimeout": "10s",

		"observability.enabled": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
