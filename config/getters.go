package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	errMsgRequiredKeyMissing   = "required configuration key '%s' is missing"
	errMsgConfigNotInitialized = "configuration not initialized"
)

// GetString returns the value at key, or the first default when the key is absent.
func (c *Config) GetString(key string, defaultVal ...string) string {
	if !c.Exists(key) {
		return optionalDefault("", defaultVal...)
	}
	return c.k.String(key)
}

// GetInt returns the value at key, or the first default when the key is absent.
func (c *Config) GetInt(key string, defaultVal ...int) int {
	if !c.Exists(key) {
		return optionalDefault(0, defaultVal...)
	}
	return c.k.Int(key)
}

// GetBool returns the value at key, or the first default when the key is absent.
func (c *Config) GetBool(key string, defaultVal ...bool) bool {
	if !c.Exists(key) {
		return optionalDefault(false, defaultVal...)
	}
	return c.k.Bool(key)
}

// GetDuration parses the value at key ("30s", "1m"), or returns the first default when the key is absent.
func (c *Config) GetDuration(key string, defaultVal ...time.Duration) time.Duration {
	if !c.Exists(key) {
		return optionalDefault(time.Duration(0), defaultVal...)
	}
	return c.k.Duration(key)
}

// GetRequiredString returns the value at key or an error naming the missing key.
func (c *Config) GetRequiredString(key string) (string, error) {
	if c == nil || c.k == nil {
		return "", errors.New(errMsgConfigNotInitialized)
	}
	if !c.k.Exists(key) || c.k.String(key) == "" {
		return "", fmt.Errorf(errMsgRequiredKeyMissing, key)
	}
	return c.k.String(key), nil
}

// Unmarshal decodes the section at key into out.
func (c *Config) Unmarshal(key string, out any) error {
	if c == nil || c.k == nil {
		return errors.New(errMsgConfigNotInitialized)
	}
	return c.k.Unmarshal(key, out)
}

// Exists reports whether key has a value.
func (c *Config) Exists(key string) bool {
	if c == nil || c.k == nil {
		return false
	}
	return c.k.Exists(key)
}

func optionalDefault[T any](zero T, overrides ...T) T {
	if len(overrides) > 0 {
		return overrides[0]
	}
	return zero
}
