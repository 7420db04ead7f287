package logger

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultMaskValue replaces sensitive values in log output
	DefaultMaskValue = "***"

	// maxFilterDepth bounds recursion into nested maps and slices
	maxFilterDepth = 8
)

// FilterConfig defines which field names are masked in log output.
type FilterConfig struct {
	// SensitiveFields are matched case-insensitively as substrings of field names
	SensitiveFields []string
	// MaskValue replaces sensitive values (default: "***")
	MaskValue string
}

// DefaultFilterConfig masks credentials, signatures and tokens.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "secret",
			"api_key", "apikey", "api-key",
			"signature",
			"token",
			"authorization",
			"credential",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values whose field names look sensitive.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter; a nil config uses DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks value when key is sensitive. URLs keep their structure with only the password masked.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	if isURL(value) {
		return f.maskURLPassword(value)
	}
	return value
}

// FilterValue filters maps, header sets and slices recursively.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filterValue(key, value, maxFilterDepth)
}

// FilterFields filters every entry of fields.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		filtered[k] = f.FilterValue(k, v)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterValue(key string, value any, depth int) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	if value == nil || depth <= 0 {
		return value
	}

	switch v := value.(type) {
	case string:
		return f.FilterString(key, v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = f.filterValue(k, inner, depth-1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, inner := range v {
			if f.isSensitiveField(k) {
				out[k] = f.config.MaskValue
				continue
			}
			out[k] = inner
		}
		return out
	case http.Header:
		return f.filterMultiValue(v)
	case map[string][]string:
		return f.filterMultiValue(v)
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = f.filterValue(key, inner, depth-1)
		}
		return out
	default:
		return value
	}
}

func (f *SensitiveDataFilter) filterMultiValue(values map[string][]string) map[string][]string {
	out := make(map[string][]string, len(values))
	for k, inner := range values {
		if f.isSensitiveField(k) {
			out[k] = []string{f.config.MaskValue}
			continue
		}
		out[k] = inner
	}
	return out
}

func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, sensitive := range f.config.SensitiveFields {
		if strings.Contains(lower, strings.ToLower(sensitive)) {
			return true
		}
	}
	return false
}

func isURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

func (f *SensitiveDataFilter) maskURLPassword(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	if _, hasPassword := parsed.User.Password(); !hasPassword {
		return raw
	}
	parsed.User = url.UserPassword(parsed.User.Username(), f.config.MaskValue)
	// url.String escapes the mask, restore it for readability
	return strings.Replace(parsed.String(), url.QueryEscape(f.config.MaskValue), f.config.MaskValue, 1)
}
