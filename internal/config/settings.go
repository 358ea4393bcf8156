package config

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// IndicatorSettings is the free-form settings object for one indicator.
// Every getter takes the compiled default and returns it whenever the key is
// absent or its value cannot be read as the requested type.
type IndicatorSettings map[string]interface{}

// Enabled reports whether the "enabled" key is true. A nil map is disabled.
func (s IndicatorSettings) Enabled() bool {
	return s.Bool("enabled", false)
}

// Float returns the value at key as a finite float64.
func (s IndicatorSettings) Float(key string, def float64) float64 {
	v, ok := s[key]
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return f
}

// PositiveFloat is Float restricted to values > 0.
func (s IndicatorSettings) PositiveFloat(key string, def float64) float64 {
	f := s.Float(key, def)
	if f <= 0 {
		return def
	}
	return f
}

// Int returns the value at key truncated to an int. Fractional values are
// accepted since YAML and JSON decoding both produce float64.
func (s IndicatorSettings) Int(key string, def int) int {
	v, ok := s[key]
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return int(f)
}

// PositiveInt is Int restricted to values > 0.
func (s IndicatorSettings) PositiveInt(key string, def int) int {
	i := s.Int(key, def)
	if i <= 0 {
		return def
	}
	return i
}

// Bool returns the value at key as a bool. The strings "true"/"false" are accepted.
func (s IndicatorSettings) Bool(key string, def bool) bool {
	v, ok := s[key]
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return def
		}
		return parsed
	}
	return def
}

// String returns the value at key as a trimmed string; empty strings yield def.
func (s IndicatorSettings) String(key string, def string) string {
	v, ok := s[key]
	if !ok {
		return def
	}
	str, ok := v.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return def
	}
	return strings.TrimSpace(str)
}

// Floats returns the value at key as a slice of floats. Elements that are not
// numeric are skipped; if nothing numeric remains, def is returned.
func (s IndicatorSettings) Floats(key string, def []float64) []float64 {
	v, ok := s[key]
	if !ok {
		return def
	}
	var out []float64
	switch list := v.(type) {
	case []float64:
		out = append(out, list...)
	case []int:
		for _, i := range list {
			out = append(out, float64(i))
		}
	case []interface{}:
		for _, e := range list {
			if f, ok := toFloat(e); ok {
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Strings returns the value at key as a slice of non-empty trimmed strings.
func (s IndicatorSettings) Strings(key string, def []string) []string {
	v, ok := s[key]
	if !ok {
		return def
	}
	var out []string
	switch list := v.(type) {
	case []string:
		for _, e := range list {
			if t := strings.TrimSpace(e); t != "" {
				out = append(out, t)
			}
		}
	case []interface{}:
		for _, e := range list {
			if str, ok := e.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
