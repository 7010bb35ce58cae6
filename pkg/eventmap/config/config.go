package config

import (
	"strings"
)

// Config wraps a map[string]any for type-safe value extraction.
// Keys may be dotted paths into nested maps ("middleware.groups").
// All accessor methods return default values if the key is missing
// or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// lookup resolves a dotted key. A literal key containing dots wins over
// a nested path.
func (c Config) lookup(key string) (any, bool) {
	if v, ok := c.data[key]; ok {
		return v, true
	}

	var current any = c.data
	for _, part := range strings.Split(key, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	}
	return nil, false
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - int: used directly
//   - int64: converted to int
//   - float64: converted to int (only if no fractional part)
func (c Config) Int(key string, defaultVal int) int {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - []string: used directly
//   - []any: each element must be a string
func (c Config) StringSlice(key string, defaultVal []string) []string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	if s, ok := toStrings(v); ok {
		return s
	}
	return defaultVal
}

func toStrings(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, s)
		}
		return result, true
	}
	return nil, false
}

// StringMap returns a map of string values for key, or defaultVal if
// missing or any value is not a string.
func (c Config) StringMap(key string, defaultVal map[string]string) map[string]string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	m, ok := asMap(v)
	if !ok {
		return defaultVal
	}
	result := make(map[string]string, len(m))
	for k, item := range m {
		s, ok := item.(string)
		if !ok {
			return defaultVal
		}
		result[k] = s
	}
	return result
}

// StringSliceMap returns a map of string lists for key (e.g. middleware
// groups), or defaultVal if missing or not convertible.
func (c Config) StringSliceMap(key string, defaultVal map[string][]string) map[string][]string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	m, ok := asMap(v)
	if !ok {
		return defaultVal
	}
	result := make(map[string][]string, len(m))
	for k, item := range m {
		s, ok := toStrings(item)
		if !ok {
			return defaultVal
		}
		result[k] = s
	}
	return result
}

// Sub returns the nested section at key as its own Config.
// Missing or non-map sections yield an empty Config.
func (c Config) Sub(key string) Config {
	v, ok := c.lookup(key)
	if !ok {
		return New(nil)
	}
	m, ok := asMap(v)
	if !ok {
		return New(nil)
	}
	return New(m)
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Merge returns a new Config with other layered over c. Nested sections
// are merged key by key; any other value in other replaces the one in c.
// Neither input is modified.
func (c Config) Merge(other Config) Config {
	return New(merge(c.data, other.data))
}

func merge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		overMap, ok := asMap(v)
		if !ok {
			out[k] = v
			continue
		}
		if baseMap, ok := asMap(out[k]); ok {
			out[k] = merge(baseMap, overMap)
		} else {
			out[k] = overMap
		}
	}
	return out
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}
