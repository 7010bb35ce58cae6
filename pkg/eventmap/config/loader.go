package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a configuration file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the format from a file extension (.yaml, .yml, .json),
// ignoring case.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (Config, error) {
	if format == FormatJSON {
		return FromJSON(data)
	}
	return FromYAML(data)
}

// FromFile loads configuration from a file, detecting the format by
// extension. ${VAR} references in the file are replaced with environment
// values; unset variables are left as written.
func FromFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse([]byte(expandEnv(string(data))), format)
}

// FromFiles loads each file in order and merges them, later files
// overriding earlier ones.
func FromFiles(paths ...string) (Config, error) {
	merged := New(nil)
	for _, path := range paths {
		cfg, err := FromFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		merged = merged.Merge(cfg)
	}
	return merged, nil
}

func expandEnv(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			break
		}
		end += start

		b.WriteString(s[:start])
		if v, ok := os.LookupEnv(s[start+2 : end]); ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}
