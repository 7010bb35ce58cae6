package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/eventmap/pkg/eventmap/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
middleware:
  groups:
    global: [trim_strings]
    web: [session, csrf]
  aliases:
    auth: app.Authenticate
  priority:
    - session
    - auth
    - csrf
  disabled: true
events:
  journal: memory
  max: 3
`

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"name": "alice"}, "name", "default", "alice"},
		{"key missing", map[string]any{"other": "value"}, "name", "default", "default"},
		{"wrong type", map[string]any{"name": 123}, "name", "default", "default"},
		{"nested path", map[string]any{"events": map[string]any{"journal": "memory"}}, "events.journal", "", "memory"},
		{"literal dotted key wins", map[string]any{"a.b": "literal", "a": map[string]any{"b": "nested"}}, "a.b", "", "literal"},
		{"path through scalar", map[string]any{"a": "scalar"}, "a.b", "default", "default"},
		{"nil map", nil, "name", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.New(tt.data).String(tt.key, tt.defaultVal))
		})
	}
}

func TestBool(t *testing.T) {
	cfg := config.New(map[string]any{"on": true, "str": "true"})
	assert.True(t, cfg.Bool("on", false))
	assert.False(t, cfg.Bool("str", false))
	assert.True(t, cfg.Bool("missing", true))
}

func TestInt(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want int
	}{
		{"int", 42, 42},
		{"int64", int64(7), 7},
		{"whole float", 3.0, 3},
		{"fractional float", 3.5, -1},
		{"string", "3", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"n": tt.val})
			assert.Equal(t, tt.want, cfg.Int("n", -1))
		})
	}
}

func TestStringSlice(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want []string
	}{
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"any slice", []any{"a", "b"}, []string{"a", "b"}},
		{"mixed slice", []any{"a", 1}, []string{"default"}},
		{"scalar", "a", []string{"default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"list": tt.val})
			assert.Equal(t, tt.want, cfg.StringSlice("list", []string{"default"}))
		})
	}
}

func TestStringMap(t *testing.T) {
	cfg := config.New(map[string]any{
		"good": map[string]any{"auth": "app.Authenticate"},
		"bad":  map[string]any{"auth": 1},
	})

	assert.Equal(t, map[string]string{"auth": "app.Authenticate"}, cfg.StringMap("good", nil))
	assert.Nil(t, cfg.StringMap("bad", nil))
	assert.Nil(t, cfg.StringMap("missing", nil))
}

func TestStringSliceMap(t *testing.T) {
	cfg := config.New(map[string]any{
		"groups": map[string]any{
			"web":    []any{"session", "csrf"},
			"global": []string{"trim"},
		},
		"broken": map[string]any{"web": "session"},
	})

	assert.Equal(t, map[string][]string{
		"web":    {"session", "csrf"},
		"global": {"trim"},
	}, cfg.StringSliceMap("groups", nil))
	assert.Nil(t, cfg.StringSliceMap("broken", nil))
}

func TestSub(t *testing.T) {
	cfg, err := config.FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	mw := cfg.Sub("middleware")
	assert.True(t, mw.Has("groups"))
	assert.Equal(t, map[string]string{"auth": "app.Authenticate"}, mw.StringMap("aliases", nil))

	empty := cfg.Sub("missing")
	assert.Empty(t, empty.Raw())

	scalar := cfg.Sub("events.journal")
	assert.Empty(t, scalar.Raw())
}

func TestHas(t *testing.T) {
	cfg := config.New(map[string]any{"a": map[string]any{"b": nil}})
	assert.True(t, cfg.Has("a"))
	assert.True(t, cfg.Has("a.b"))
	assert.False(t, cfg.Has("a.c"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"session", "auth", "csrf"}, cfg.StringSlice("middleware.priority", nil))
	assert.Equal(t, map[string][]string{
		"global": {"trim_strings"},
		"web":    {"session", "csrf"},
	}, cfg.StringSliceMap("middleware.groups", nil))
	assert.True(t, cfg.Bool("middleware.disabled", false))
	assert.Equal(t, "memory", cfg.String("events.journal", ""))
	assert.Equal(t, 3, cfg.Int("events.max", 0))
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := config.FromYAML([]byte("middleware: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"middleware":{"priority":["a","b"]},"events":{"max":2}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, cfg.StringSlice("middleware.priority", nil))
	assert.Equal(t, 2, cfg.Int("events.max", 0))
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := config.FromJSON([]byte("{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "eventmap.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

		cfg, err := config.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.String("events.journal", ""))
	})

	t.Run("upper case extension", func(t *testing.T) {
		path := filepath.Join(dir, "eventmap.YML")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

		_, err := config.FromFile(path)
		require.NoError(t, err)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "eventmap.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"events":{"journal":"memory"}}`), 0o600))

		cfg, err := config.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.String("events.journal", ""))
	})

	t.Run("environment expansion", func(t *testing.T) {
		t.Setenv("EVENTMAP_DATA", "/var/lib/app")
		path := filepath.Join(dir, "env.yaml")
		require.NoError(t, os.WriteFile(path, []byte("events:\n  journal: sqlite:${EVENTMAP_DATA}/events.db\n  other: ${EVENTMAP_UNSET_VAR}\n"), 0o600))

		cfg, err := config.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "sqlite:/var/lib/app/events.db", cfg.String("events.journal", ""))
		assert.Equal(t, "${EVENTMAP_UNSET_VAR}", cfg.String("events.other", ""))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "eventmap.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

		_, err := config.FromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.FromFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    config.Format
		wantErr bool
	}{
		{"a.yaml", config.FormatYAML, false},
		{"a.YML", config.FormatYAML, false},
		{"dir.d/a.json", config.FormatJSON, false},
		{"a.toml", 0, true},
		{"noext", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := config.FormatOf(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge(t *testing.T) {
	base := config.New(map[string]any{
		"middleware": map[string]any{
			"groups":   map[string]any{"web": []any{"session"}},
			"priority": []any{"session"},
		},
		"events": map[string]any{"journal": "memory"},
	})
	over := config.New(map[string]any{
		"middleware": map[string]any{
			"groups":   map[string]any{"admin": []any{"auth"}},
			"priority": []any{"auth"},
		},
		"events": "disabled",
	})

	merged := base.Merge(over)
	assert.Equal(t, map[string][]string{
		"web":   {"session"},
		"admin": {"auth"},
	}, merged.StringSliceMap("middleware.groups", nil))
	assert.Equal(t, []string{"auth"}, merged.StringSlice("middleware.priority", nil))
	assert.Equal(t, "disabled", merged.String("events", ""))

	// inputs untouched
	assert.Equal(t, "memory", base.String("events.journal", ""))
	assert.False(t, base.Has("middleware.groups.admin"))
}

func TestFromFiles(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	localPath := filepath.Join(dir, "local.json")
	require.NoError(t, os.WriteFile(basePath, []byte(sampleYAML), 0o600))
	require.NoError(t, os.WriteFile(localPath, []byte(`{"middleware":{"disabled":false}}`), 0o600))

	cfg, err := config.FromFiles(basePath, localPath)
	require.NoError(t, err)
	assert.False(t, cfg.Bool("middleware.disabled", true))
	assert.Equal(t, "memory", cfg.String("events.journal", ""))

	_, err = config.FromFiles(basePath, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}
