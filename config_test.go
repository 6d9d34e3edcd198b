package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/fobj/internal/fobj"
)

func writeTemp(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_LoadConfig(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		cfg, err := LoadConfig(writeTemp(t, "fobj.toml", `
capacity = 128
strict_gc = true
array_limit = 10
max_depth = 8
trace = true
color = "never"
`))
		require.NoError(t, err)
		assert.Equal(t, Config{
			Capacity:   128,
			StrictGC:   true,
			ArrayLimit: 10,
			MaxDepth:   8,
			Trace:      true,
			Color:      "never",
		}, cfg)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeTemp(t, "fobj.toml", "strict_gc = true\n"))
		require.NoError(t, err)
		want := DefaultConfig()
		want.StrictGC = true
		assert.Equal(t, want, cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writeTemp(t, "fobj.toml", "capacity = 64\nheap = 1\n")
		_, err := LoadConfig(path)
		assert.EqualError(t, err, "unknown config keys in "+path+": heap")
	})

	t.Run("bad syntax", func(t *testing.T) {
		_, err := LoadConfig(writeTemp(t, "fobj.toml", "capacity = \n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to load config")
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadConfig(writeTemp(t, "fobj.toml", "capacity = 0\n"))
		assert.EqualError(t, err, "capacity 0 out of range [1, 1048576]")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfig_Validate(t *testing.T) {
	for _, tc := range []struct {
		name string
		edit func(cfg *Config)
		err  string
	}{
		{name: "default", edit: func(cfg *Config) {}},
		{name: "capacity", edit: func(cfg *Config) { cfg.Capacity = fobj.MaxCapacity + 1 }, err: "capacity 1048577 out of range [1, 1048576]"},
		{name: "array limit", edit: func(cfg *Config) { cfg.ArrayLimit = -1 }, err: "array_limit -1 must not be negative"},
		{name: "unlimited arrays", edit: func(cfg *Config) { cfg.ArrayLimit = 0 }},
		{name: "max depth", edit: func(cfg *Config) { cfg.MaxDepth = 0 }, err: "max_depth 0 must be positive"},
		{name: "color", edit: func(cfg *Config) { cfg.Color = "sometimes" }, err: `color "sometimes" must be auto, always, or never`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.edit(&cfg)
			if err := cfg.Validate(); tc.err == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.err)
			}
		})
	}
}

func TestConfig_Colorize(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	cfg := DefaultConfig()
	assert.False(t, cfg.Colorize(f), "a plain file is not a terminal")
	cfg.Color = "always"
	assert.True(t, cfg.Colorize(f))
	assert.True(t, cfg.Colorize(nil))
	cfg.Color = "never"
	assert.False(t, cfg.Colorize(f))
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 40
	cfg.StrictGC = true
	cfg.MaxDepth = 3

	sh, err := New(cfg.Options())
	require.NoError(t, err)
	assert.Equal(t, 40, sh.Env().Capacity())
	assert.Equal(t, 3, sh.maxDepth)
}
