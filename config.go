package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/term"

	"github.com/jcorbin/fobj/internal/fobj"
)

// Config is the file form of the shell's settings; command line flags
// override it.
type Config struct {
	Capacity   int    `toml:"capacity"`
	StrictGC   bool   `toml:"strict_gc"`
	ArrayLimit int    `toml:"array_limit"`
	MaxDepth   int    `toml:"max_depth"`
	Trace      bool   `toml:"trace"`
	Color      string `toml:"color"` // auto, always, or never
}

// DefaultConfig returns the settings used absent any file or flag.
func DefaultConfig() Config {
	return Config{
		Capacity:   fobj.DefaultCapacity,
		ArrayLimit: fobj.DefaultArrayLimit,
		MaxDepth:   DefaultMaxDepth,
		Color:      "auto",
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("unable to load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return cfg, fmt.Errorf("unknown config keys in %v: %v", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges that the environment would otherwise reject
// later and less clearly.
func (cfg Config) Validate() error {
	if cfg.Capacity <= 0 || cfg.Capacity > fobj.MaxCapacity {
		return fmt.Errorf("capacity %v out of range [1, %v]", cfg.Capacity, fobj.MaxCapacity)
	}
	if cfg.ArrayLimit < 0 {
		return fmt.Errorf("array_limit %v must not be negative", cfg.ArrayLimit)
	}
	if cfg.MaxDepth <= 0 {
		return fmt.Errorf("max_depth %v must be positive", cfg.MaxDepth)
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color %q must be auto, always, or never", cfg.Color)
	}
	return nil
}

// Colorize decides whether output to f should be colored.
func (cfg Config) Colorize(f *os.File) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
}

// Options returns the shell options cfg implies.
func (cfg Config) Options() ShellOption {
	return ShellOptions(
		WithEnvOptions(
			fobj.WithCapacity(cfg.Capacity),
			fobj.WithStrictGC(cfg.StrictGC),
			fobj.WithArrayLimit(cfg.ArrayLimit),
		),
		WithMaxDepth(cfg.MaxDepth),
	)
}
