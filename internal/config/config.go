// Package config loads crosscc's settings: built-in defaults, optionally
// overridden by a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

// EnvVar names the environment variable that points at a config file when
// no path is given explicitly.
const EnvVar = "CROSSCC_CONFIG"

// Config holds everything a resolution can be tuned with.
type Config struct {
	Env     EnvConfig      `toml:"env"`
	Probe   ProbeConfig    `toml:"probe"`
	Targets []TargetConfig `toml:"target"`
}

// EnvConfig names the environment variables a resolution reads.
type EnvConfig struct {
	Triple string `toml:"triple"`
	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`
	Path   string `toml:"path"`
}

// ProbeConfig tunes tool discovery and the compiler probe.
type ProbeConfig struct {
	IncludeTimeout Duration `toml:"include_timeout"`
	NoopTool       string   `toml:"noop_tool"`
}

// Settings lists the probe settings in a stable order, for cache keys.
func (p ProbeConfig) Settings() []string {
	return []string{
		"include_timeout=" + time.Duration(p.IncludeTimeout).String(),
		"noop_tool=" + p.NoopTool,
	}
}

// TargetConfig declares a toolchain to resolve in addition to the one the
// environment describes.
type TargetConfig struct {
	Triple string `toml:"triple"`
	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`
}

// Duration is a time.Duration written as a string like "10s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	names := toolchain.DefaultEnvNames()

	return Config{
		Env: EnvConfig{
			Triple: names.Triple,
			Prefix: names.Prefix,
			Suffix: names.Suffix,
			Path:   names.Path,
		},
		Probe: ProbeConfig{
			IncludeTimeout: Duration(10 * time.Second),
			NoopTool:       toolchain.DefaultNoopTool,
		},
	}
}

// EnvNames converts the [env] section for toolchain.WithEnvNames.
func (c Config) EnvNames() toolchain.EnvNames {
	return toolchain.EnvNames{
		Triple: c.Env.Triple,
		Prefix: c.Env.Prefix,
		Suffix: c.Env.Suffix,
		Path:   c.Env.Path,
	}
}

// Load reads the file at path over the defaults. An empty path falls back to
// $CROSSCC_CONFIG; if that is unset too, the defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	for key, name := range map[string]string{
		"env.triple": c.Env.Triple,
		"env.prefix": c.Env.Prefix,
		"env.suffix": c.Env.Suffix,
		"env.path":   c.Env.Path,
	} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("[%s] must name an environment variable", key)
		}
	}

	if c.Probe.IncludeTimeout <= 0 {
		return errors.New("[probe].include_timeout must be positive")
	}

	for i, t := range c.Targets {
		if err := toolchain.Triple(t.Triple).Validate(); err != nil {
			return fmt.Errorf("[[target]] #%d: %w", i+1, err)
		}
	}

	return nil
}
