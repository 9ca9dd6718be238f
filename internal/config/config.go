package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rulial/internal/enumerate"
	"github.com/san-kum/rulial/internal/machine"
)

const (
	DefaultStates      = 1
	DefaultSymbols     = 2
	DefaultSteps       = 10
	DefaultPolicy      = "halt"
	DefaultMaxMachines = 4096
	DefaultLayout      = "spring"
	DefaultLayoutIter  = 200
	DefaultFPS         = 4
	DefaultTheme       = "cyberpunk"
	DefaultLogLevel    = "info"
)

var (
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrInvalid       = errors.New("config: invalid configuration")
)

type Config struct {
	Signature   enumerate.Signature `yaml:"signature"`
	Steps       int                 `yaml:"steps"`
	Policy      string              `yaml:"policy"`
	MaxMachines uint64              `yaml:"max_machines"`
	Workers     int                 `yaml:"workers"`
	Render      RenderConfig        `yaml:"render"`
	LogLevel    string              `yaml:"log_level"`
	MetricsAddr string              `yaml:"metrics_addr"`
}

type RenderConfig struct {
	Layout     string `yaml:"layout"`
	Iterations int    `yaml:"iterations"`
	Seed       int64  `yaml:"seed"`
	FPS        int    `yaml:"fps"`
	Theme      string `yaml:"theme"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Signature:   enumerate.Signature{States: DefaultStates, Symbols: DefaultSymbols},
		Steps:       DefaultSteps,
		Policy:      DefaultPolicy,
		MaxMachines: DefaultMaxMachines,
		Workers:     runtime.NumCPU(),
		Render: RenderConfig{
			Layout:     DefaultLayout,
			Iterations: DefaultLayoutIter,
			Seed:       1,
			FPS:        DefaultFPS,
			Theme:      DefaultTheme,
			Width:      60,
			Height:     24,
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return errors.Wrapf(yaml.Unmarshal(data, c), "parse config %s", path)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

// TapePolicy parses the configured policy name.
func (c *Config) TapePolicy() (machine.TapePolicy, error) {
	return machine.ParsePolicy(c.Policy)
}

// Validate checks every field the pipeline depends on.
func (c *Config) Validate() error {
	if err := c.Signature.Validate(); err != nil {
		return errors.Wrap(err, "signature")
	}
	if c.Steps < 0 {
		return errors.Wrapf(ErrInvalid, "steps must be non-negative, got %d", c.Steps)
	}
	if _, err := c.TapePolicy(); err != nil {
		return errors.Wrap(err, "policy")
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalid, "workers must be non-negative, got %d", c.Workers)
	}
	switch c.Render.Layout {
	case "spring", "circle":
	default:
		return errors.Wrapf(ErrInvalid, "unknown layout %q", c.Render.Layout)
	}
	if c.Render.FPS <= 0 {
		return errors.Wrapf(ErrInvalid, "fps must be positive, got %d", c.Render.FPS)
	}
	return nil
}
