package registry

import (
	"fmt"
	"os"

	"github.com/joeycumines/logiface"
	"gopkg.in/yaml.v3"
)

// Config declares the channels an executor owns.
type Config struct {
	// LogLevel is one of the logiface level keywords (e.g. debug, info,
	// warning). Defaults to info.
	LogLevel string          `yaml:"log_level"`
	Channels []ChannelConfig `yaml:"channels"`
}

// ChannelConfig declares a single named channel.
type ChannelConfig struct {
	Name string `yaml:"name"`
	// Type is the element type, see ElemTypes.
	Type string `yaml:"type"`
	// Capacity of 0 makes a rendezvous channel.
	Capacity int `yaml:"capacity"`
}

// ParseConfig decodes and validates a YAML document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks names are present and unique, capacities are not negative,
// element types are known and the log level is valid.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Channels))
	for i, ch := range c.Channels {
		if ch.Name == "" {
			return fmt.Errorf("%w: channel %d has no name", ErrInvalidConfig, i)
		}
		if _, ok := seen[ch.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateChannel, ch.Name)
		}
		seen[ch.Name] = struct{}{}
		if ch.Capacity < 0 {
			return fmt.Errorf("%w: channel %q has negative capacity %d", ErrInvalidConfig, ch.Name, ch.Capacity)
		}
		if _, ok := elemTypes[ch.Type]; !ok {
			return fmt.Errorf("%w: channel %q has type %q", ErrUnknownType, ch.Name, ch.Type)
		}
	}
	return nil
}

// Level resolves LogLevel.
func (c *Config) Level() (logiface.Level, error) {
	switch c.LogLevel {
	case "", "info":
		return logiface.LevelInformational, nil
	case "disabled":
		return logiface.LevelDisabled, nil
	case "emerg":
		return logiface.LevelEmergency, nil
	case "alert":
		return logiface.LevelAlert, nil
	case "crit":
		return logiface.LevelCritical, nil
	case "err", "error":
		return logiface.LevelError, nil
	case "warning", "warn":
		return logiface.LevelWarning, nil
	case "notice":
		return logiface.LevelNotice, nil
	case "debug":
		return logiface.LevelDebug, nil
	case "trace":
		return logiface.LevelTrace, nil
	default:
		return logiface.LevelDisabled, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
}
