// Package config resolves the poller configuration from defaults, a YAML file,
// environment variables and command-line flags.
// Configuration precedence: CLI flags > environment variables > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAddress is the Fluentd forward listener on the local host.
const DefaultAddress = "127.0.0.1:24224"

// Duration is a wrapper around time.Duration that accepts human-readable
// strings like "30s" and "5m" as well as a plain integer count of seconds.
type Duration struct {
	time.Duration
}

// ParseDuration parses s as integer seconds or, failing that, as a Go duration.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration{time.Duration(secs) * time.Second}, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q: expected seconds or a value like 30s, 5m", s)
	}
	return Duration{d}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Set implements flag.Value so a Duration can be bound to a command-line flag.
// Zero and negative values are rejected; an unset flag keeps the zero value.
func (d *Duration) Set(s string) error {
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	if parsed.Duration <= 0 {
		return fmt.Errorf("duration %q must be positive", s)
	}
	*d = parsed
	return nil
}

// Config holds the complete poller configuration.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
	Target    TargetConfig    `yaml:"target"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Debug writes a pretty-printed copy of every record to standard output.
	Debug bool `yaml:"debug"`
}

// CollectorConfig holds the Fluentd forwarding settings.
type CollectorConfig struct {
	Address string   `yaml:"address"`
	Tag     string   `yaml:"tag"`
	Off     bool     `yaml:"off"`
	Timeout Duration `yaml:"timeout"`
}

// TargetConfig describes what to measure and how often.
type TargetConfig struct {
	Path     string   `yaml:"path"`
	Interval Duration `yaml:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ForwardingEnabled reports whether records are sent to the collector.
func (c *Config) ForwardingEnabled() bool {
	return !c.Collector.Off
}

// DefaultConfig returns the default configuration. Tag, path and interval
// have no defaults and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			Address: DefaultAddress,
			Timeout: Duration{5 * time.Second},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// CLIOverrides holds values from command-line flags.
// Empty strings, zero durations and false booleans are treated as "not set".
type CLIOverrides struct {
	Address  string
	Tag      string
	Path     string
	Interval Duration
	Timeout  Duration
	Off      bool
	Debug    bool
	LogLevel string
	LogFile  string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFromBytes parses YAML configuration from a byte slice over the defaults.
// Environment variables override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > YAML file > defaults.
//
// An optional configPath argument controls file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value → use that path ("" means no file)
//
// An explicitly named file that cannot be read is an error; an auto-discovered
// path that vanished is not.
func LoadLayered(cli CLIOverrides, configPath ...string) (*Config, error) {
	var (
		filePath string
		explicit bool
	)
	if len(configPath) > 0 {
		filePath = configPath[0]
		explicit = true
	} else {
		filePath = Locate()
	}

	var data []byte
	if filePath != "" {
		b, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			data = b
		case explicit || !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
		}
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		if filePath != "" {
			return nil, fmt.Errorf("%s: %w", filePath, err)
		}
		return nil, err
	}

	applyCLIOverrides(cfg, cli)
	return cfg, nil
}

func applyCLIOverrides(cfg *Config, cli CLIOverrides) {
	if cli.Address != "" {
		cfg.Collector.Address = cli.Address
	}
	if cli.Tag != "" {
		cfg.Collector.Tag = cli.Tag
	}
	if cli.Path != "" {
		cfg.Target.Path = cli.Path
	}
	if cli.Interval.Duration != 0 {
		cfg.Target.Interval = cli.Interval
	}
	if cli.Timeout.Duration != 0 {
		cfg.Collector.Timeout = cli.Timeout
	}
	if cli.Off {
		cfg.Collector.Off = true
	}
	if cli.Debug {
		cfg.Debug = true
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.Logging.File = cli.LogFile
	}
}

// applyEnvOverrides applies DUP_* environment variables to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DUP_ADDR"); v != "" {
		cfg.Collector.Address = v
	}
	if v := os.Getenv("DUP_TAG"); v != "" {
		cfg.Collector.Tag = v
	}
	if v := os.Getenv("DUP_PATH"); v != "" {
		cfg.Target.Path = v
	}
	if v := os.Getenv("DUP_INTERVAL"); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DUP_INTERVAL: %w", err)
		}
		cfg.Target.Interval = d
	}
	if v := os.Getenv("DUP_TIMEOUT"); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DUP_TIMEOUT: %w", err)
		}
		cfg.Collector.Timeout = d
	}
	if v := os.Getenv("DUP_OFF"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DUP_OFF: %w", err)
		}
		cfg.Collector.Off = b
	}
	if v := os.Getenv("DUP_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DUP_DEBUG: %w", err)
		}
		cfg.Debug = b
	}
	if v := os.Getenv("DUP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DUP_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	return nil
}

// Validate checks that every required setting is present and well formed.
// The collector address is left to the sender, which rejects it per tick.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	if c.Collector.Tag == "" {
		errs = append(errs, errors.New("tag is required (-t/--tag)"))
	}
	if c.Target.Path == "" {
		errs = append(errs, errors.New("path is required (-p/--path)"))
	}
	if c.Target.Interval.Duration <= 0 {
		errs = append(errs, errors.New("interval must be a positive duration (-i/--interval)"))
	}
	if c.Collector.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("collector timeout must be positive"))
	}
	return errors.Join(errs...)
}
