package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"30", 30 * time.Second, false},
		{" 5 ", 5 * time.Second, false},
		{"30s", 30 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"250ms", 250 * time.Millisecond, false},
		{"0", 0, false},
		{"", 0, true},
		{"soon", 0, true},
		{"5 minutes", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got.Duration != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got.Duration, tt.want)
			}
		})
	}
}

func TestLoadFromBytes_YAML(t *testing.T) {
	data := []byte(`
collector:
  address: "fluentd.internal:24224"
  tag: "disk.root"
  timeout: 2s
target:
  path: "/var"
  interval: 60
debug: true
`)
	cfg, err := LoadFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Collector.Address != "fluentd.internal:24224" {
		t.Errorf("Address = %q", cfg.Collector.Address)
	}
	if cfg.Target.Interval.Duration != time.Minute {
		t.Errorf("Interval = %v, want 1m from integer seconds", cfg.Target.Interval.Duration)
	}
	if cfg.Collector.Timeout.Duration != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", cfg.Collector.Timeout.Duration)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if !cfg.ForwardingEnabled() {
		t.Error("forwarding should be enabled by default")
	}
}

func TestLoadFromBytes_BadInterval(t *testing.T) {
	if _, err := LoadFromBytes([]byte("target:\n  interval: often\n")); err == nil {
		t.Fatal("expected error for unparseable interval")
	}
}

func TestLoadLayered_DefaultsWhenEmpty(t *testing.T) {
	cfg, err := LoadLayered(CLIOverrides{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Collector.Address != DefaultAddress {
		t.Errorf("Address = %q, want %q", cfg.Collector.Address, DefaultAddress)
	}
	if cfg.Collector.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s default", cfg.Collector.Timeout.Duration)
	}
	if cfg.Target.Interval.Duration != 0 {
		t.Errorf("Interval = %v, want no default", cfg.Target.Interval.Duration)
	}
}

func TestLoadLayered_CLIOverridesEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	if err := os.WriteFile(path, []byte("collector:\n  tag: file.tag\ntarget:\n  path: /file\n  interval: 10s\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DUP_TAG", "env.tag")
	t.Setenv("DUP_INTERVAL", "20")

	cli := CLIOverrides{Tag: "cli.tag", Interval: Duration{30 * time.Second}, Off: true}
	cfg, err := LoadLayered(cli, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Collector.Tag != "cli.tag" {
		t.Errorf("Tag = %q, want CLI override", cfg.Collector.Tag)
	}
	if cfg.Target.Interval.Duration != 30*time.Second {
		t.Errorf("Interval = %v, want CLI override", cfg.Target.Interval.Duration)
	}
	if cfg.Target.Path != "/file" {
		t.Errorf("Path = %q, want file value", cfg.Target.Path)
	}
	if cfg.ForwardingEnabled() {
		t.Error("--off should disable forwarding")
	}
}

func TestLoadLayered_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	if err := os.WriteFile(path, []byte("collector:\n  tag: file.tag\n  address: file:1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DUP_ADDR", "env:2")
	t.Setenv("DUP_OFF", "true")

	cfg, err := LoadLayered(CLIOverrides{}, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Collector.Address != "env:2" {
		t.Errorf("Address = %q, want env override", cfg.Collector.Address)
	}
	if cfg.Collector.Tag != "file.tag" {
		t.Errorf("Tag = %q, want file value", cfg.Collector.Tag)
	}
	if cfg.ForwardingEnabled() {
		t.Error("DUP_OFF=true should disable forwarding")
	}
}

func TestLoadLayered_BadEnv(t *testing.T) {
	t.Setenv("DUP_OFF", "maybe")
	if _, err := LoadLayered(CLIOverrides{}, ""); err == nil {
		t.Fatal("expected error for invalid DUP_OFF")
	}
}

func TestLoadLayered_MissingExplicitFile(t *testing.T) {
	_, err := LoadLayered(CLIOverrides{}, filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Collector.Tag = "disk.test"
		cfg.Target.Path = "/"
		cfg.Target.Interval = Duration{30 * time.Second}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing_tag", func(c *Config) { c.Collector.Tag = "" }, true},
		{"missing_path", func(c *Config) { c.Target.Path = "" }, true},
		{"zero_interval", func(c *Config) { c.Target.Interval = Duration{} }, true},
		{"negative_interval", func(c *Config) { c.Target.Interval = Duration{-time.Second} }, true},
		{"address_left_to_sender", func(c *Config) { c.Collector.Address = "fluentd" }, false},
		{"zero_timeout", func(c *Config) { c.Collector.Timeout = Duration{} }, true},
		{"forwarding_off_still_valid", func(c *Config) { c.Collector.Off = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuration_FlagValue(t *testing.T) {
	var d Duration
	if err := d.Set("45"); err != nil {
		t.Fatal(err)
	}
	if d.String() != "45s" {
		t.Errorf("String() = %q, want 45s", d.String())
	}
	for _, bad := range []string{"nope", "0", "0s", "-5"} {
		if err := d.Set(bad); err == nil {
			t.Errorf("Set(%q): expected error", bad)
		}
	}
	if d.Duration != 45*time.Second {
		t.Errorf("rejected values changed the duration to %v", d.Duration)
	}
}
