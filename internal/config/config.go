// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/xnotid/xnotid/internal/model"
)

// Duration is a time.Duration that unmarshals from human-readable
// strings like "5s" or "1m30s", or from integer milliseconds for
// compatibility with raw protocol timeouts. Zero means persistent.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m30s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the xnotid daemon configuration, loaded from
// $XDG_CONFIG_HOME/xnotid/config.toml.
type Config struct {
	Timeouts TimeoutConfig `toml:"timeouts"`
	Log      LogConfig     `toml:"log"`
	Daemon   DaemonConfig  `toml:"daemon"`
}

// TimeoutConfig holds the per-urgency default display timeouts applied
// when a sender defers to the server default. Zero means persistent.
type TimeoutConfig struct {
	Low      Duration `toml:"low"`
	Normal   Duration `toml:"normal"`
	Critical Duration `toml:"critical"`
}

// LogConfig controls the lifecycle audit log.
type LogConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// DaemonConfig holds runtime loop settings.
type DaemonConfig struct {
	// RefreshInterval is the presentation loop tick.
	RefreshInterval Duration `toml:"refresh_interval"`
	// SignalPollInterval bounds outbound signal latency.
	SignalPollInterval Duration `toml:"signal_poll_interval"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Timeouts: TimeoutConfig{
			Low:      Duration(5 * time.Second),
			Normal:   Duration(10 * time.Second),
			Critical: 0, // critical notifications never auto-expire
		},
		Log: LogConfig{
			Enabled: true,
			Path:    DefaultLogPath(),
		},
		Daemon: DaemonConfig{
			RefreshInterval:    Duration(50 * time.Millisecond),
			SignalPollInterval: Duration(50 * time.Millisecond),
		},
	}
}

// TimeoutFor returns the configured default display timeout for the
// given urgency. Zero means persistent.
func (c *Config) TimeoutFor(u model.Urgency) time.Duration {
	switch u {
	case model.UrgencyLow:
		return c.Timeouts.Low.Duration()
	case model.UrgencyCritical:
		return c.Timeouts.Critical.Duration()
	default:
		return c.Timeouts.Normal.Duration()
	}
}

// ConfigPath returns the path to the config file. Uses XDG_CONFIG_HOME
// if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "xnotid", "config.toml")
}

// DataPath returns the path to the data directory. Uses XDG_DATA_HOME
// if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "xnotid")
}

// DefaultLogPath returns the default audit log location.
func DefaultLogPath() string {
	return filepath.Join(DataPath(), "notifications.jsonl")
}

// Load loads configuration from the specified path, or the default path
// when empty. A missing file yields the defaults; a malformed file is
// an error so a typo never silently reverts the daemon to defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
