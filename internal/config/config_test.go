package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnotid/xnotid/internal/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5*time.Second, cfg.Timeouts.Low.Duration())
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Normal.Duration())
	assert.Equal(t, time.Duration(0), cfg.Timeouts.Critical.Duration())
	assert.True(t, cfg.Log.Enabled)
	assert.NotEmpty(t, cfg.Log.Path)
	assert.Equal(t, 50*time.Millisecond, cfg.Daemon.RefreshInterval.Duration())
	assert.Equal(t, 50*time.Millisecond, cfg.Daemon.SignalPollInterval.Duration())
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"go duration", "5s", 5 * time.Second, false},
		{"compound duration", "1m30s", 90 * time.Second, false},
		{"integer milliseconds", "2500", 2500 * time.Millisecond, false},
		{"zero", "0", 0, false},
		{"garbage", "soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestConfig_TimeoutFor(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5*time.Second, cfg.TimeoutFor(model.UrgencyLow))
	assert.Equal(t, 10*time.Second, cfg.TimeoutFor(model.UrgencyNormal))
	assert.Equal(t, time.Duration(0), cfg.TimeoutFor(model.UrgencyCritical))
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Timeouts, cfg.Timeouts)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[timeouts]
normal = "30s"
critical = "1m"

[log]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Normal.Duration())
	assert.Equal(t, time.Minute, cfg.Timeouts.Critical.Duration())
	assert.False(t, cfg.Log.Enabled)
	// Unset fields keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Low.Duration())
	assert.Equal(t, 50*time.Millisecond, cfg.Daemon.RefreshInterval.Duration())
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("timeouts = {{"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Timeouts.Normal = Duration(42 * time.Second)
	cfg.Log.Enabled = false
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, got.Timeouts.Normal.Duration())
	assert.False(t, got.Log.Enabled)
}

func TestConfigPath_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, "/tmp/xdg-test/xnotid/config.toml", ConfigPath())
}

func TestDataPath_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	assert.Equal(t, "/tmp/xdg-data/xnotid", DataPath())
	assert.Equal(t, "/tmp/xdg-data/xnotid/notifications.jsonl", DefaultLogPath())
}
