package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "127.0.0.1", cfg.Debug.Host)
	assert.Equal(t, 9222, cfg.Debug.Port)
	assert.Equal(t, "http://127.0.0.1:9222", cfg.DebugEndpoint())
	assert.False(t, cfg.Launch.Headless)
	assert.Equal(t, 100.0, cfg.Launch.SlowMo)
	assert.Equal(t, Viewport{Width: 1280, Height: 720}, cfg.Launch.Viewport)
	assert.Contains(t, cfg.Launch.Args, "--disable-blink-features=AutomationControlled")
	assert.Contains(t, cfg.Launch.Args, "--no-first-run")
	assert.Equal(t, "e2e-test-result.png", cfg.Screenshot.Path)
	assert.True(t, cfg.Screenshot.FullPage)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing default file yields defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("default file overrides defaults", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		require.NoError(t, os.MkdirAll(filepath.Join(home, DirName), 0750))
		yamlData := "debug:\n  port: 9333\n"
		require.NoError(t, os.WriteFile(filepath.Join(home, DirName, FileName), []byte(yamlData), 0600))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 9333, cfg.Debug.Port)
		assert.Equal(t, "127.0.0.1", cfg.Debug.Host)
	})

	t.Run("explicit file merges over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "e2e.yaml")
		yamlData := `
debug:
  probe_timeout: 500ms
launch:
  headless: true
  viewport:
    width: 800
    height: 600
navigation:
  timeout: 45s
screenshot:
  path: out/shot.png
logging:
  verbosity: debug
`
		require.NoError(t, os.WriteFile(path, []byte(yamlData), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 500*time.Millisecond, cfg.Debug.ProbeTimeout)
		assert.Equal(t, 9222, cfg.Debug.Port)
		assert.True(t, cfg.Launch.Headless)
		assert.Equal(t, Viewport{Width: 800, Height: 600}, cfg.Launch.Viewport)
		assert.Equal(t, 45*time.Second, cfg.Navigation.Timeout)
		assert.Equal(t, "out/shot.png", cfg.Screenshot.Path)
		assert.Equal(t, "debug", cfg.Logging.Verbosity)
		assert.NotEmpty(t, cfg.Launch.Args)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("debug: [unclosed"), 0600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError string
	}{
		{
			name:        "empty host",
			mutate:      func(c *Config) { c.Debug.Host = "" },
			expectError: "debug host is required",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Debug.Port = 70000 },
			expectError: "invalid debug port",
		},
		{
			name:        "negative probe timeout",
			mutate:      func(c *Config) { c.Debug.ProbeTimeout = -time.Second },
			expectError: "probe_timeout cannot be negative",
		},
		{
			name:        "empty profile dir",
			mutate:      func(c *Config) { c.Launch.ProfileDir = "" },
			expectError: "profile directory is required",
		},
		{
			name:        "negative slow mo",
			mutate:      func(c *Config) { c.Launch.SlowMo = -1 },
			expectError: "slow_mo cannot be negative",
		},
		{
			name:        "zero viewport",
			mutate:      func(c *Config) { c.Launch.Viewport.Width = 0 },
			expectError: "invalid viewport",
		},
		{
			name:        "negative navigation timeout",
			mutate:      func(c *Config) { c.Navigation.Timeout = -time.Second },
			expectError: "navigation timeout cannot be negative",
		},
		{
			name:        "empty screenshot path",
			mutate:      func(c *Config) { c.Screenshot.Path = "" },
			expectError: "screenshot path is required",
		},
		{
			name:        "bad verbosity",
			mutate:      func(c *Config) { c.Logging.Verbosity = "loud" },
			expectError: "invalid logging verbosity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	t.Run("empty verbosity defaults to normal", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Verbosity = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "normal", cfg.Logging.Verbosity)
	})
}

func TestProfileDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := DefaultConfig().ProfileDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DirName, "chromium-profile"), dir)

	cfg := DefaultConfig()
	cfg.Launch.ProfileDir = "/var/tmp/profile"
	dir, err = cfg.ProfileDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/profile", dir)
}

func TestScreenshotPathResolvesAgainstWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	path, err := DefaultConfig().ScreenshotPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "e2e-test-result.png"), path)
}
