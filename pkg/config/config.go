package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-user state directory under the home directory.
	DirName = ".e2e-testing"

	// FileName is the config file looked up inside DirName when no path is given.
	FileName = "config.yaml"
)

// Config holds every tunable of a run. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// Debug configures the debug-attach strategy
	Debug DebugConfig `yaml:"debug" json:"debug"`

	// Launch configures the persistent-launch strategy
	Launch LaunchConfig `yaml:"launch" json:"launch"`

	// Navigation configures page loading
	Navigation NavigationConfig `yaml:"navigation" json:"navigation"`

	// Screenshot configures the result capture
	Screenshot ScreenshotConfig `yaml:"screenshot" json:"screenshot"`

	// Playwright configures the driver process
	Playwright PlaywrightConfig `yaml:"playwright" json:"playwright"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DebugConfig locates a browser started with --remote-debugging-port.
type DebugConfig struct {
	Host         string        `yaml:"host" json:"host"`
	Port         int           `yaml:"port" json:"port"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
}

// LaunchConfig describes the browser started against the persistent profile.
type LaunchConfig struct {
	ProfileDir string   `yaml:"profile_dir" json:"profile_dir"`
	Headless   bool     `yaml:"headless" json:"headless"`
	SlowMo     float64  `yaml:"slow_mo" json:"slow_mo"` // milliseconds between actions
	Viewport   Viewport `yaml:"viewport" json:"viewport"`
	Args       []string `yaml:"args" json:"args"`
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// NavigationConfig defines how page loads are awaited
type NavigationConfig struct {
	// Timeout bounds the idle-network wait (0 means the Playwright default)
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// ScreenshotConfig defines where the result screenshot goes
type ScreenshotConfig struct {
	Path     string `yaml:"path" json:"path"`
	FullPage bool   `yaml:"full_page" json:"full_page"`
}

// PlaywrightConfig defines driver installation behavior
type PlaywrightConfig struct {
	// InstallBrowsers downloads the driver and Chromium before the first run
	InstallBrowsers bool `yaml:"install_browsers" json:"install_browsers"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls console output: quiet, normal, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the built-in settings. They match the behavior of the
// tool when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Debug: DebugConfig{
			Host:         "127.0.0.1",
			Port:         9222,
			ProbeTimeout: 2 * time.Second,
		},
		Launch: LaunchConfig{
			ProfileDir: filepath.Join("~", DirName, "chromium-profile"),
			Headless:   false,
			SlowMo:     100,
			Viewport: Viewport{
				Width:  1280,
				Height: 720,
			},
			Args: []string{
				"--disable-blink-features=AutomationControlled",
				"--no-first-run",
				"--no-default-browser-check",
				"--disable-infobars",
				"--disable-dev-shm-usage",
			},
		},
		Screenshot: ScreenshotConfig{
			Path:     "e2e-test-result.png",
			FullPage: true,
		},
		Playwright: PlaywrightConfig{
			InstallBrowsers: true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// DefaultPath returns ~/.e2e-testing/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName, FileName), nil
}

// Load reads a YAML config file over DefaultConfig.
// If path is empty the default location is used and a missing file is not
// an error. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Debug.Host == "" {
		return fmt.Errorf("debug host is required")
	}
	if c.Debug.Port <= 0 || c.Debug.Port > 65535 {
		return fmt.Errorf("invalid debug port: %d", c.Debug.Port)
	}
	if c.Debug.ProbeTimeout < 0 {
		return fmt.Errorf("probe_timeout cannot be negative")
	}

	if c.Launch.ProfileDir == "" {
		return fmt.Errorf("profile directory is required")
	}
	if c.Launch.SlowMo < 0 {
		return fmt.Errorf("slow_mo cannot be negative")
	}
	if c.Launch.Viewport.Width <= 0 || c.Launch.Viewport.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Launch.Viewport.Width, c.Launch.Viewport.Height)
	}

	if c.Navigation.Timeout < 0 {
		return fmt.Errorf("navigation timeout cannot be negative")
	}

	if c.Screenshot.Path == "" {
		return fmt.Errorf("screenshot path is required")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":  true,
		"normal": true,
		"debug":  true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// DebugEndpoint returns the base URL of the remote debugging server,
// e.g. http://127.0.0.1:9222.
func (c *Config) DebugEndpoint() string {
	return "http://" + net.JoinHostPort(c.Debug.Host, strconv.Itoa(c.Debug.Port))
}

// ProfileDir returns the profile directory with a leading ~ expanded.
func (c *Config) ProfileDir() (string, error) {
	return expandHome(c.Launch.ProfileDir)
}

// ScreenshotPath returns the absolute screenshot path. Relative paths are
// resolved against the current working directory.
func (c *Config) ScreenshotPath() (string, error) {
	path, err := expandHome(c.Screenshot.Path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve screenshot path: %w", err)
	}
	return abs, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}
