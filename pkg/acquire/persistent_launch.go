package acquire

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/entrhq/forge-e2e/pkg/browser"
	"github.com/entrhq/forge-e2e/pkg/config"
	"github.com/entrhq/forge-e2e/pkg/logging"
)

// PersistentLaunch starts Chromium bound to a reusable profile directory so
// cookies and storage survive between runs. The launched browser belongs to
// the session and is closed on release.
type PersistentLaunch struct {
	driver     Driver
	fs         afero.Fs
	profileDir string
	launch     config.LaunchConfig
	logger     *logging.Logger
}

// NewPersistentLaunch creates the strategy. profileDir must already be
// expanded; it is created on demand through fs.
func NewPersistentLaunch(driver Driver, fs afero.Fs, profileDir string, launch config.LaunchConfig, logger *logging.Logger) *PersistentLaunch {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNopLogger("acquire")
	}
	return &PersistentLaunch{
		driver:     driver,
		fs:         fs,
		profileDir: profileDir,
		launch:     launch,
		logger:     logger,
	}
}

// ID returns the strategy identifier
func (p *PersistentLaunch) ID() string {
	return StrategyPersistentLaunch
}

// Description returns the name shown in progress output
func (p *PersistentLaunch) Description() string {
	return "Chromium persistent context"
}

// Acquire ensures the profile directory exists, starts the driver, makes
// sure Chromium is installed, launches the browser and
// selects its first page, opening one if none is open.
func (p *PersistentLaunch) Acquire(ctx context.Context) (*browser.Session, error) {
	if err := p.fs.MkdirAll(p.profileDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create profile directory %s: %w", p.profileDir, err)
	}

	p.logger.Debugf("Launching Chromium with profile %s (headless=%t, slowMo=%.0fms, viewport=%dx%d)",
		p.profileDir, p.launch.Headless, p.launch.SlowMo, p.launch.Viewport.Width, p.launch.Viewport.Height)

	chromium, err := p.driver.Chromium()
	if err != nil {
		return nil, fmt.Errorf("playwright unavailable: %w", err)
	}
	if err := p.driver.EnsureBrowsers(); err != nil {
		return nil, err
	}

	bctx, err := chromium.LaunchPersistentContext(p.profileDir, p.launchOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, ok := lo.First(bctx.Pages())
	if !ok {
		page, err = bctx.NewPage()
		if err != nil {
			if closeErr := bctx.Close(); closeErr != nil {
				p.logger.Warnf("Failed to close browser context: %v", closeErr)
			}
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	p.logger.Infof("  Launched Chromium with persistent context")

	return browser.NewSession(StrategyPersistentLaunch, bctx, page, func() error {
		if err := bctx.Close(); err != nil {
			return fmt.Errorf("failed to close browser context: %w", err)
		}
		return nil
	}), nil
}

func (p *PersistentLaunch) launchOptions() playwright.BrowserTypeLaunchPersistentContextOptions {
	return playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(p.launch.Headless),
		SlowMo:   playwright.Float(p.launch.SlowMo),
		Viewport: &playwright.Size{
			Width:  p.launch.Viewport.Width,
			Height: p.launch.Viewport.Height,
		},
		Args: append([]string(nil), p.launch.Args...),
	}
}
