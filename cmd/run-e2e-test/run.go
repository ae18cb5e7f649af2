package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/entrhq/forge-e2e/pkg/acquire"
	"github.com/entrhq/forge-e2e/pkg/browser"
	"github.com/entrhq/forge-e2e/pkg/config"
	"github.com/entrhq/forge-e2e/pkg/logging"
	"github.com/entrhq/forge-e2e/pkg/runner"
)

// engine is the Playwright driver handed to the strategies.
type engine interface {
	acquire.Driver
	Stop() error
}

// newEngine is replaced in tests.
var newEngine = func(opts browser.EngineOptions) engine {
	return browser.NewEngine(opts)
}

// runE2E wires configuration, logging, the Playwright driver and the
// strategy chain, then performs one run.
func runE2E(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.Verbose {
		cfg.Logging.Verbosity = "debug"
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return fmt.Errorf("invalid configuration: %w", validationErr)
	}

	// A fallback logger is still usable, so the error is not fatal
	logger, _ := logging.NewLogger("run-e2e-test")
	defer logger.Close()
	switch cfg.Logging.Verbosity {
	case "quiet":
		logger.SetConsole(nil, false)
	case "debug":
		logger.SetConsole(stdout, true)
	default:
		logger.SetConsole(stdout, false)
	}
	logger.Debugf("run %s, log file %s", logger.RunID(), logger.LogPath())

	profileDir, err := cfg.ProfileDir()
	if err != nil {
		return err
	}
	screenshotPath, err := cfg.ScreenshotPath()
	if err != nil {
		return err
	}

	// Driver and installer output always lands in the log file
	engineOut := logger.Writer()
	if cfg.Logging.Verbosity == "debug" {
		engineOut = io.MultiWriter(stderr, engineOut)
	}

	// The driver starts inside the strategies that need it, so a missing
	// driver or browser is one failed attempt rather than a fatal error.
	driver := newEngine(browser.EngineOptions{
		InstallBrowsers: cfg.Playwright.InstallBrowsers,
		Stdout:          engineOut,
		Stderr:          engineOut,
	})
	defer func() {
		if stopErr := driver.Stop(); stopErr != nil {
			logger.Warnf("failed to stop playwright: %v", stopErr)
		}
	}()

	acquirer := acquire.NewAcquirer(logger,
		acquire.NewDebugAttach(driver, cfg.DebugEndpoint(), cfg.Debug.ProbeTimeout, logger),
		acquire.NewPersistentLaunch(driver, afero.NewOsFs(), profileDir, cfg.Launch, logger),
	)

	r := runner.New(acquirer, afero.NewOsFs(), runner.Options{
		Strategies:     []string{acquire.StrategyDebugAttach, acquire.StrategyPersistentLaunch, acquire.FallbackTool},
		Navigation:     browser.NavigateOptions{Timeout: cfg.Navigation.Timeout},
		ScreenshotPath: screenshotPath,
		FullPage:       cfg.Screenshot.FullPage,
	}, logger, stdout)

	_, err = r.Run(ctx, opts.URL, opts.Action)
	return err
}
