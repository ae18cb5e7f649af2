package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Driver entry points, replaced in tests.
var (
	installPlaywright = playwright.Install
	runPlaywright     = playwright.Run
	stopPlaywright    = func(pw *playwright.Playwright) error { return pw.Stop() }
)

// EngineOptions configures the Playwright driver process.
type EngineOptions struct {
	// InstallBrowsers downloads the driver on start and Chromium when a
	// launch needs it
	InstallBrowsers bool

	// Output of the driver and installer. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Engine owns the Playwright driver process for one invocation. The driver
// is started on first use, so a run that never needs it never pays for it.
type Engine struct {
	mu                sync.Mutex
	opts              EngineOptions
	playwright        *playwright.Playwright
	started           bool
	startErr          error
	browsersInstalled bool
}

// NewEngine creates an engine. Nothing is started until Start or Chromium.
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{opts: opts}
}

func (e *Engine) runOptions() *playwright.RunOptions {
	stdout, stderr := e.opts.Stdout, e.opts.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &playwright.RunOptions{
		Verbose: false,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// Start installs the driver (if configured) and runs it. Browser binaries
// are left to EnsureBrowsers. Calling Start on a running engine is a no-op;
// after a failed start the same error is returned without retrying.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	if e.started {
		return nil
	}
	if e.startErr != nil {
		return e.startErr
	}

	if e.opts.InstallBrowsers {
		opts := e.runOptions()
		opts.SkipInstallBrowsers = true
		if err := installPlaywright(opts); err != nil {
			e.startErr = fmt.Errorf("failed to install playwright driver: %w", err)
			return e.startErr
		}
	}

	pw, err := runPlaywright(e.runOptions())
	if err != nil {
		e.startErr = fmt.Errorf("failed to start playwright: %w", err)
		return e.startErr
	}

	e.playwright = pw
	e.started = true
	return nil
}

// Chromium returns the Chromium browser type, starting the driver if needed.
func (e *Engine) Chromium() (playwright.BrowserType, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.startLocked(); err != nil {
		return nil, err
	}
	return e.playwright.Chromium, nil
}

// EnsureBrowsers downloads Chromium if installs are enabled. Only needed
// before launching a browser; attaching over CDP uses the running one.
func (e *Engine) EnsureBrowsers() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.opts.InstallBrowsers || e.browsersInstalled {
		return nil
	}

	opts := e.runOptions()
	opts.Browsers = []string{"chromium"}
	if err := installPlaywright(opts); err != nil {
		return fmt.Errorf("failed to install chromium: %w", err)
	}
	e.browsersInstalled = true
	return nil
}

// Stop shuts the driver down. Safe to call on a stopped or never started
// engine.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.playwright == nil {
		return nil
	}

	err := stopPlaywright(e.playwright)
	e.playwright = nil
	e.started = false
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
