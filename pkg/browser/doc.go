// Package browser wraps the Playwright driver for the e2e runner.
//
// It owns two things:
//
//  1. Engine: the Playwright driver process, started on first use
//     (optional driver and Chromium install, run, stop)
//  2. Session: an acquired browser context and page together with the
//     strategy-specific release function that hands them back
//
// Sessions are produced by the acquire package and consumed by the runner.
// Release is idempotent: the underlying release function runs at most once,
// no matter how many cleanup paths call it.
//
// # Example Usage
//
//	engine := browser.NewEngine(browser.EngineOptions{InstallBrowsers: true})
//	defer engine.Stop()
//
//	// Strategies call engine.Chromium() when they need the driver
//	acquirer := acquire.NewAcquirer(logger, acquire.NewDebugAttach(engine, endpoint, 0, logger))
//	session, err := acquirer.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Release()
//
//	err = session.Navigate("http://localhost:3000", browser.NavigateOptions{})
package browser
