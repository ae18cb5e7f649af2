// Package runner loads a page in an acquired browser session, performs one
// optional action and saves a screenshot.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/entrhq/forge-e2e/pkg/acquire"
	"github.com/entrhq/forge-e2e/pkg/browser"
	"github.com/entrhq/forge-e2e/pkg/logging"
)

// Acquirer provides browser sessions. *acquire.Acquirer implements it.
type Acquirer interface {
	Acquire(ctx context.Context) (*browser.Session, error)
}

// Options configures a Runner.
type Options struct {
	// Strategies names the acquisition order, shown in the banner
	Strategies []string

	// Navigation controls how page loads are awaited
	Navigation browser.NavigateOptions

	// ScreenshotPath is where the result image is written, overwriting any
	// previous file
	ScreenshotPath string

	// FullPage captures the whole scrollable page instead of the viewport
	FullPage bool
}

// Result describes a completed run.
type Result struct {
	Strategy       string
	URL            string
	FinalURL       string
	Title          string
	Action         *Action
	ScreenshotPath string
	ScreenshotSize int
}

// Runner executes a single navigate, act, capture pass against one
// acquired browser session.
type Runner struct {
	acquirer Acquirer
	fs       afero.Fs
	opts     Options
	logger   *logging.Logger
	report   *Reporter
}

// New creates a runner. out receives progress output; fs receives the
// screenshot.
func New(acquirer Acquirer, fs afero.Fs, opts Options, logger *logging.Logger, out io.Writer) *Runner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNopLogger("runner")
	}
	return &Runner{
		acquirer: acquirer,
		fs:       fs,
		opts:     opts,
		logger:   logger,
		report:   NewReporter(out),
	}
}

// Run loads url, performs the optional action and saves a screenshot. The
// acquired session is released on every path, including errors and
// cancellation.
func (r *Runner) Run(ctx context.Context, url, rawAction string) (result *Result, err error) {
	if url == "" {
		return nil, errors.New("url is required")
	}

	// Bad actions are rejected before any browser is touched.
	action, err := ParseAction(rawAction)
	if err != nil {
		return nil, err
	}

	r.report.Header(r.opts.Strategies)

	session, err := r.acquirer.Acquire(ctx)
	if err != nil {
		var acqErr *acquire.AcquisitionError
		if errors.As(err, &acqErr) {
			r.report.Fallback(acquire.FallbackTool, acquire.FallbackGuidance())
		}
		return nil, err
	}
	defer func() {
		if relErr := session.Release(); relErr != nil {
			r.logger.Warnf("failed to release %s session: %v", session.Strategy, relErr)
		} else {
			r.logger.Debugf("released %s session after %s",
				session.Strategy, time.Since(session.AcquiredAt).Round(time.Millisecond))
		}
	}()

	r.logger.Debugf("session acquired via %s", session.Strategy)
	r.report.Acquired(session.Strategy, url)

	if err := session.Navigate(url, r.opts.Navigation); err != nil {
		return nil, &NavigationError{URL: url, Err: err}
	}

	finalURL := session.URL()
	if finalURL != url {
		r.report.Redirected(finalURL)
	}

	title, err := session.Title()
	if err != nil {
		r.logger.Warnf("could not read page title: %v", err)
	}
	r.report.Title(title)

	if action != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.report.Action(action)
		if err := perform(session, action); err != nil {
			return nil, &ActionError{Action: action.Raw, Err: err}
		}
		r.report.ActionDone(action)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, size, err := r.capture(session)
	if err != nil {
		return nil, err
	}
	r.report.Screenshot(path, size)

	return &Result{
		Strategy:       session.Strategy,
		URL:            url,
		FinalURL:       finalURL,
		Title:          title,
		Action:         action,
		ScreenshotPath: path,
		ScreenshotSize: size,
	}, nil
}

// perform dispatches a parsed action to the session.
func perform(session *browser.Session, action *Action) error {
	switch action.Verb {
	case VerbClick:
		return session.ClickText(action.Target)
	case VerbType:
		return session.Fill(action.Target, action.Value)
	default:
		return &UnsupportedActionError{Verb: action.Verb}
	}
}

// capture takes the screenshot and writes it to the configured path.
func (r *Runner) capture(session *browser.Session) (string, int, error) {
	data, err := session.Screenshot(browser.ScreenshotOptions{FullPage: r.opts.FullPage})
	if err != nil {
		return "", 0, err
	}

	path := r.opts.ScreenshotPath
	if path == "" {
		return "", 0, errors.New("screenshot path is not configured")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return "", 0, fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}

	if err := afero.WriteFile(r.fs, path, data, os.FileMode(0o644)); err != nil {
		return "", 0, fmt.Errorf("failed to write screenshot: %w", err)
	}

	r.logger.Debugf("wrote %d bytes to %s", len(data), path)
	return path, len(data), nil
}
