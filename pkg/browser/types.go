package browser

import (
	"errors"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrNoMatch is returned when a locator resolves to no element.
var ErrNoMatch = errors.New("no element matched")

// Session is an acquired browser context and page, owned by the caller
// until Release.
type Session struct {
	// Strategy identifies how the session was acquired
	Strategy string

	// Context is the browser context the page lives in
	Context playwright.BrowserContext

	// Page is the tab the run drives
	Page playwright.Page

	// AcquiredAt is the timestamp when the session was handed out
	AcquiredAt time.Time

	release     func() error
	releaseOnce sync.Once
	releaseErr  error
	released    bool
	mu          sync.Mutex
}

// NewSession wraps acquired handles. release hands the resources back and
// is invoked at most once, by Release.
func NewSession(strategy string, ctx playwright.BrowserContext, page playwright.Page, release func() error) *Session {
	return &Session{
		Strategy:   strategy,
		Context:    ctx,
		Page:       page,
		AcquiredAt: time.Now(),
		release:    release,
	}
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful.
	// Valid values: "load", "domcontentloaded", "networkidle", "commit".
	// Empty means "networkidle".
	WaitUntil string

	// Timeout bounds the navigation (0 means the Playwright default)
	Timeout time.Duration
}

// ScreenshotOptions configures page capture.
type ScreenshotOptions struct {
	FullPage bool
}
