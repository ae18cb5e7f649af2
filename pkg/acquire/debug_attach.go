package acquire

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"

	"github.com/entrhq/forge-e2e/pkg/browser"
	"github.com/entrhq/forge-e2e/pkg/logging"
)

// DefaultProbeTimeout bounds the liveness request to the debug endpoint.
const DefaultProbeTimeout = 2 * time.Second

// DebugAttach attaches to a browser already running in remote-debugging mode.
// It never owns the browser process: release only disconnects.
type DebugAttach struct {
	driver   Driver
	endpoint string
	client   *http.Client
	logger   *logging.Logger
}

// NewDebugAttach creates the strategy for the debug server at endpoint
// (e.g. http://127.0.0.1:9222).
func NewDebugAttach(driver Driver, endpoint string, probeTimeout time.Duration, logger *logging.Logger) *DebugAttach {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = logging.NewNopLogger("acquire")
	}
	return &DebugAttach{
		driver:   driver,
		endpoint: endpoint,
		client:   &http.Client{Timeout: probeTimeout},
		logger:   logger,
	}
}

// ID returns the strategy identifier
func (d *DebugAttach) ID() string {
	return StrategyDebugAttach
}

// Description returns the name shown in progress output
func (d *DebugAttach) Description() string {
	return "Chrome debug mode (CDP)"
}

// Acquire probes the endpoint, starts the driver, attaches, and picks the first page of the
// first context, opening a page only when the context has none.
func (d *DebugAttach) Acquire(ctx context.Context) (*browser.Session, error) {
	info, err := Probe(ctx, d.client, d.endpoint)
	if err != nil {
		return nil, err
	}
	d.logger.Debugf("Debug endpoint %s: %s (protocol %s, ws %s)",
		d.endpoint, info.Browser, info.ProtocolVersion, info.WebSocketDebuggerURL)

	// The driver is only started once something is listening
	chromium, err := d.driver.Chromium()
	if err != nil {
		return nil, fmt.Errorf("playwright unavailable: %w", err)
	}

	b, err := chromium.ConnectOverCDP(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect over CDP: %w", err)
	}

	bctx, ok := lo.First(b.Contexts())
	if !ok {
		d.disconnect(b)
		return nil, ErrNoContexts
	}

	page, ok := lo.First(bctx.Pages())
	if !ok {
		page, err = bctx.NewPage()
		if err != nil {
			d.disconnect(b)
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
		d.logger.Debugf("Opened a new tab in the attached browser")
	}

	d.logger.Infof("  Connected to Chrome debug mode")

	return browser.NewSession(StrategyDebugAttach, bctx, page, func() error {
		// Close on a CDP-connected browser disconnects and leaves the
		// process running.
		if err := b.Close(); err != nil {
			return fmt.Errorf("failed to disconnect from browser: %w", err)
		}
		return nil
	}), nil
}

func (d *DebugAttach) disconnect(b playwright.Browser) {
	if err := b.Close(); err != nil {
		d.logger.Warnf("Failed to disconnect from browser: %v", err)
	}
}
