package acquire

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/forge-e2e/pkg/browser"
	"github.com/entrhq/forge-e2e/pkg/logging"
)

// Strategy identifiers reported on acquired sessions.
const (
	StrategyDebugAttach      = "debug-attach"
	StrategyPersistentLaunch = "persistent-launch"
)

// Strategy is one way of obtaining a browser session.
// Implementations clean up anything they opened before returning an error.
type Strategy interface {
	// ID returns the strategy identifier
	ID() string

	// Description returns a human-readable name for progress output
	Description() string

	// Acquire returns a session or the reason the strategy is unavailable
	Acquire(ctx context.Context) (*browser.Session, error)
}

// Driver provides the Playwright Chromium browser type, starting the driver
// on first use. A driver that cannot start fails the strategy asking for
// it, never the whole chain. *browser.Engine implements it.
type Driver interface {
	Chromium() (playwright.BrowserType, error)

	// EnsureBrowsers makes sure a Chromium binary is available to launch
	EnsureBrowsers() error
}

// Acquirer tries strategies in order and returns the first session obtained.
type Acquirer struct {
	strategies []Strategy
	logger     *logging.Logger
}

// NewAcquirer creates an acquirer over strategies, tried in the given order.
func NewAcquirer(logger *logging.Logger, strategies ...Strategy) *Acquirer {
	if logger == nil {
		logger = logging.NewNopLogger("acquire")
	}
	return &Acquirer{
		strategies: strategies,
		logger:     logger,
	}
}

// Acquire runs the strategy chain. Strategy failures are logged and
// recorded, never returned; if every strategy fails the result is an
// *AcquisitionError. A cancelled context stops the chain.
func (a *Acquirer) Acquire(ctx context.Context) (*browser.Session, error) {
	attempts := make([]Attempt, 0, len(a.strategies))

	for _, strategy := range a.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("browser acquisition cancelled: %w", err)
		}

		a.logger.Infof("Trying %s: %s...", strategy.ID(), strategy.Description())

		session, err := a.try(ctx, strategy)
		if err == nil && session != nil {
			a.logger.Infof("  Acquired browser via %s", strategy.ID())
			return session, nil
		}
		if err == nil {
			err = ErrNoSession
		}

		a.logger.Infof("  %s unavailable: %v", strategy.ID(), err)
		attempts = append(attempts, Attempt{Strategy: strategy.ID(), Err: err})
	}

	a.logger.Errorf("All browser strategies failed")
	return nil, &AcquisitionError{Attempts: attempts}
}

// try runs one strategy, turning a panic into an error.
func (a *Acquirer) try(ctx context.Context, strategy Strategy) (session *browser.Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			session = nil
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()
	return strategy.Acquire(ctx)
}
