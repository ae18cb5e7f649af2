package acquire

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackTool is the external CLI users should fall back to when no
// strategy can provide a browser. It is only ever suggested, never run.
const FallbackTool = "agent-browser"

var (
	// ErrDebugEndpointUnavailable means nothing answered on the debug port.
	ErrDebugEndpointUnavailable = errors.New("chrome debug mode not available")

	// ErrNoContexts means the attached browser had no open context.
	ErrNoContexts = errors.New("no browser contexts available")

	// ErrNoSession means a strategy reported success without a session.
	ErrNoSession = errors.New("strategy returned no session")
)

// Attempt records why one strategy did not produce a session.
type Attempt struct {
	Strategy string
	Err      error
}

// AcquisitionError is returned when every strategy failed.
type AcquisitionError struct {
	Attempts []Attempt
}

func (e *AcquisitionError) Error() string {
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reasons = append(reasons, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}

	msg := "all browser strategies failed"
	if len(reasons) > 0 {
		msg += " (" + strings.Join(reasons, "; ") + ")"
	}
	return msg + fmt.Sprintf(". Use the %s skill as the final fallback; see the %s CLI reference", FallbackTool, FallbackTool)
}

// Unwrap returns the per-strategy errors so errors.Is can match them.
func (e *AcquisitionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// FallbackGuidance returns example commands for driving the browser by hand
// with the fallback tool.
func FallbackGuidance() []string {
	return []string{
		FallbackTool + " open <url>",
		FallbackTool + " snapshot -i",
		FallbackTool + " click @e1",
		FallbackTool + ` fill @e2 "text"`,
		FallbackTool + " screenshot result.png",
	}
}
