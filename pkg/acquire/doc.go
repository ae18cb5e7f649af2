// Package acquire obtains a controllable browser session by trying a fixed
// list of strategies in order.
//
// # Strategies
//
//  1. debug-attach: attach over CDP to a browser already running with
//     --remote-debugging-port (default 127.0.0.1:9222). Releasing the session
//     only disconnects; the external browser keeps running.
//  2. persistent-launch: start Chromium against a reusable profile directory
//     (~/.e2e-testing/chromium-profile). Releasing the session closes it.
//
// Each strategy reports failure as an error which the Acquirer absorbs,
// logs, and records; the first strategy that returns a session wins. Only
// when every strategy has failed does Acquire return an *AcquisitionError,
// whose message points at the agent-browser CLI as the manual fallback.
package acquire
