package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// VersionInfo is the subset of /json/version the runner cares about.
type VersionInfo struct {
	Browser              string
	ProtocolVersion      string
	UserAgent            string
	WebSocketDebuggerURL string
}

// maxProbeBody caps how much of the version response is read.
const maxProbeBody = 1 << 20

// Probe asks the remote debugging server at endpoint for its version.
// Anything other than a 200 response with a JSON body counts as unreachable.
func Probe(ctx context.Context, client *http.Client, endpoint string) (*VersionInfo, error) {
	if client == nil {
		client = http.DefaultClient
	}

	url := strings.TrimRight(endpoint, "/") + "/json/version"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid debug endpoint %q: %w", endpoint, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDebugEndpointUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrDebugEndpointUnavailable, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDebugEndpointUnavailable, url, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrDebugEndpointUnavailable, url)
	}

	result := gjson.ParseBytes(body)
	return &VersionInfo{
		Browser:              result.Get("Browser").String(),
		ProtocolVersion:      result.Get("Protocol-Version").String(),
		UserAgent:            result.Get("User-Agent").String(),
		WebSocketDebuggerURL: result.Get("webSocketDebuggerUrl").String(),
	}, nil
}
