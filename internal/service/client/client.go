package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/einkmax/einkctl/internal/api/agentapi"
	"github.com/einkmax/einkctl/internal/config"
)

// Client talks to the eink-agent control API with convenience helpers.
type Client struct {
	// baseURL is the agent's control API root, e.g. "http://127.0.0.1:9723".
	baseURL string
	// httpClient performs the requests.
	httpClient *http.Client

	// callTimeout is the default timeout for individual calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("agent address must be provided")
)

// heartbeatResponse mirrors the agent's heartbeat body.
type heartbeatResponse struct {
	// NextDeadline is when the safety action fires absent further heartbeats.
	NextDeadline time.Time `json:"next_deadline"`
}

// New creates a client for the agent at the provided address. The address
// may be a bare host:port; the scheme defaults to http.
func New(address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	c := &Client{
		baseURL:     strings.TrimRight(address, "/"),
		httpClient:  http.DefaultClient,
		callTimeout: config.DefaultToolTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Heartbeat resets the agent watchdog and returns the next safety deadline.
func (c *Client) Heartbeat(ctx context.Context) (time.Time, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/api/v1/heartbeat", http.NoBody)
	if err != nil {
		return time.Time{}, fmt.Errorf("build heartbeat request: %w", err)
	}

	var body heartbeatResponse
	if err := c.do(req, &body); err != nil {
		return time.Time{}, fmt.Errorf("heartbeat: %w", err)
	}

	return body.NextDeadline, nil
}

// Status retrieves the agent's hardware and liveness snapshot.
func (c *Client) Status(ctx context.Context) (*agentapi.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+"/api/v1/status", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}

	var snapshot agentapi.Snapshot
	if err := c.do(req, &snapshot); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	return &snapshot, nil
}

// do performs the request and decodes the JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent responded with %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
