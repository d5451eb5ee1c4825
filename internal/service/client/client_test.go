package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/einkmax/einkctl/internal/api/agentapi"
	"github.com/einkmax/einkctl/internal/domain/panel"
)

// fakeAgent is a minimal agentapi.Service backing an httptest server.
type fakeAgent struct {
	// deadline is returned from Heartbeat.
	deadline time.Time
	// snapshot is returned from Snapshot.
	snapshot *agentapi.Snapshot
}

// Heartbeat returns the scripted deadline.
func (f *fakeAgent) Heartbeat(context.Context) time.Time {
	return f.deadline
}

// Snapshot returns the scripted snapshot.
func (f *fakeAgent) Snapshot(context.Context) (*agentapi.Snapshot, error) {
	return f.snapshot, nil
}

// newTestServer runs the real agent router around the fake service.
func newTestServer(t *testing.T, agent agentapi.Service) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(agentapi.NewRouter(agent))
	t.Cleanup(srv.Close)

	return srv
}

// TestNew_ValidatesAddress verifies that New rejects empty addresses and
// defaults the scheme for bare host:port values.
func TestNew_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := New("")
	require.Error(t, err)
	require.Nil(t, c)

	c, err = New("127.0.0.1:9723")
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9723", c.baseURL)
}

// TestHeartbeat_Roundtrip checks the deadline survives the HTTP roundtrip.
func TestHeartbeat_Roundtrip(t *testing.T) {
	t.Parallel()

	deadline := time.Now().Add(30 * time.Second).UTC().Truncate(time.Second)
	srv := newTestServer(t, &fakeAgent{deadline: deadline})

	c, err := New(srv.URL)
	require.NoError(t, err)

	got, err := c.Heartbeat(context.Background())
	require.NoError(t, err)
	require.True(t, deadline.Equal(got))
}

// TestStatus_Roundtrip checks the snapshot survives the HTTP roundtrip.
func TestStatus_Roundtrip(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAgent{
		snapshot: &agentapi.Snapshot{
			Displays: []panel.Display{
				{Name: "eDP-1", Primary: true},
			},
			HeartbeatCount:  7,
			WatchdogTimeout: 30 * time.Second,
		},
	})

	c, err := New(srv.URL)
	require.NoError(t, err)

	snapshot, err := c.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Displays, 1)
	require.Equal(t, uint64(7), snapshot.HeartbeatCount)
	require.Equal(t, 30*time.Second, snapshot.WatchdogTimeout)
}

// TestStatus_ServerError surfaces non-200 responses as errors.
func TestStatus_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Status(context.Background())
	require.Error(t, err)
}

// TestCallContext checks timeout vs cancel-only behavior.
func TestCallContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}
