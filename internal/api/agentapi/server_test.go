package agentapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/einkmax/einkctl/internal/domain/panel"
)

var errSnapshotFailed = errors.New("xrandr is stuck")

// fakeService is a minimal Service implementation for handler tests.
type fakeService struct {
	// deadline is returned from Heartbeat.
	deadline time.Time
	// heartbeats counts Heartbeat calls.
	heartbeats int
	// snapshot is returned from Snapshot.
	snapshot *Snapshot
	// snapshotErr is the error to return from Snapshot.
	snapshotErr error
}

// Heartbeat counts the call and returns the scripted deadline.
func (f *fakeService) Heartbeat(context.Context) time.Time {
	f.heartbeats++

	return f.deadline
}

// Snapshot returns the scripted snapshot or error.
func (f *fakeService) Snapshot(context.Context) (*Snapshot, error) {
	return f.snapshot, f.snapshotErr
}

// TestHeartbeatEndpoint verifies the reset reaches the service and the next
// deadline comes back.
func TestHeartbeatEndpoint(t *testing.T) {
	t.Parallel()

	deadline := time.Now().Add(30 * time.Second).UTC().Truncate(time.Second)
	svc := &fakeService{deadline: deadline}
	router := NewRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/heartbeat", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, svc.heartbeats)

	var body heartbeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, deadline.Equal(body.NextDeadline))
}

// TestStatusEndpoint verifies the snapshot is serialized through.
func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		snapshot: &Snapshot{
			Displays: []panel.Display{
				{Name: "eDP-1", Primary: true},
				{Name: "DP-2"},
			},
			Touch: &panel.TouchDevices{
				Secondary: []panel.TouchDevice{
					{Name: "Goodix Capacitive TouchScreen", ID: "14", Panel: panel.Secondary},
				},
			},
			HeartbeatCount:  3,
			WatchdogTimeout: 30 * time.Second,
		},
	}
	router := NewRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Displays, 2)
	require.Equal(t, "eDP-1", body.Displays[0].Name)
	require.Equal(t, uint64(3), body.HeartbeatCount)
	require.Equal(t, "14", body.Touch.Secondary[0].ID)
}

// TestStatusEndpoint_Failure maps a snapshot failure to 502 with an error body.
func TestStatusEndpoint_Failure(t *testing.T) {
	t.Parallel()

	svc := &fakeService{snapshotErr: errSnapshotFailed}
	router := NewRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "xrandr is stuck")
}

// TestHealthz answers liveness probes.
func TestHealthz(t *testing.T) {
	t.Parallel()

	router := NewRouter(new(fakeService))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
