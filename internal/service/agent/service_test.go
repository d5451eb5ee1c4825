package agent

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/einkmax/einkctl/internal/config"
	"github.com/einkmax/einkctl/internal/domain/panel"
	"github.com/einkmax/einkctl/internal/service/display"
)

// fakeDisplays records safety-action calls and serves a canned display list.
type fakeDisplays struct {
	mu           sync.Mutex
	displays     []panel.Display
	disabledWith string
	disableCalls int
}

// List returns the canned display list.
func (f *fakeDisplays) List(context.Context) ([]panel.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.displays, nil
}

// DisableAll records the survivor output.
func (f *fakeDisplays) DisableAll(_ context.Context, except string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.disabledWith = except
	f.disableCalls++

	return nil
}

// FindViewers reports no running viewers.
func (f *fakeDisplays) FindViewers() ([]display.ViewerProcess, error) {
	return nil, nil
}

// fakeInputs records per-panel switches and serves a canned device list.
type fakeInputs struct {
	mu       sync.Mutex
	devices  *panel.TouchDevices
	switched map[panel.Panel]bool
}

// List returns the canned device grouping.
func (f *fakeInputs) List(context.Context) (*panel.TouchDevices, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.devices == nil {
		return new(panel.TouchDevices), nil
	}

	return f.devices, nil
}

// SetPanelEnabled records the requested panel state.
func (f *fakeInputs) SetPanelEnabled(_ context.Context, p panel.Panel, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.switched == nil {
		f.switched = make(map[panel.Panel]bool)
	}

	f.switched[p] = enabled

	return nil
}

// testConfig returns agent settings with a short watchdog deadline.
func testConfig(timeout time.Duration) *config.Config {
	cfg := config.Default()
	cfg.WatchdogTimeout = timeout

	return cfg
}

// TestHeartbeat_AdvancesDeadline verifies counters and the returned deadline.
func TestHeartbeat_AdvancesDeadline(t *testing.T) {
	t.Parallel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	svc, err := newService(ctx, testConfig(time.Hour), new(fakeDisplays), new(fakeInputs), stop)
	require.NoError(t, err)

	defer svc.Close()

	before := time.Now()
	deadline := svc.Heartbeat(ctx)

	require.WithinDuration(t, before.Add(time.Hour), deadline, time.Second)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), snapshot.HeartbeatCount)
	require.False(t, snapshot.LastHeartbeat.IsZero())
	require.Equal(t, snapshot.LastHeartbeat.Add(time.Hour), snapshot.NextDeadline)
}

// TestSnapshot_ReportsHardware composes displays and touch devices.
func TestSnapshot_ReportsHardware(t *testing.T) {
	t.Parallel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	displays := &fakeDisplays{
		displays: []panel.Display{
			{Name: "eDP-1", Primary: true},
			{Name: "DP-2"},
		},
	}
	inputs := &fakeInputs{
		devices: &panel.TouchDevices{
			Secondary: []panel.TouchDevice{
				{Name: "Goodix Capacitive TouchScreen", ID: "14", Panel: panel.Secondary},
			},
		},
	}

	svc, err := newService(ctx, testConfig(time.Hour), displays, inputs, stop)
	require.NoError(t, err)

	defer svc.Close()

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Displays, 2)
	require.Len(t, snapshot.Touch.Secondary, 1)
	require.Zero(t, snapshot.HeartbeatCount)
	require.True(t, snapshot.NextDeadline.IsZero())
}

// TestExpiry_RunsSafetyAction lets the watchdog fire and checks the full
// sequence: secondary touch off, displays parked on the primary, agent stopped.
func TestExpiry_RunsSafetyAction(t *testing.T) {
	t.Parallel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	displays := &fakeDisplays{
		displays: []panel.Display{
			{Name: "eDP-1", Primary: true},
			{Name: "DP-2"},
		},
	}
	inputs := new(fakeInputs)

	svc, err := newService(ctx, testConfig(60*time.Millisecond), displays, inputs, stop)
	require.NoError(t, err)

	defer svc.Close()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("safety action never stopped the agent")
	}

	inputs.mu.Lock()
	enabled, ok := inputs.switched[panel.Secondary]
	inputs.mu.Unlock()

	require.True(t, ok)
	require.False(t, enabled)

	displays.mu.Lock()
	defer displays.mu.Unlock()

	require.Equal(t, 1, displays.disableCalls)
	require.Equal(t, "eDP-1", displays.disabledWith)
}

// TestExpiry_HonorsPinnedPrimary prefers the configured output over detection.
func TestExpiry_HonorsPinnedPrimary(t *testing.T) {
	t.Parallel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg := testConfig(60 * time.Millisecond)
	cfg.PrimaryOutput = "DP-2"

	displays := &fakeDisplays{
		displays: []panel.Display{
			{Name: "eDP-1", Primary: true},
			{Name: "DP-2"},
		},
	}

	svc, err := newService(ctx, cfg, displays, new(fakeInputs), stop)
	require.NoError(t, err)

	defer svc.Close()

	<-ctx.Done()

	displays.mu.Lock()
	defer displays.mu.Unlock()

	require.Equal(t, "DP-2", displays.disabledWith)
}

// TestHeartbeats_SuppressExpiry keeps the agent alive while heartbeats flow.
func TestHeartbeats_SuppressExpiry(t *testing.T) {
	t.Parallel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	displays := new(fakeDisplays)

	svc, err := newService(ctx, testConfig(100*time.Millisecond), displays, new(fakeInputs), stop)
	require.NoError(t, err)

	defer svc.Close()

	for i := 0; i < 10; i++ {
		time.Sleep(30 * time.Millisecond)
		svc.Heartbeat(ctx)
	}

	require.NoError(t, ctx.Err())

	displays.mu.Lock()
	defer displays.mu.Unlock()

	require.Zero(t, displays.disableCalls)
}
