package agent

import (
	"context"
	"sync"
	"time"

	"github.com/einkmax/einkctl/internal/api/agentapi"
	"github.com/einkmax/einkctl/internal/config"
	"github.com/einkmax/einkctl/internal/domain/panel"
	"github.com/einkmax/einkctl/internal/logger"
	"github.com/einkmax/einkctl/internal/service/display"
	"github.com/einkmax/einkctl/internal/service/power"
	"github.com/einkmax/einkctl/internal/watchdog"
)

// DisplayController is the slice of the display service the agent needs.
type DisplayController interface {
	List(ctx context.Context) ([]panel.Display, error)
	DisableAll(ctx context.Context, except string) error
	FindViewers() ([]display.ViewerProcess, error)
}

// InputRouter is the slice of the input service the agent needs.
type InputRouter interface {
	List(ctx context.Context) (*panel.TouchDevices, error)
	SetPanelEnabled(ctx context.Context, p panel.Panel, enabled bool) error
}

// Service is the daemon core: it owns the watchdog and answers the control
// API. Heartbeats re-arm the watchdog; when it expires, the safety action
// parks the panels and stops the agent.
type Service struct {
	// cfg holds the agent settings.
	cfg *config.Config
	// displays controls the outputs.
	displays DisplayController
	// inputs routes the touch devices.
	inputs InputRouter
	// wd is the liveness deadline guarding the session.
	wd *watchdog.Watchdog
	// stop terminates the agent after the safety action has run.
	stop context.CancelFunc

	// mu guards the liveness counters below.
	mu sync.Mutex
	// lastHeartbeat is when the watchdog was last reset.
	lastHeartbeat time.Time
	// heartbeats counts resets since start.
	heartbeats uint64
}

// newService wires the agent core and arms the watchdog. The provided
// context outlives requests: the expiry safety action logs and acts
// through it.
func newService(
	ctx context.Context,
	cfg *config.Config,
	displays DisplayController,
	inputs InputRouter,
	stop context.CancelFunc,
) (*Service, error) {
	s := &Service{
		cfg:      cfg,
		displays: displays,
		inputs:   inputs,
		stop:     stop,
	}

	wd, err := watchdog.New(cfg.WatchdogTimeout, func() {
		s.expired(ctx)
	}, logger.FromContext(ctx))
	if err != nil {
		return nil, err
	}

	s.wd = wd

	return s, nil
}

// Close disarms the watchdog.
func (s *Service) Close() {
	s.wd.Cancel()
}

// Heartbeat re-arms the watchdog and returns the next safety deadline.
func (s *Service) Heartbeat(ctx context.Context) time.Time {
	s.wd.Reset()

	now := time.Now()

	s.mu.Lock()
	s.lastHeartbeat = now
	s.heartbeats++
	count := s.heartbeats
	s.mu.Unlock()

	logger.DebugKV(ctx, "Heartbeat received", "count", count)

	return now.Add(s.cfg.WatchdogTimeout)
}

// Snapshot reports the hardware state together with the liveness counters.
// A failing touch enumeration degrades the snapshot instead of failing it;
// a failing display query fails it, since displays are the reason the agent
// exists.
func (s *Service) Snapshot(ctx context.Context) (*agentapi.Snapshot, error) {
	displays, err := s.displays.List(ctx)
	if err != nil {
		return nil, err
	}

	touch, err := s.inputs.List(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Touch enumeration failed, omitting from snapshot", "error", err)

		touch = new(panel.TouchDevices)
	}

	viewers, err := s.displays.FindViewers()
	if err != nil {
		logger.WarnKV(ctx, "Viewer scan failed, omitting from snapshot", "error", err)
	}

	s.mu.Lock()
	last := s.lastHeartbeat
	count := s.heartbeats
	s.mu.Unlock()

	snapshot := &agentapi.Snapshot{
		Displays:        displays,
		Touch:           touch,
		Viewers:         viewers,
		LastHeartbeat:   last,
		HeartbeatCount:  count,
		WatchdogTimeout: s.cfg.WatchdogTimeout,
	}

	if !last.IsZero() {
		snapshot.NextDeadline = last.Add(s.cfg.WatchdogTimeout)
	}

	return snapshot, nil
}

// expired is the watchdog safety action: route touch away from the e-ink
// surface, park every output except the primary, optionally power off, and
// stop the agent. Each step is best-effort so one stuck tool cannot block
// the rest of the sequence.
func (s *Service) expired(ctx context.Context) {
	logger.WarnKV(ctx, "Heartbeats stopped, running safety action",
		"timeout", s.cfg.WatchdogTimeout.String())

	if err := s.inputs.SetPanelEnabled(ctx, panel.Secondary, false); err != nil {
		logger.ErrorKV(ctx, "Failed to disable secondary panel touch", "error", err)
	}

	if err := s.displays.DisableAll(ctx, s.primaryOutput(ctx)); err != nil {
		logger.ErrorKV(ctx, "Failed to park displays", "error", err)
	}

	if s.cfg.ShutdownOnExpiry {
		if err := power.Shutdown(ctx); err != nil {
			logger.ErrorKV(ctx, "Failed to initiate shutdown", "error", err)
		}
	}

	s.stop()
}

// primaryOutput resolves the output that must survive the safety action:
// the configured pin when set, otherwise whatever the display tool reports
// as primary.
func (s *Service) primaryOutput(ctx context.Context) string {
	if s.cfg.PrimaryOutput != "" {
		return s.cfg.PrimaryOutput
	}

	displays, err := s.displays.List(ctx)
	if err != nil {
		return ""
	}

	for i := range displays {
		if displays[i].Primary {
			return displays[i].Name
		}
	}

	return ""
}
