package input

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/einkmax/einkctl/internal/domain/panel"
	"github.com/einkmax/einkctl/internal/logger"
	"github.com/einkmax/einkctl/internal/toolrunner"
)

var (
	// ErrDeviceNotFound is returned when the device id is not listed.
	ErrDeviceNotFound = errors.New("touch device not found")
	// ErrStateNotApplied is returned when an enable/disable did not take
	// effect after verification.
	ErrStateNotApplied = errors.New("touch state change was not applied")
)

// Service routes touch input: it enumerates touch-capable devices, assigns
// each to a panel by the default name heuristic, and flips them per device
// or per panel.
type Service struct {
	// runner invokes the external input query tool (xinput).
	runner toolrunner.Runner
}

// NewService creates an input router on top of the provided runner.
func NewService(runner toolrunner.Runner) *Service {
	return &Service{
		runner: runner,
	}
}

// List returns the touch-capable devices grouped by panel.
func (s *Service) List(ctx context.Context) (*panel.TouchDevices, error) {
	out, err := s.runner.Run(ctx, "xinput", "list")
	if err != nil {
		logger.ErrorKV(ctx, "Failed to query input devices", "error", err)

		return nil, fmt.Errorf("query input devices: %w", err)
	}

	devices := parseTouchDevices(out)

	logger.DebugKV(ctx, "Enumerated touch devices",
		"primary", len(devices.Primary), "secondary", len(devices.Secondary))

	return devices, nil
}

// SetEnabled flips a single device and verifies the new state stuck.
func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}

	if _, err := s.runner.Run(ctx, "xinput", action, id); err != nil {
		logger.ErrorKV(ctx, "Failed to set touch state", "device_id", id, "enabled", enabled, "error", err)

		return fmt.Errorf("%s device %s: %w", action, id, err)
	}

	// Post-condition: the device property must report the requested state.
	actual, err := s.isEnabled(ctx, id)
	if err != nil {
		return err
	}

	if actual != enabled {
		logger.WarnKV(ctx, "Touch state did not stick", "device_id", id, "wanted", enabled)

		return fmt.Errorf("device %s: %w", id, ErrStateNotApplied)
	}

	logger.InfoKV(ctx, "Touch state updated", "device_id", id, "enabled", enabled)

	return nil
}

// SetPanelEnabled flips every device routed to the panel. Failures are
// collected so one stuck device does not leave the rest of the panel
// half-switched.
func (s *Service) SetPanelEnabled(ctx context.Context, p panel.Panel, enabled bool) error {
	devices, err := s.List(ctx)
	if err != nil {
		return err
	}

	var firstErr error

	for _, device := range devices.ByPanel(p) {
		if err := s.SetEnabled(ctx, device.ID, enabled); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// isEnabled reads the "Device Enabled" property from the query tool.
func (s *Service) isEnabled(ctx context.Context, id string) (bool, error) {
	out, err := s.runner.Run(ctx, "xinput", "list-props", id)
	if err != nil {
		return false, fmt.Errorf("read device %s props: %w", id, err)
	}

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Device Enabled") {
			continue
		}

		// Format: "\tDevice Enabled (186):\t1".
		value := strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])

		return value == "1", nil
	}

	return false, fmt.Errorf("device %s: %w", id, ErrDeviceNotFound)
}
