package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/einkmax/einkctl/internal/domain/panel"
	"github.com/einkmax/einkctl/internal/logger"
	"github.com/einkmax/einkctl/internal/toolrunner"
)

var (
	// ErrDisplayNotFound is returned when the named output is not connected.
	ErrDisplayNotFound = errors.New("display not found")
	// ErrNoGeometry is returned when a connected output has no active mode
	// (typically because it is switched off).
	ErrNoGeometry = errors.New("display has no active geometry")
	// ErrStateNotApplied is returned when a requested state change did not
	// take effect after verification. Distinct from a tool failure: the
	// command succeeded but the hardware disagrees.
	ErrStateNotApplied = errors.New("display state change was not applied")
)

// Service enumerates and switches displays through the external query tool.
type Service struct {
	// runner invokes xrandr and the image viewers.
	runner toolrunner.Runner
	// viewers is the fullscreen viewer preference order for ShowImage.
	viewers []string
}

// NewService creates a display controller on top of the provided runner.
// The viewer list is the capability-probe order for ShowImage; an empty
// list disables image rendering.
func NewService(runner toolrunner.Runner, viewers []string) *Service {
	return &Service{
		runner:  runner,
		viewers: viewers,
	}
}

// List returns the connected displays with their primary flag and geometry.
func (s *Service) List(ctx context.Context) ([]panel.Display, error) {
	out, err := s.runner.Run(ctx, "xrandr", "--query")
	if err != nil {
		logger.ErrorKV(ctx, "Failed to query displays", "error", err)

		return nil, fmt.Errorf("query displays: %w", err)
	}

	return parseDisplays(out), nil
}

// Find returns the named connected display.
func (s *Service) Find(ctx context.Context, name string) (*panel.Display, error) {
	displays, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range displays {
		if displays[i].Name == name {
			return displays[i].Clone(), nil
		}
	}

	return nil, fmt.Errorf("%s: %w", name, ErrDisplayNotFound)
}

// Geometry resolves the active geometry of the named output.
func (s *Service) Geometry(ctx context.Context, name string) (*panel.Geometry, error) {
	d, err := s.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	if d.Geometry == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}

	return d.Geometry, nil
}

// SetPrimary makes the named output the primary display.
func (s *Service) SetPrimary(ctx context.Context, name string) error {
	if _, err := s.runner.Run(ctx, "xrandr", "--output", name, "--primary"); err != nil {
		logger.ErrorKV(ctx, "Failed to set primary display", "display", name, "error", err)

		return fmt.Errorf("set primary %s: %w", name, err)
	}

	logger.InfoKV(ctx, "Set primary display", "display", name)

	return nil
}

// Enable turns the named output on and verifies it picked up a mode.
func (s *Service) Enable(ctx context.Context, name string) error {
	if _, err := s.runner.Run(ctx, "xrandr", "--output", name, "--auto"); err != nil {
		logger.ErrorKV(ctx, "Failed to enable display", "display", name, "error", err)

		return fmt.Errorf("enable %s: %w", name, err)
	}

	// Post-condition: the output must now report an active geometry.
	d, err := s.Find(ctx, name)
	if err != nil {
		return err
	}

	if d.Geometry == nil {
		logger.WarnKV(ctx, "Display did not come up after enable", "display", name)

		return fmt.Errorf("enable %s: %w", name, ErrStateNotApplied)
	}

	logger.InfoKV(ctx, "Enabled display", "display", name)

	return nil
}

// Disable turns the named output off and verifies it released its mode.
func (s *Service) Disable(ctx context.Context, name string) error {
	if _, err := s.runner.Run(ctx, "xrandr", "--output", name, "--off"); err != nil {
		logger.ErrorKV(ctx, "Failed to disable display", "display", name, "error", err)

		return fmt.Errorf("disable %s: %w", name, err)
	}

	// Post-condition: no active geometry left on the output.
	d, err := s.Find(ctx, name)
	if err != nil {
		// Gone from the connected list entirely still counts as off.
		if errors.Is(err, ErrDisplayNotFound) {
			return nil
		}

		return err
	}

	if d.Geometry != nil {
		logger.WarnKV(ctx, "Display still active after disable", "display", name)

		return fmt.Errorf("disable %s: %w", name, ErrStateNotApplied)
	}

	logger.InfoKV(ctx, "Disabled display", "display", name)

	return nil
}

// DisableAll switches off every connected output except the named one.
// Used by the watchdog safety action to park the panels on a known-good
// single display. Failures are collected so one stubborn output does not
// leave the rest untouched.
func (s *Service) DisableAll(ctx context.Context, except string) error {
	displays, err := s.List(ctx)
	if err != nil {
		return err
	}

	var firstErr error

	for i := range displays {
		d := &displays[i]

		if d.Name == except || d.Geometry == nil {
			continue
		}

		if err := s.Disable(ctx, d.Name); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
