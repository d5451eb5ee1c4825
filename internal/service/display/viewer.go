package display

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	ps "github.com/mitchellh/go-ps"

	"github.com/einkmax/einkctl/internal/domain/panel"
	"github.com/einkmax/einkctl/internal/logger"
)

var (
	// ErrNoViewer is returned when no configured image viewer is installed.
	ErrNoViewer = errors.New("no fullscreen image viewer is installed")
	// ErrViewerDied is returned when the launched viewer is already gone at
	// verification time.
	ErrViewerDied = errors.New("image viewer exited immediately")
)

// Viewer is a handle to a running fullscreen image viewer process.
type Viewer struct {
	// Tool is the viewer binary that won the capability probe.
	Tool string
	// cmd is the running child process.
	cmd *exec.Cmd
}

// PID returns the viewer's process id.
func (v *Viewer) PID() int {
	return v.cmd.Process.Pid
}

// Alive reports whether the viewer process still exists.
func (v *Viewer) Alive() bool {
	proc, err := ps.FindProcess(v.cmd.Process.Pid)

	return err == nil && proc != nil
}

// Stop terminates the viewer and reaps it.
func (v *Viewer) Stop() error {
	if err := v.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill viewer: %w", err)
	}

	// Wait always errors after a kill; the child is reaped regardless.
	_ = v.cmd.Wait()

	return nil
}

// ViewerProcess describes an already-running viewer found on the system.
type ViewerProcess struct {
	// PID is the process id.
	PID int `json:"pid"`
	// Executable is the viewer binary name.
	Executable string `json:"executable"`
}

// ShowImage renders the image fullscreen on the named output. The viewer is
// chosen by capability probe over the configured preference order, launched
// positioned on the output's geometry where the viewer supports it, and the
// outcome is verified against the process table before the handle is returned.
func (s *Service) ShowImage(ctx context.Context, name, path string) (*Viewer, error) {
	tool, err := s.probeViewer()
	if err != nil {
		return nil, err
	}

	geometry, err := s.Geometry(ctx, name)
	if err != nil {
		return nil, err
	}

	cmd, err := s.runner.Start(ctx, tool, viewerArgs(tool, geometry, path)...)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to launch viewer", "viewer", tool, "error", err)

		return nil, fmt.Errorf("launch %s: %w", tool, err)
	}

	viewer := &Viewer{
		Tool: tool,
		cmd:  cmd,
	}

	// Verify the outcome: a viewer that bailed on startup (bad image path,
	// no X connection) is gone from the process table by now.
	if !viewer.Alive() {
		_ = cmd.Wait()

		return nil, fmt.Errorf("%s: %w", tool, ErrViewerDied)
	}

	logger.InfoKV(ctx, "Showing image", "display", name, "viewer", tool, "pid", viewer.PID(), "image", path)

	return viewer, nil
}

// FindViewers scans the process table for already-running instances of the
// configured viewers.
func (s *Service) FindViewers() ([]ViewerProcess, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	known := make(map[string]struct{}, len(s.viewers))
	for _, v := range s.viewers {
		known[v] = struct{}{}
	}

	var found []ViewerProcess

	for _, proc := range processes {
		if _, ok := known[proc.Executable()]; !ok {
			continue
		}

		found = append(found, ViewerProcess{
			PID:        proc.Pid(),
			Executable: proc.Executable(),
		})
	}

	return found, nil
}

// probeViewer returns the first installed viewer from the preference order.
func (s *Service) probeViewer() (string, error) {
	for _, tool := range s.viewers {
		if _, err := s.runner.LookPath(tool); err == nil {
			return tool, nil
		}
	}

	return "", ErrNoViewer
}

// viewerArgs builds the launch arguments for the chosen viewer. feh can be
// pinned to the target output's geometry; eog only offers fullscreen on the
// current display.
func viewerArgs(tool string, g *panel.Geometry, path string) []string {
	if tool == "feh" {
		return []string{
			"--borderless",
			"--image-bg", "black",
			"--geometry", fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y),
			path,
		}
	}

	return []string{"-f", path}
}
