package power

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/einkmax/einkctl/internal/logger"
)

// ErrUnsupportedOS indicates the current OS has no known shutdown command.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Shutdown powers the machine off using the OS built-in tool. It is the
// escalation step of the watchdog safety action: once the panels are
// parked, a hung session is safer off than running.
//
// The command is started asynchronously; the OS takes over the rest.
func Shutdown(ctx context.Context) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux", "darwin":
		cmd = exec.CommandContext(ctx, "shutdown", "-h", "now")
	case "windows":
		cmd = exec.CommandContext(ctx, "shutdown.exe", "-s", "-f", "-t", "0")
	default:
		return fmt.Errorf("%s: %w", runtime.GOOS, ErrUnsupportedOS)
	}

	logger.WarnKV(ctx, "Initiating OS shutdown", "command", cmd.String())

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start shutdown: %w", err)
	}

	return nil
}
