package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/einkmax/einkctl/internal/api/agentapi"
	"github.com/einkmax/einkctl/internal/config"
	"github.com/einkmax/einkctl/internal/logger"
	"github.com/einkmax/einkctl/internal/service/display"
	"github.com/einkmax/einkctl/internal/service/input"
	"github.com/einkmax/einkctl/internal/toolrunner"
)

// Options controls the eink-agent process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the
	// control API.
	ListenAddress string
}

// shutdownGrace bounds the HTTP server drain on the way out.
const shutdownGrace = 5 * time.Second

// Run starts the agent and blocks until the context is canceled or the
// watchdog safety action stops it.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "eink-agent")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	// The safety action cancels this context once the panels are parked.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	runner := toolrunner.NewExecRunner(cfg.ToolTimeout)

	svc, err := newService(ctx, cfg,
		display.NewService(runner, cfg.Viewers),
		input.NewService(runner),
		stop,
	)
	if err != nil {
		return fmt.Errorf("initialise agent: %w", err)
	}

	defer svc.Close()

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	server := &http.Server{
		Handler:           agentapi.NewRouter(svc),
		ReadHeaderTimeout: shutdownGrace,
	}

	logger.InfoKV(ctx, "Agent listening",
		"listen_address", listenAddress,
		"watchdog_timeout", cfg.WatchdogTimeout.String())

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down control API")

		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		_ = server.Shutdown(drainCtx)
		close(done)
	}()

	if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve control API: %w", err)
	}

	<-done
	logger.Info(ctx, "Agent stopped")

	return nil
}
