package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/einkmax/einkctl/internal/config"
	"github.com/einkmax/einkctl/internal/logger"
	"github.com/einkmax/einkctl/internal/service/agent"
	"github.com/einkmax/einkctl/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel sets the logging verbosity.
	logLevel string

	// rootCmd represents the base command for running the agent daemon.
	rootCmd = &cobra.Command{
		Use:   "eink-agent [listen-address]",
		Short: "Supervise the dual-display hardware and guard it with a watchdog.",
		Long: `Background agent for dual-display (OLED + e-ink) laptops.

The agent serves a loopback control API and arms a watchdog against the
configured heartbeat deadline. A supervising process (the session helper,
a compositor hook, or einkctl itself) posts heartbeats while the e-ink
panel is in use. If heartbeats stop, the agent routes touch input away
from the e-ink surface, parks every output except the primary one and,
when configured, powers the machine off.

The listen address can be provided as argument to override the settings
file (e.g. 127.0.0.1:9724).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &agent.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			}

			return agent.Run(ctx, options)
		},
	}
)

// Execute runs the eink-agent CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
