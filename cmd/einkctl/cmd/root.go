package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/einkmax/einkctl/internal/config"
	"github.com/einkmax/einkctl/internal/logger"
	"github.com/einkmax/einkctl/internal/service/display"
	"github.com/einkmax/einkctl/internal/service/input"
	"github.com/einkmax/einkctl/internal/toolrunner"
	"github.com/einkmax/einkctl/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel sets the logging verbosity.
	logLevel string

	// rootCmd represents the base einkctl command.
	rootCmd = &cobra.Command{
		Use:   "einkctl",
		Short: "Control the dual-display (OLED + e-ink) hardware.",
		Long: `Operator CLI for dual-display laptops.

Display and touch subcommands act on the hardware directly through the
external display and input tools. The agent subcommands talk to a running
eink-agent daemon over its loopback API.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
	}
)

// Execute runs the einkctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the settings file, falling back to defaults when the
// operator has not written one. Local subcommands only need the tool
// timeout and viewer list from it.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}

	return config.Load(configPath)
}

// newDisplayService builds a display controller from the settings.
func newDisplayService() (*display.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return display.NewService(toolrunner.NewExecRunner(cfg.ToolTimeout), cfg.Viewers), nil
}

// newInputService builds an input router from the settings.
func newInputService() (*input.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return input.NewService(toolrunner.NewExecRunner(cfg.ToolTimeout)), nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup persistent flags shared by all subcommands.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
