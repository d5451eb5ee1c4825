package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the agent and the einkctl CLI.
type Config struct {
	// ListenAddress is the loopback address for the agent control API.
	ListenAddress string `yaml:"listen_addr"`
	// ToolTimeout bounds every external tool invocation (xrandr, xinput, viewers).
	ToolTimeout time.Duration `yaml:"tool_timeout"`
	// WatchdogTimeout is the heartbeat deadline; the safety action fires
	// when no heartbeat arrives within this interval.
	WatchdogTimeout time.Duration `yaml:"watchdog_timeout"`
	// PrimaryOutput optionally pins the main (OLED) output name.
	// When empty, the output xrandr reports as primary is used.
	PrimaryOutput string `yaml:"primary_output"`
	// SecondaryOutput optionally pins the e-ink output name.
	SecondaryOutput string `yaml:"secondary_output"`
	// Viewers is the fullscreen image viewer preference order.
	// The first installed viewer wins the capability probe.
	Viewers []string `yaml:"viewers"`
	// ShutdownOnExpiry escalates the watchdog safety action to an OS
	// power-off after the displays have been parked.
	ShutdownOnExpiry bool `yaml:"shutdown_on_expiry"`
}

const (
	// DefaultConfigFilename is the default filename for agent settings.
	DefaultConfigFilename = "einkctl-settings.yaml"

	// DefaultListenAddress is the loopback address the agent binds by default.
	DefaultListenAddress = "127.0.0.1:9723"

	// DefaultToolTimeout is the default bound for external tool calls.
	DefaultToolTimeout = 5 * time.Second

	// DefaultWatchdogTimeout is the default heartbeat deadline for the agent.
	DefaultWatchdogTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// DefaultViewers returns the fullscreen viewer probe order used when none is
// configured. feh positions cleanly on a single output; eog is the common fallback.
func DefaultViewers() []string {
	return []string{"feh", "eog"}
}

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns a configuration with every field at its default.
// The einkctl CLI uses it when no settings file is present.
func Default() *Config {
	return &Config{
		ListenAddress:   DefaultListenAddress,
		ToolTimeout:     DefaultToolTimeout,
		WatchdogTimeout: DefaultWatchdogTimeout,
		Viewers:         DefaultViewers(),
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for omitted ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = DefaultToolTimeout
	}

	if cfg.WatchdogTimeout <= 0 {
		cfg.WatchdogTimeout = DefaultWatchdogTimeout
	}

	if len(cfg.Viewers) == 0 {
		cfg.Viewers = DefaultViewers()
	}

	return nil
}
