package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/einkmax/einkctl/internal/service/client"
)

// agentAddress overrides the agent control API address.
var agentAddress string

// agentCmd groups commands that talk to a running eink-agent daemon.
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Talk to the running eink-agent daemon.",
}

// newAgentClient builds the HTTP client for the agent API.
func newAgentClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	address := cfg.ListenAddress
	if agentAddress != "" {
		address = agentAddress
	}

	return client.New(address, client.WithCallTimeout(cfg.ToolTimeout))
}

// agentHeartbeatCmd posts a single heartbeat to the daemon.
var agentHeartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Send a heartbeat and print the next safety deadline.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newAgentClient()
		if err != nil {
			return err
		}

		deadline, err := c.Heartbeat(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "next deadline: %s\n", deadline.Format(time.RFC3339))

		return nil
	},
}

// agentStatusCmd prints the daemon's hardware and liveness snapshot.
var agentStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the agent's hardware and liveness snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newAgentClient()
		if err != nil {
			return err
		}

		snapshot, err := c.Status(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "heartbeats: %d\n", snapshot.HeartbeatCount)

		if snapshot.LastHeartbeat.IsZero() {
			fmt.Fprintln(out, "last heartbeat: never")
		} else {
			fmt.Fprintf(out, "last heartbeat: %s\n", snapshot.LastHeartbeat.Format(time.RFC3339))
			fmt.Fprintf(out, "next deadline: %s\n", snapshot.NextDeadline.Format(time.RFC3339))
		}

		fmt.Fprintf(out, "watchdog timeout: %s\n", snapshot.WatchdogTimeout)

		fmt.Fprintln(out, "displays:")
		for i := range snapshot.Displays {
			d := &snapshot.Displays[i]

			state := "off"
			if d.Geometry != nil {
				state = fmt.Sprintf("%dx%d+%d+%d",
					d.Geometry.Width, d.Geometry.Height, d.Geometry.X, d.Geometry.Y)
			}

			fmt.Fprintf(out, "  %s\t%s\n", d.Name, state)
		}

		if snapshot.Touch != nil {
			fmt.Fprintf(out, "touch devices: %d primary, %d secondary\n",
				len(snapshot.Touch.Primary), len(snapshot.Touch.Secondary))
		}

		for _, v := range snapshot.Viewers {
			fmt.Fprintf(out, "viewer: %s pid=%d\n", v.Executable, v.PID)
		}

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	agentCmd.PersistentFlags().
		StringVarP(&agentAddress, "address", "a", "", "agent control API address (host:port)")
	agentCmd.AddCommand(agentHeartbeatCmd, agentStatusCmd)
	rootCmd.AddCommand(agentCmd)
}
