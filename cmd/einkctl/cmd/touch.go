package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/einkmax/einkctl/internal/domain/panel"
)

// touchCmd groups touch input routing operations.
var touchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Route touch and stylus input.",
}

// touchListCmd lists touch devices grouped by panel.
var touchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List touch devices grouped by panel.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newInputService()
		if err != nil {
			return err
		}

		devices, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "primary panel:")
		for _, d := range devices.Primary {
			fmt.Fprintf(out, "  %s\tid=%s\n", d.Name, d.ID)
		}

		fmt.Fprintln(out, "secondary panel:")
		for _, d := range devices.Secondary {
			fmt.Fprintf(out, "  %s\tid=%s\n", d.Name, d.ID)
		}

		return nil
	},
}

// touchEnableCmd enables a single device by id.
var touchEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a touch device.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newInputService()
		if err != nil {
			return err
		}

		return svc.SetEnabled(cmd.Context(), args[0], true)
	},
}

// touchDisableCmd disables a single device by id.
var touchDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a touch device.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newInputService()
		if err != nil {
			return err
		}

		return svc.SetEnabled(cmd.Context(), args[0], false)
	},
}

// touchPanelCmd flips every device routed to a panel.
var touchPanelCmd = &cobra.Command{
	Use:   "panel <primary|secondary> <on|off>",
	Short: "Enable or disable a whole panel's touch devices.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var target panel.Panel

		switch args[0] {
		case "primary":
			target = panel.Primary
		case "secondary":
			target = panel.Secondary
		default:
			return fmt.Errorf("unknown panel %q, want primary or secondary", args[0])
		}

		var enabled bool

		switch args[1] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return fmt.Errorf("unknown state %q, want on or off", args[1])
		}

		svc, err := newInputService()
		if err != nil {
			return err
		}

		return svc.SetPanelEnabled(cmd.Context(), target, enabled)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	touchCmd.AddCommand(touchListCmd, touchEnableCmd, touchDisableCmd, touchPanelCmd)
	rootCmd.AddCommand(touchCmd)
}
