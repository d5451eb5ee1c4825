package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// showCmd renders an image fullscreen on a named output.
var showCmd = &cobra.Command{
	Use:   "show <name> <image>",
	Short: "Show an image fullscreen on an output.",
	Long: `Renders a static image fullscreen on the named output through the
first installed viewer from the configured preference order. The command
prints the viewer PID and returns; the viewer keeps running until killed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newDisplayService()
		if err != nil {
			return err
		}

		viewer, err := svc.ShowImage(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s running with pid %d\n", viewer.Tool, viewer.PID())

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(showCmd)
}
