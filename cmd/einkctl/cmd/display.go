package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// displaysCmd lists the connected outputs.
var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List connected displays.",
	Long: `Lists every connected output with its primary flag and geometry.
Outputs that are connected but switched off show no geometry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newDisplayService()
		if err != nil {
			return err
		}

		displays, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		for i := range displays {
			d := &displays[i]

			marker := " "
			if d.Primary {
				marker = "*"
			}

			if d.Geometry == nil {
				fmt.Fprintf(out, "%s %s\toff\n", marker, d.Name)
				continue
			}

			fmt.Fprintf(out, "%s %s\t%dx%d+%d+%d\n",
				marker, d.Name,
				d.Geometry.Width, d.Geometry.Height, d.Geometry.X, d.Geometry.Y)
		}

		return nil
	},
}

// displayCmd groups single-output operations.
var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Switch a single output.",
}

// displayPrimaryCmd makes an output the primary display.
var displayPrimaryCmd = &cobra.Command{
	Use:   "primary <name>",
	Short: "Set the primary display.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newDisplayService()
		if err != nil {
			return err
		}

		return svc.SetPrimary(cmd.Context(), args[0])
	},
}

// displayEnableCmd turns an output on with post-condition verification.
var displayEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable an output and verify it came up.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newDisplayService()
		if err != nil {
			return err
		}

		return svc.Enable(cmd.Context(), args[0])
	},
}

// displayDisableCmd turns an output off with post-condition verification.
var displayDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable an output and verify it went down.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newDisplayService()
		if err != nil {
			return err
		}

		return svc.Disable(cmd.Context(), args[0])
	},
}

// displayGeometryCmd prints an output's active geometry.
var displayGeometryCmd = &cobra.Command{
	Use:   "geometry <name>",
	Short: "Print an output's geometry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newDisplayService()
		if err != nil {
			return err
		}

		g, err := svc.Geometry(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%dx%d+%d+%d\n", g.Width, g.Height, g.X, g.Y)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	displayCmd.AddCommand(displayPrimaryCmd, displayEnableCmd, displayDisableCmd, displayGeometryCmd)
	rootCmd.AddCommand(displaysCmd, displayCmd)
}
