package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(o *options) *cobra.Command {
	var short, asYAML bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case short:
				fmt.Fprintln(out, o.build.Version)
			case asYAML:
				return encodeYAML(out, map[string]string{
					"version": o.build.Version,
					"commit":  o.build.Commit,
					"date":    o.build.Date,
				})
			default:
				fmt.Fprintf(out, "opset version %s (commit: %s, built: %s)\n", o.build.Version, o.build.Commit, o.build.Date)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print version number only")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print version info as YAML")
	return cmd
}
