package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// opEntry is the listing form of a descriptor.
type opEntry struct {
	Name     string   `yaml:"name"`
	Inputs   int      `yaml:"inputs"`
	Outputs  int      `yaml:"outputs"`
	Version  string   `yaml:"version"`
	Versions []string `yaml:"backend_versions,omitempty"`
}

func newOpsCmd(o *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List registered operators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := o.buildRegistry(cmd.Context())
			if err != nil {
				return err
			}

			var entries []opEntry
			for _, name := range registry.Names() {
				d, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				entries = append(entries, opEntry{
					Name:     d.Name(),
					Inputs:   d.InputPorts(),
					Outputs:  d.OutputPorts(),
					Version:  d.Version(),
					Versions: d.Versions(),
				})
			}

			switch output {
			case "table":
				return printOpsTable(cmd, entries)
			case "yaml":
				return encodeYAML(cmd.OutOrStdout(), entries)
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or yaml")
	return cmd
}

func printOpsTable(cmd *cobra.Command, entries []opEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tPORTS\tVERSION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d->%d\t%s\n", e.Name, e.Inputs, e.Outputs, e.Version)
	}
	return w.Flush()
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
