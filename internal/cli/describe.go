package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/born-ml/opset/internal/ir"
	"github.com/spf13/cobra"
)

func newDescribeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <op>",
		Short: "Show an operator's properties and backend attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := o.buildRegistry(cmd.Context())
			if err != nil {
				return err
			}
			d, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}
			version := o.cfg.TargetOpset
			if version == "" {
				version = d.Version()
			}
			return describeDescriptor(cmd, d, version)
		},
	}
	cmd.Flags().String("opset", "", "opset version to resolve backend attributes for (default: the operator's own)")
	return cmd
}

func describeDescriptor(cmd *cobra.Command, d *ir.Descriptor, version string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", d.Name())
	fmt.Fprintf(w, "Ports:\t%d in, %d out\n", d.InputPorts(), d.OutputPorts())
	fmt.Fprintf(w, "Version:\t%s\n", d.Version())

	fmt.Fprintln(w, "Properties:")
	props := d.DefaultProperties()
	for _, name := range props.Names() {
		fmt.Fprintf(w, "  %s\t%s\n", name, props[name])
	}

	fmt.Fprintf(w, "Backend attributes (%s):\n", version)
	attrs := ir.ResolveBackendAttributes(d, version)
	if len(attrs) == 0 {
		fmt.Fprintln(w, "  <none>")
	}
	for _, spec := range d.Schema(version) {
		fmt.Fprintf(w, "  %s\t%s\n", spec.Name, spec.Kind)
	}
	return w.Flush()
}
