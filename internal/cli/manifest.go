package cli

import (
	"fmt"

	"github.com/born-ml/opset/internal/manifest"
	"github.com/born-ml/opset/internal/ops"
	"github.com/spf13/cobra"
)

func newManifestCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Work with operator extension manifests",
	}
	cmd.AddCommand(newManifestValidateCmd(o))
	return cmd
}

func newManifestValidateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate extension manifests against the schema and the built-in registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				result, err := manifest.ValidateFile(path)
				if err != nil {
					return err
				}
				if !result.Valid {
					failed++
					o.printer.Fprintf(out, "%s: %d issues\n", path, len(result.Issues))
					for _, issue := range result.Issues {
						fmt.Fprintf(out, "  %s\n", issue)
					}
					continue
				}

				// Schema-valid manifests must also register cleanly.
				m, err := manifest.Load(path)
				if err != nil {
					return err
				}
				if err := m.CheckRequires(o.build.Version); err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", path, err)
					continue
				}
				if err := m.Apply(ops.NewRegistry()); err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", path, err)
					continue
				}
				o.printer.Fprintf(out, "%s: ok (%d operators)\n", path, len(m.Operators))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d manifests are invalid", failed, len(args))
			}
			return nil
		},
	}
}
