package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/onnx"
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/serialization"
	"github.com/born-ml/opset/internal/tensor"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// inferResult is the outcome for one model.
type inferResult struct {
	path    string
	doc     *serialization.Document
	skipped []string
}

func newInferCmd(o *options) *cobra.Command {
	var (
		inputShapes []string
		outputDir   string
	)
	cmd := &cobra.Command{
		Use:   "infer <model.onnx>...",
		Short: "Infer shapes of ONNX models and print IR documents",
		Long: `Parse each ONNX model, build its graph from the registered operators, run
shape inference and print the resulting IR document as YAML. Models are
processed concurrently, each on its own graph.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shapes, err := parseInputShapes(inputShapes)
			if err != nil {
				return err
			}
			registry, err := o.buildRegistry(cmd.Context())
			if err != nil {
				return err
			}

			results := make([]inferResult, len(args))
			err = parallel.For(len(args), func(i int) error {
				res, err := o.inferModel(registry, args[i], shapes)
				if err != nil {
					return fmt.Errorf("%s: %w", args[i], err)
				}
				results[i] = res
				return nil
			}, parallel.WithWorkers(o.cfg.Workers))
			if err != nil {
				return err
			}

			if outputDir != "" {
				if err := writeDocuments(outputDir, results); err != nil {
					return err
				}
			} else if err := printDocuments(cmd.OutOrStdout(), results); err != nil {
				return err
			}

			o.printSummary(cmd.ErrOrStderr(), results)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&inputShapes, "input-shape", nil, "override an input shape, e.g. input_ids=1,128 (repeatable)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "write one <model>.yaml per model instead of printing")
	cmd.Flags().String("opset", "", "opset version whose backend attributes are written (default: each node's own)")
	cmd.Flags().Bool("strict", false, "fail on operators missing from the registry instead of skipping them")
	cmd.Flags().Int("workers", 0, "number of models processed concurrently (default: number of CPUs)")
	return cmd
}

func (o *options) inferModel(registry *ir.Registry, path string, shapes map[string]tensor.Shape) (inferResult, error) {
	res := inferResult{path: path}

	model, err := onnx.ParseFile(path)
	if err != nil {
		return res, err
	}

	opt := onnx.DefaultBuildOptions()
	opt.Strict = o.cfg.Strict
	opt.InputShapes = shapes
	g, err := onnx.BuildGraph(model, registry, opt)
	var skipped *onnx.SkippedNodeError
	switch {
	case errors.As(err, &skipped):
		res.skipped = skipped.Nodes
		klog.V(1).InfoS("built graph with skipped nodes", "model", path, "skipped", len(skipped.Nodes))
	case err != nil:
		return res, err
	}

	if err := ir.NewDispatcher(registry).InferShapes(g); err != nil {
		return res, err
	}

	res.doc, err = serialization.Encode(g, serialization.WriteOptions{
		TargetVersion: o.cfg.TargetOpset,
		RequireShapes: true,
		Producer:      "opset " + o.build.Version,
	})
	return res, err
}

// parseInputShapes parses name=dims flags.
func parseInputShapes(flags []string) (map[string]tensor.Shape, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	shapes := make(map[string]tensor.Shape, len(flags))
	for _, f := range flags {
		name, dims, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --input-shape %q: want name=d0,d1,...", f)
		}
		shape, err := tensor.ParseShape(dims)
		if err != nil {
			return nil, fmt.Errorf("invalid --input-shape %q: %w", f, err)
		}
		shapes[name] = shape
	}
	return shapes, nil
}

func printDocuments(w io.Writer, results []inferResult) error {
	for i, res := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		if err := serialization.WriteDocument(w, res.doc); err != nil {
			return fmt.Errorf("%s: %w", res.path, err)
		}
	}
	return nil
}

func writeDocuments(dir string, results []inferResult) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, res := range results {
		name := strings.TrimSuffix(filepath.Base(res.path), filepath.Ext(res.path)) + ".yaml"
		if err := writeDocumentFile(filepath.Join(dir, name), res.doc); err != nil {
			return fmt.Errorf("%s: %w", res.path, err)
		}
	}
	return nil
}

func writeDocumentFile(path string, doc *serialization.Document) (err error) {
	//nolint:gosec // G304: output path is chosen by the user
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return serialization.WriteDocument(f, doc)
}

func (o *options) printSummary(w io.Writer, results []inferResult) {
	layers := 0
	for _, res := range results {
		layers += len(res.doc.Layers)
		if len(res.skipped) > 0 {
			o.printer.Fprintf(w, "%s: skipped %d unsupported nodes: %s\n",
				res.path, len(res.skipped), strings.Join(res.skipped, ", "))
		}
	}
	o.printer.Fprintf(w, "Inferred %d layers across %d models\n", layers, len(results))
}
