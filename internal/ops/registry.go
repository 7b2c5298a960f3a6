package ops

import (
	"fmt"

	"github.com/born-ml/opset/internal/ir"
)

// Opset version tags used by the built-in operators.
const (
	Opset1 = "opset1"
	Opset7 = "opset7"
	Opset8 = "opset8"
)

// All returns every built-in descriptor.
func All() []*ir.Descriptor {
	var all []*ir.Descriptor
	all = append(all, activations()...)
	all = append(all, mathOps()...)
	all = append(all, shapeOps()...)
	all = append(all, graphOps()...)
	return all
}

// Register adds all built-in operators to r.
func Register(r *ir.Registry) error {
	for _, d := range All() {
		if err := r.Register(d); err != nil {
			return fmt.Errorf("register built-in %s: %w", d.Name(), err)
		}
	}
	return nil
}

// NewRegistry creates a registry holding all built-in operators. The registry
// is left open so extensions can still be added before sealing it.
func NewRegistry() *ir.Registry {
	r := ir.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

// inferFuncs names the inference functions extension manifests may refer to.
var inferFuncs = map[string]ir.InferFunc{
	"copy":      ir.CopyShape,
	"first":     inferFirst,
	"broadcast": inferBroadcast,
	"transpose": inferTranspose,
}

// InferFuncByName returns a named inference function.
func InferFuncByName(name string) (ir.InferFunc, bool) {
	fn, ok := inferFuncs[name]
	return fn, ok
}

// InferFuncNames returns the names accepted by InferFuncByName.
func InferFuncNames() []string {
	return []string{"broadcast", "copy", "first", "transpose"}
}
