package ir

import (
	"fmt"

	"github.com/born-ml/opset/internal/tensor"
)

// InferFunc computes output shapes from input shapes. It must be pure.
type InferFunc func(attrs Attributes, inputs []tensor.Shape) ([]tensor.Shape, error)

// CopyShape is the inference of element-wise unary operators: every output
// shape equals the input shape at the same position.
func CopyShape(_ Attributes, inputs []tensor.Shape) ([]tensor.Shape, error) {
	outputs := make([]tensor.Shape, len(inputs))
	for i, s := range inputs {
		outputs[i] = s.Clone()
	}
	return outputs, nil
}

// Dispatcher runs descriptor inference functions for nodes.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher resolving descriptors through registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Infer computes the output shapes of node from its input shapes and writes them
// onto the node's output ports. Nothing but node is modified.
func (d *Dispatcher) Infer(node *Node) error {
	desc, err := d.registry.Lookup(node.op)
	if err != nil {
		return err
	}

	if len(node.inputShapes) != desc.inputPorts {
		return &ShapeMismatchError{
			Op: desc.name, Node: node.name, Direction: "input",
			Want: desc.inputPorts, Got: len(node.inputShapes),
		}
	}

	outputs, err := desc.infer(node.attrs.Clone(), cloneShapes(node.inputShapes))
	if err != nil {
		return fmt.Errorf("infer %s (%s): %w", node.name, desc.name, err)
	}

	if len(outputs) != desc.outputPorts {
		return &ShapeMismatchError{
			Op: desc.name, Node: node.name, Direction: "output",
			Want: desc.outputPorts, Got: len(outputs),
		}
	}

	node.outputShapes = cloneShapes(outputs)
	return nil
}

// InferShapes propagates shapes through g in topological order. Input shapes
// of each node are taken from the output ports of its producers.
func (d *Dispatcher) InferShapes(g *Graph) error {
	order, err := g.TopologicalOrder()
	if err != nil {
		return err
	}

	for _, node := range order {
		shapes := make([]tensor.Shape, len(node.inputs))
		for i, ref := range node.inputs {
			producer := g.byName[ref.Node]
			if ref.Port >= len(producer.outputShapes) {
				return fmt.Errorf("node %s: producer %s has no shape on port %d", node.name, ref.Node, ref.Port)
			}
			shapes[i] = producer.outputShapes[ref.Port].Clone()
		}
		node.inputShapes = shapes

		if err := d.Infer(node); err != nil {
			return fmt.Errorf("node %s (%s): %w", node.name, node.op, err)
		}
	}
	return nil
}
