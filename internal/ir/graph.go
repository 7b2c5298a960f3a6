package ir

import (
	"fmt"
	"slices"

	"github.com/born-ml/opset/internal/tensor"
)

// Names of the graph boundary operators every registry used with Graph
// helpers must provide.
const (
	OpParameter = "Parameter"
	OpConst     = "Const"
	OpResult    = "Result"
)

// PortRef addresses an output port of a node.
type PortRef struct {
	Node string
	Port int
}

// Node is one operation in a graph, bound to a descriptor by name.
type Node struct {
	name         string
	op           string
	desc         *Descriptor
	attrs        Attributes
	inputs       []PortRef
	inputShapes  []tensor.Shape
	outputShapes []tensor.Shape
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Op returns the operator name.
func (n *Node) Op() string { return n.op }

// Descriptor returns the descriptor the node was created from.
func (n *Node) Descriptor() *Descriptor { return n.desc }

// Attrs returns a copy of the node attributes, defaults included.
func (n *Node) Attrs() Attributes { return n.attrs.Clone() }

// Version returns the opset tag of the node.
func (n *Node) Version() string { return n.attrs.String(PropVersion, n.desc.version) }

// Inputs returns the producer ports feeding the node.
func (n *Node) Inputs() []PortRef { return slices.Clone(n.inputs) }

// InputShapes returns the shapes currently bound to the input ports.
func (n *Node) InputShapes() []tensor.Shape { return cloneShapes(n.inputShapes) }

// OutputShapes returns the inferred output shapes, nil before inference.
func (n *Node) OutputShapes() []tensor.Shape { return cloneShapes(n.outputShapes) }

// SetInputShapes binds shapes to the input ports, for inference outside a graph.
func (n *Node) SetInputShapes(shapes ...tensor.Shape) {
	n.inputShapes = cloneShapes(shapes)
}

// BackendAttributes returns the backend-visible attribute names for the
// node's version.
func (n *Node) BackendAttributes() []string {
	return ResolveBackendAttributes(n.desc, n.Version())
}

func cloneShapes(shapes []tensor.Shape) []tensor.Shape {
	if shapes == nil {
		return nil
	}
	out := make([]tensor.Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// NewNode creates a detached node of op, seeded with the descriptor's default
// properties and attrs merged on top.
func NewNode(registry *Registry, name, op string, attrs Attributes) (*Node, error) {
	desc, err := registry.Lookup(op)
	if err != nil {
		return nil, err
	}
	for _, reserved := range reservedProps {
		if _, ok := attrs[reserved]; ok {
			return nil, fmt.Errorf("node %s: %q: %w", name, reserved, ErrReservedAttribute)
		}
	}
	if v, ok := attrs[PropVersion]; ok && v.Kind() != AttrString {
		return nil, &AttributeTypeError{Op: op, Name: PropVersion, Want: AttrString, Got: v.Kind()}
	}

	merged := desc.DefaultProperties().Merge(attrs)
	node := &Node{name: name, op: op, desc: desc, attrs: merged}
	if err := checkSchema(desc, node.Version(), merged); err != nil {
		return nil, fmt.Errorf("node %s: %w", name, err)
	}
	return node, nil
}

// Graph is a minimal computation graph: named nodes connected through ports.
// A Graph must not be mutated or inferred from more than one goroutine.
type Graph struct {
	name     string
	registry *Registry
	nodes    []*Node
	byName   map[string]*Node
}

// NewGraph creates an empty graph whose nodes resolve through registry.
func NewGraph(name string, registry *Registry) *Graph {
	return &Graph{
		name:     name,
		registry: registry,
		byName:   make(map[string]*Node),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Registry returns the registry the graph resolves operators through.
func (g *Graph) Registry() *Registry { return g.registry }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Node returns the node called name.
func (g *Graph) Node(name string) (*Node, error) {
	n, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return n, nil
}

// AddNode creates a node of op fed by inputs and adds it to the graph.
func (g *Graph) AddNode(name, op string, inputs []PortRef, attrs Attributes) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("node of %s: name cannot be empty", op)
	}
	if _, exists := g.byName[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}

	node, err := NewNode(g.registry, name, op, attrs)
	if err != nil {
		return nil, err
	}

	if len(inputs) != node.desc.inputPorts {
		return nil, &ShapeMismatchError{
			Op: op, Node: name, Direction: "input",
			Want: node.desc.inputPorts, Got: len(inputs),
		}
	}
	for _, ref := range inputs {
		producer, ok := g.byName[ref.Node]
		if !ok {
			return nil, fmt.Errorf("node %s: input %q: %w", name, ref.Node, ErrUnknownNode)
		}
		if ref.Port < 0 || ref.Port >= producer.desc.outputPorts {
			return nil, fmt.Errorf("node %s: producer %s has no output port %d", name, ref.Node, ref.Port)
		}
	}
	node.inputs = slices.Clone(inputs)

	g.nodes = append(g.nodes, node)
	g.byName[name] = node
	return node, nil
}

// AddParameter adds a graph input of the given shape and element type.
func (g *Graph) AddParameter(name string, shape tensor.Shape, dtype tensor.DataType) (*Node, error) {
	if err := shape.ValidateDynamic(); err != nil {
		return nil, fmt.Errorf("parameter %s: %w", name, err)
	}
	return g.AddNode(name, OpParameter, nil, Attributes{
		"shape":        Ints(toInt64s(shape)...),
		"element_type": String(dtype.String()),
	})
}

// AddResult adds a graph output consuming from.
func (g *Graph) AddResult(name string, from PortRef) (*Node, error) {
	return g.AddNode(name, OpResult, []PortRef{from}, nil)
}

// TopologicalOrder returns the nodes with every producer before its consumers.
// Ties keep insertion order.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	const (
		_ = iota // unvisited
		visiting
		done
	)
	state := make(map[string]int, len(g.nodes))
	order := make([]*Node, 0, len(g.nodes))

	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch state[n.name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: through node %q", ErrGraphCycle, n.name)
		}
		state[n.name] = visiting

		// Visit dependencies first
		for _, ref := range n.inputs {
			if err := visit(g.byName[ref.Node]); err != nil {
				return err
			}
		}

		state[n.name] = done
		order = append(order, n)
		return nil
	}

	for _, n := range g.nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func toInt64s(shape tensor.Shape) []int64 {
	out := make([]int64, len(shape))
	for i, d := range shape {
		out[i] = int64(d)
	}
	return out
}

// ShapeFromInts converts an integer list attribute to a shape.
func ShapeFromInts(dims []int64) tensor.Shape {
	shape := make(tensor.Shape, len(dims))
	for i, d := range dims {
		shape[i] = int(d)
	}
	return shape
}
