package serialization

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// FormatVersion is the IR document version written by this package.
const FormatVersion = 1

// Document is the top-level IR document.
type Document struct {
	Name          string  `yaml:"name"`
	FormatVersion int     `yaml:"format_version"`
	Producer      string  `yaml:"producer,omitempty"`
	Layers        []Layer `yaml:"layers"`
	Edges         []Edge  `yaml:"edges"`
}

// Layer describes one node.
type Layer struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Version string `yaml:"version"`
	Data    Data   `yaml:"data,omitempty"`
	Inputs  []Port `yaml:"input,omitempty"`
	Outputs []Port `yaml:"output,omitempty"`
}

// Port is an input or output port of a layer. Shape is empty for scalars and
// for ports whose shape was never inferred.
type Port struct {
	ID    int   `yaml:"id"`
	Shape []int `yaml:"shape,flow"`
}

// Edge connects an output port to an input port.
type Edge struct {
	FromLayer int `yaml:"from_layer"`
	FromPort  int `yaml:"from_port"`
	ToLayer   int `yaml:"to_layer"`
	ToPort    int `yaml:"to_port"`
}

// DataEntry is one backend attribute.
type DataEntry struct {
	Key   string
	Value any
}

// Data holds backend attributes in declaration order.
type Data []DataEntry

// Get returns the value stored under key.
func (d Data) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// MarshalYAML writes d as a mapping, keeping entry order.
func (d Data) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range d {
		var value yaml.Node
		if err := value.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("data %s: %w", e.Key, err)
		}
		if value.Kind == yaml.SequenceNode {
			value.Style = yaml.FlowStyle
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping into d, keeping entry order.
func (d *Data) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: data must be a mapping", node.Line)
	}
	entries := make(Data, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("data %s: %w", node.Content[i].Value, err)
		}
		entries = append(entries, DataEntry{Key: node.Content[i].Value, Value: value})
	}
	*d = entries
	return nil
}
