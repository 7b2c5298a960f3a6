package serialization

import (
	"fmt"
	"io"
	"os"

	"github.com/born-ml/opset/internal/ir"
	"go.yaml.in/yaml/v3"
)

// WriteOptions configures document output.
type WriteOptions struct {
	// TargetVersion selects the backend attributes written for every layer.
	// Empty means each node's own version.
	TargetVersion string

	// RequireShapes fails with ErrNotInferred when a node has no output shapes.
	RequireShapes bool

	// Producer is recorded in the document header.
	Producer string
}

// DefaultWriteOptions returns default write options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		RequireShapes: true,
	}
}

// Encode converts g into a document. Layers follow topological order.
func Encode(g *ir.Graph, opts WriteOptions) (*Document, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("graph %s: %w", g.Name(), err)
	}

	doc := &Document{
		Name:          g.Name(),
		FormatVersion: FormatVersion,
		Producer:      opts.Producer,
		Layers:        make([]Layer, 0, len(order)),
		Edges:         []Edge{},
	}

	ids := make(map[string]int, len(order))
	for id, node := range order {
		ids[node.Name()] = id
	}

	for id, node := range order {
		desc := node.Descriptor()
		outputs := node.OutputShapes()
		if opts.RequireShapes && desc.OutputPorts() > 0 && outputs == nil {
			return nil, fmt.Errorf("layer %s (%s): %w", node.Name(), node.Op(), ErrNotInferred)
		}

		version := opts.TargetVersion
		if version == "" {
			version = node.Version()
		}

		layer := Layer{
			ID:      id,
			Name:    node.Name(),
			Type:    node.Op(),
			Version: version,
			Data:    encodeData(ir.BackendData(node, version), ir.ResolveBackendAttributes(desc, version)),
		}

		inputs := node.InputShapes()
		for port := range desc.InputPorts() {
			p := Port{ID: port}
			if port < len(inputs) {
				p.Shape = inputs[port]
			}
			layer.Inputs = append(layer.Inputs, p)
		}
		for port := range desc.OutputPorts() {
			p := Port{ID: desc.InputPorts() + port}
			if port < len(outputs) {
				p.Shape = outputs[port]
			}
			layer.Outputs = append(layer.Outputs, p)
		}
		doc.Layers = append(doc.Layers, layer)

		for port, ref := range node.Inputs() {
			producer, err := g.Node(ref.Node)
			if err != nil {
				return nil, err
			}
			doc.Edges = append(doc.Edges, Edge{
				FromLayer: ids[ref.Node],
				FromPort:  producer.Descriptor().InputPorts() + ref.Port,
				ToLayer:   id,
				ToPort:    port,
			})
		}
	}
	return doc, nil
}

// encodeData orders values by the backend attribute list.
func encodeData(values ir.Attributes, names []string) Data {
	data := make(Data, 0, len(values))
	for _, name := range names {
		if v, ok := values[name]; ok {
			data = append(data, DataEntry{Key: name, Value: v.Interface()})
		}
	}
	return data
}

// Write encodes g and writes it to w as YAML.
func Write(w io.Writer, g *ir.Graph, opts WriteOptions) error {
	doc, err := Encode(g, opts)
	if err != nil {
		return err
	}
	return WriteDocument(w, doc)
}

// WriteDocument writes doc to w as YAML.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush document: %w", err)
	}
	return nil
}

// WriteFile encodes g into the file at path.
func WriteFile(path string, g *ir.Graph, opts WriteOptions) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for IR output
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()
	return Write(file, g, opts)
}
