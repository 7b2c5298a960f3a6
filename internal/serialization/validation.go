package serialization

import (
	"fmt"
	"slices"

	"github.com/born-ml/opset/internal/ir"
)

// ValidateDocument checks the structure of doc: supported format version,
// unique layer ids and names, and edges joining an existing output port to an
// existing input port.
func ValidateDocument(doc *Document) error {
	if doc.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.FormatVersion)
	}

	byID := make(map[int]*Layer, len(doc.Layers))
	names := make(map[string]bool, len(doc.Layers))
	for i := range doc.Layers {
		l := &doc.Layers[i]
		if l.Type == "" {
			return &ValidationError{Type: "missing_type", Layer: l.Name, Details: "layer type is empty"}
		}
		if _, dup := byID[l.ID]; dup {
			return &ValidationError{Type: "duplicate_layer", Layer: l.Name, Details: fmt.Sprintf("id %d used twice", l.ID)}
		}
		if names[l.Name] {
			return &ValidationError{Type: "duplicate_layer", Layer: l.Name, Details: "name used twice"}
		}
		byID[l.ID] = l
		names[l.Name] = true
	}

	for _, e := range doc.Edges {
		from, ok := byID[e.FromLayer]
		if !ok {
			return &ValidationError{Type: "dangling_edge", Details: fmt.Sprintf("no layer %d", e.FromLayer)}
		}
		to, ok := byID[e.ToLayer]
		if !ok {
			return &ValidationError{Type: "dangling_edge", Details: fmt.Sprintf("no layer %d", e.ToLayer)}
		}
		if !hasPort(from.Outputs, e.FromPort) {
			return &ValidationError{Type: "dangling_edge", Layer: from.Name, Details: fmt.Sprintf("no output port %d", e.FromPort)}
		}
		if !hasPort(to.Inputs, e.ToPort) {
			return &ValidationError{Type: "dangling_edge", Layer: to.Name, Details: fmt.Sprintf("no input port %d", e.ToPort)}
		}
	}
	return nil
}

func hasPort(ports []Port, id int) bool {
	return slices.ContainsFunc(ports, func(p Port) bool { return p.ID == id })
}

// CheckRegistry verifies doc against registry: every layer type is registered,
// port counts match its descriptor, and layer data only carries the backend
// attributes of the layer's version.
func CheckRegistry(doc *Document, registry *ir.Registry) error {
	for i := range doc.Layers {
		l := &doc.Layers[i]
		desc, err := registry.Lookup(l.Type)
		if err != nil {
			return fmt.Errorf("layer %s: %w", l.Name, err)
		}
		if len(l.Inputs) != desc.InputPorts() || len(l.Outputs) != desc.OutputPorts() {
			return &ValidationError{
				Type:  "port_count",
				Layer: l.Name,
				Details: fmt.Sprintf("%s declares %d->%d ports, layer has %d->%d",
					l.Type, desc.InputPorts(), desc.OutputPorts(), len(l.Inputs), len(l.Outputs)),
			}
		}
		allowed := ir.ResolveBackendAttributes(desc, l.Version)
		for _, e := range l.Data {
			if !slices.Contains(allowed, e.Key) {
				return &ValidationError{
					Type:    "unexpected_attribute",
					Layer:   l.Name,
					Details: fmt.Sprintf("%q is not a backend attribute of %s in %s", e.Key, l.Type, l.Version),
				}
			}
		}
	}
	return nil
}
