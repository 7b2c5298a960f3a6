package ir

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
)

// Property names every descriptor seeds a node with.
const (
	PropType          = "type"
	PropOp            = "op"
	PropInPortsCount  = "in_ports_count"
	PropOutPortsCount = "out_ports_count"
	PropVersion       = "version"
)

// reservedProps may not be overridden by node attributes. The version is not
// reserved so a node can be pinned to another opset.
var reservedProps = []string{PropType, PropOp, PropInPortsCount, PropOutPortsCount}

// Descriptor is the immutable static contract of one operator kind.
// It is shared by every node of that kind.
type Descriptor struct {
	name        string
	inputPorts  int
	outputPorts int
	version     string
	infer       InferFunc
	defaults    Attributes
	schema      map[string][]AttrSpec // version -> backend-visible attributes
}

// DescriptorOption configures a descriptor under construction.
type DescriptorOption func(d *Descriptor)

// WithDefault sets the default value of an attribute.
func WithDefault(name string, value AttrValue) DescriptorOption {
	return func(d *Descriptor) {
		d.defaults[name] = value
	}
}

// WithBackendAttrs declares the ordered backend-visible attributes for version.
// Declaring the same version twice replaces the earlier list.
func WithBackendAttrs(version string, specs ...AttrSpec) DescriptorOption {
	return func(d *Descriptor) {
		d.schema[version] = slices.Clone(specs)
	}
}

// NewDescriptor creates a descriptor and validates its schema.
func NewDescriptor(name string, inputPorts, outputPorts int, version string, infer InferFunc,
	opts ...DescriptorOption,
) (*Descriptor, error) {
	d := &Descriptor{
		name:        name,
		inputPorts:  inputPorts,
		outputPorts: outputPorts,
		version:     version,
		infer:       infer,
		defaults:    make(Attributes),
		schema:      make(map[string][]AttrSpec),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// MustDescriptor is like NewDescriptor but panics on error.
// Use it for package-level operator tables.
func MustDescriptor(name string, inputPorts, outputPorts int, version string, infer InferFunc,
	opts ...DescriptorOption,
) *Descriptor {
	d, err := NewDescriptor(name, inputPorts, outputPorts, version, infer, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to build descriptor: %v", err))
	}
	return d
}

func (d *Descriptor) validate() error {
	if d.name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidDescriptor)
	}
	if d.inputPorts < 0 || d.outputPorts < 0 {
		return fmt.Errorf("%w: %s: negative port count (in=%d, out=%d)",
			ErrInvalidDescriptor, d.name, d.inputPorts, d.outputPorts)
	}
	if d.infer == nil {
		return fmt.Errorf("%w: %s: inference function cannot be nil", ErrInvalidDescriptor, d.name)
	}
	for _, reserved := range reservedProps {
		if _, ok := d.defaults[reserved]; ok {
			return fmt.Errorf("%w: %s: default for reserved property %q", ErrInvalidDescriptor, d.name, reserved)
		}
	}
	for version, specs := range d.schema {
		seen := make(map[string]bool, len(specs))
		for _, spec := range specs {
			if spec.Name == "" {
				return fmt.Errorf("%w: %s/%s: attribute with empty name", ErrInvalidDescriptor, d.name, version)
			}
			if seen[spec.Name] {
				return fmt.Errorf("%w: %s/%s: attribute %q declared twice",
					ErrInvalidDescriptor, d.name, version, spec.Name)
			}
			seen[spec.Name] = true
			if def, ok := d.defaults[spec.Name]; ok && def.Kind() != spec.Kind {
				return fmt.Errorf("%w: %s/%s: default for %q is %s, schema says %s",
					ErrInvalidDescriptor, d.name, version, spec.Name, def.Kind(), spec.Kind)
			}
		}
	}
	return nil
}

// Name returns the operator name.
func (d *Descriptor) Name() string { return d.name }

// InputPorts returns the number of input ports.
func (d *Descriptor) InputPorts() int { return d.inputPorts }

// OutputPorts returns the number of output ports.
func (d *Descriptor) OutputPorts() int { return d.outputPorts }

// Version returns the opset tag new nodes are created with.
func (d *Descriptor) Version() string { return d.version }

// Infer returns the shape inference function.
func (d *Descriptor) Infer() InferFunc { return d.infer }

// Defaults returns a copy of the attribute defaults.
func (d *Descriptor) Defaults() Attributes { return d.defaults.Clone() }

// BackendAttributes returns the attribute names exposed to version, in order.
// Unknown versions yield an empty slice.
func (d *Descriptor) BackendAttributes(version string) []string {
	return ResolveBackendAttributes(d, version)
}

// Schema returns the attribute specs declared for version.
func (d *Descriptor) Schema(version string) []AttrSpec {
	return slices.Clone(d.schema[version])
}

// Versions returns the versions that declare backend attributes, sorted.
func (d *Descriptor) Versions() []string {
	versions := make([]string, 0, len(d.schema))
	for v := range d.schema {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// DefaultProperties returns the properties a new node of this kind starts with.
func (d *Descriptor) DefaultProperties() Attributes {
	props := d.defaults.Clone()
	props[PropType] = String(d.name)
	props[PropOp] = String(d.name)
	props[PropInPortsCount] = Int(int64(d.inputPorts))
	props[PropOutPortsCount] = Int(int64(d.outputPorts))
	props[PropVersion] = String(d.version)
	return props
}

// With returns a new descriptor with opts applied on top of d.
func (d *Descriptor) With(opts ...DescriptorOption) (*Descriptor, error) {
	next := &Descriptor{
		name:        d.name,
		inputPorts:  d.inputPorts,
		outputPorts: d.outputPorts,
		version:     d.version,
		infer:       d.infer,
		defaults:    d.defaults.Clone(),
		schema:      make(map[string][]AttrSpec, len(d.schema)),
	}
	for v, specs := range d.schema {
		next.schema[v] = slices.Clone(specs)
	}
	for _, opt := range opts {
		opt(next)
	}
	if err := next.validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// Equal reports whether two descriptors define the same operator.
// Inference functions are compared by code pointer, so two closures built
// from the same function literal compare equal.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	if d.name != other.name || d.inputPorts != other.inputPorts ||
		d.outputPorts != other.outputPorts || d.version != other.version {
		return false
	}
	if reflect.ValueOf(d.infer).Pointer() != reflect.ValueOf(other.infer).Pointer() {
		return false
	}
	if !d.defaults.Equal(other.defaults) || len(d.schema) != len(other.schema) {
		return false
	}
	for v, specs := range d.schema {
		otherSpecs, ok := other.schema[v]
		if !ok || !slices.Equal(specs, otherSpecs) {
			return false
		}
	}
	return true
}

// String returns a short summary such as "Gelu(1->1, opset7)".
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(%d->%d, %s)", d.name, d.inputPorts, d.outputPorts, d.version)
}
