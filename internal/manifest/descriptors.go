package manifest

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/ops"
	"k8s.io/klog/v2"
)

// ErrIncompatible is returned when the tool version does not satisfy requires.
var ErrIncompatible = errors.New("manifest requires another tool version")

// CheckRequires verifies that toolVersion satisfies the manifest's requires
// constraint. Manifests without a constraint accept every version. Tool
// versions that are not semantic versions, such as development builds, skip
// the check.
func (m *Manifest) CheckRequires(toolVersion string) error {
	if m.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return fmt.Errorf("%w: requires %q: %w", ErrInvalidManifest, m.Requires, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		klog.V(2).InfoS("skipping requires check for non-semver tool version",
			"manifest", m.Path, "version", toolVersion)
		return nil
	}
	if ok, errs := constraint.Validate(v); !ok {
		return fmt.Errorf("%w: version %s does not satisfy %q: %v", ErrIncompatible, v, m.Requires, errs)
	}
	return nil
}

// Descriptors builds the descriptors declared by the manifest.
func (m *Manifest) Descriptors() ([]*ir.Descriptor, error) {
	out := make([]*ir.Descriptor, 0, len(m.Operators))
	for i := range m.Operators {
		d, err := m.Operators[i].descriptor()
		if err != nil {
			return nil, fmt.Errorf("operator %s: %w", m.Operators[i].Name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Apply registers every declared descriptor in r.
func (m *Manifest) Apply(r *ir.Registry) error {
	descs, err := m.Descriptors()
	if err != nil {
		return err
	}
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return fmt.Errorf("manifest %s: %w", m.Path, err)
		}
	}
	klog.V(2).InfoS("applied manifest", "manifest", m.Path, "operators", len(descs))
	return nil
}

func (op *Operator) descriptor() (*ir.Descriptor, error) {
	infer, ok := ops.InferFuncByName(op.Infer)
	if !ok {
		return nil, fmt.Errorf("%w: unknown infer function %q (want one of %v)",
			ErrInvalidManifest, op.Infer, ops.InferFuncNames())
	}

	kinds := make(map[string]ir.AttrKind)
	var opts []ir.DescriptorOption
	for _, version := range slices.Sorted(maps.Keys(op.Backend)) {
		specs := make([]ir.AttrSpec, 0, len(op.Backend[version]))
		for _, a := range op.Backend[version] {
			kind, err := ir.ParseAttrKind(a.Kind)
			if err != nil {
				return nil, fmt.Errorf("%w: backend %s: %w", ErrInvalidManifest, version, err)
			}
			specs = append(specs, ir.AttrSpec{Name: a.Name, Kind: kind})
			kinds[a.Name] = kind
		}
		opts = append(opts, ir.WithBackendAttrs(version, specs...))
	}

	for _, name := range slices.Sorted(maps.Keys(op.Defaults)) {
		value, err := attrValue(op.Defaults[name], kinds[name])
		if err != nil {
			return nil, fmt.Errorf("%w: default %s: %w", ErrInvalidManifest, name, err)
		}
		opts = append(opts, ir.WithDefault(name, value))
	}

	return ir.NewDescriptor(op.Name, op.Inputs, op.Outputs, op.Version, infer, opts...)
}
