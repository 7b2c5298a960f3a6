package ir

// ResolveBackendAttributes returns the ordered attribute names d exposes to
// version. Versions are opaque tags compared by equality. A version without an
// entry resolves to an empty slice so unversioned and legacy pipelines keep
// working.
func ResolveBackendAttributes(d *Descriptor, version string) []string {
	specs := d.schema[version]
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

// BackendData returns the backend-visible attribute values of node for version.
// An empty version means the node's own version. Attributes named by the schema
// but absent on the node are omitted.
func BackendData(node *Node, version string) Attributes {
	if version == "" {
		version = node.Version()
	}
	data := make(Attributes)
	for _, name := range ResolveBackendAttributes(node.desc, version) {
		if v, ok := node.attrs[name]; ok {
			data[name] = v
		}
	}
	return data
}

// checkSchema verifies that attrs matching the schema of version have the
// declared kinds.
func checkSchema(d *Descriptor, version string, attrs Attributes) error {
	for _, spec := range d.schema[version] {
		v, ok := attrs[spec.Name]
		if !ok {
			continue
		}
		if v.Kind() != spec.Kind {
			return &AttributeTypeError{Op: d.name, Name: spec.Name, Want: spec.Kind, Got: v.Kind()}
		}
	}
	return nil
}
