package manifest

// APIVersion is the only manifest apiVersion understood by this package.
const APIVersion = "opset/v1"

// Manifest is a decoded extension manifest.
type Manifest struct {
	APIVersion  string     `yaml:"apiVersion"`
	Requires    string     `yaml:"requires,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Operators   []Operator `yaml:"operators"`

	// Path is the file the manifest was loaded from, empty for in-memory data.
	Path string `yaml:"-"`
}

// Operator declares one descriptor.
type Operator struct {
	Name     string                 `yaml:"name"`
	Inputs   int                    `yaml:"inputs"`
	Outputs  int                    `yaml:"outputs"`
	Version  string                 `yaml:"version"`
	Infer    string                 `yaml:"infer"`
	Defaults map[string]any         `yaml:"defaults,omitempty"`
	Backend  map[string][]Attribute `yaml:"backend,omitempty"`
}

// Attribute is a backend attribute of one opset version.
type Attribute struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}
