package manifest

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Load reads, validates and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		var invalid *InvalidError
		if errors.As(err, &invalid) {
			invalid.Path = path
			return nil, invalid
		}
		return nil, fmt.Errorf("loading manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Issues: result.Issues}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// readFile reads a file and wraps errors with the file path.
func readFile(path string) ([]byte, error) {
	//nolint:gosec // G304: Path is provided by user, file inclusion is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return data, nil
}
