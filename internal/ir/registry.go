package ir

import (
	"fmt"
	"sort"
	"sync"

	"k8s.io/klog/v2"
)

// Registry maps operator names to descriptors.
//
// Registries are constructed explicitly and passed to graph construction,
// inference and serialization. Registration is a startup phase that ends with
// Seal; lookups are safe for concurrent use at any time.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	sealed      bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
	}
}

// Register adds a descriptor. Registering an identical definition under the same
// name again is a no-op; a differing definition returns *DuplicateOperatorError.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: descriptor cannot be nil", ErrInvalidDescriptor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.descriptors[d.name]; ok {
		if existing.Equal(d) {
			return nil
		}
		return &DuplicateOperatorError{Name: d.name}
	}
	if r.sealed {
		return fmt.Errorf("register %q: %w", d.name, ErrRegistrySealed)
	}
	r.descriptors[d.name] = d
	klog.V(4).InfoS("registered operator", "op", d.name, "version", d.version,
		"inputs", d.inputPorts, "outputs", d.outputPorts)
	return nil
}

// MustRegister registers a descriptor and panics on error.
// Use this in startup tables to fail fast on registration errors.
func (r *Registry) MustRegister(d *Descriptor) {
	if err := r.Register(d); err != nil {
		panic(fmt.Sprintf("failed to register operator: %v", err))
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[name]
	if !ok {
		return nil, &UnknownOperatorError{Name: name}
	}
	return d, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[name]
	return ok
}

// Names returns all registered operator names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Seal ends the registration phase. Later registrations of new names fail
// with ErrRegistrySealed.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}
