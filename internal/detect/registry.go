package detect

import (
	"fmt"
	"sync"

	"github.com/rmfonseca/matchradar/pkg/contracts"
)

// Registry manages the configured detectors by name
type Registry struct {
	mu        sync.RWMutex
	detectors map[string]contracts.Detector
	order     []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{detectors: make(map[string]contracts.Detector)}
}

// Register adds a detector. Registering the same name twice is a wiring bug.
func (r *Registry) Register(d contracts.Detector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Name()
	if _, exists := r.detectors[name]; exists {
		return fmt.Errorf("detector %s is already registered", name)
	}
	r.detectors[name] = d
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a detector by name
func (r *Registry) Get(name string) (contracts.Detector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.detectors[name]
	return d, ok
}

// All returns the detectors in registration order
func (r *Registry) All() []contracts.Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contracts.Detector, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.detectors[name])
	}
	return out
}

// Count returns the number of registered detectors
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.detectors)
}
