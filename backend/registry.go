package backend

import (
	"sync"

	"github.com/gogpu/fog"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendWGPU, BackendSoft}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be
// replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get constructs a backend instance by name.
// Returns ErrBackendNotAvailable if the backend is not registered.
func Get(name string) (fog.Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, ErrBackendNotAvailable
	}
	return factory()
}

// Default constructs the best available backend based on priority.
// Priority order: wgpu > soft. A backend whose factory fails is
// skipped, so a machine without a GPU falls through to the CPU
// backend.
func Default() (fog.Backend, error) {
	registryMu.RLock()
	factories := make([]Factory, 0, len(backends))
	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			factories = append(factories, factory)
		}
	}
	for name, factory := range backends {
		if !priorityName(name) {
			factories = append(factories, factory)
		}
	}
	registryMu.RUnlock()

	for _, factory := range factories {
		if b, err := factory(); err == nil && b != nil {
			return b, nil
		}
	}
	return nil, ErrBackendNotAvailable
}

// MustDefault returns the default backend or panics.
func MustDefault() fog.Backend {
	b, err := Default()
	if err != nil {
		panic("backend: no backend available")
	}
	return b
}

func priorityName(name string) bool {
	for _, p := range backendPriority {
		if p == name {
			return true
		}
	}
	return false
}
