package fog

import "sync"

// Registry is the active-volume set consumed by the visibility stage.
//
// Each pipeline owns its registry (see Pipeline.Registry), so multiple
// pipelines can coexist without sharing hidden state. Volumes call Add
// on activation and Remove on deactivation; the pipeline takes a
// read-only snapshot each frame.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	volumes []*Volume
	present map[*Volume]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{present: make(map[*Volume]struct{})}
}

// Add registers a volume. Adding an already-registered volume is a
// no-op; the set never holds duplicates. Returns true if the volume
// was inserted.
func (r *Registry) Add(v *Volume) bool {
	if v == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.present[v]; ok {
		return false
	}
	r.present[v] = struct{}{}
	r.volumes = append(r.volumes, v)
	return true
}

// Remove unregisters a volume. Removing an unknown volume is a no-op.
// Returns true if the volume was present.
func (r *Registry) Remove(v *Volume) bool {
	if v == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.present[v]; !ok {
		return false
	}
	delete(r.present, v)
	for i, cur := range r.volumes {
		if cur == v {
			r.volumes = append(r.volumes[:i], r.volumes[i+1:]...)
			break
		}
	}
	return true
}

// Volumes returns a snapshot of the active set in registration order.
// The returned slice is owned by the caller; later Add/Remove calls do
// not affect it.
func (r *Registry) Volumes() []*Volume {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Volume, len(r.volumes))
	copy(out, r.volumes)
	return out
}

// Len returns the number of registered volumes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.volumes)
}
