package registry

import (
	"fmt"
	"sort"
)

// Registry holds the indicator manifests keyed by kind. It is populated
// once at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	manifests map[string]*Manifest
	order     []string
}

// New returns a registry loaded with the builtin indicator catalog.
func New() *Registry {
	r := &Registry{manifests: make(map[string]*Manifest)}
	for _, m := range builtinManifests() {
		m := m
		if err := r.Register(&m); err != nil {
			// builtin table collisions are a programming error
			panic(err)
		}
	}
	return r
}

// Register adds a manifest to the registry. Kinds must be unique and
// carry a kernel.
func (r *Registry) Register(m *Manifest) error {
	if m.Kind == "" {
		return fmt.Errorf("registry: manifest without kind")
	}
	if m.Kernel == nil {
		return fmt.Errorf("registry: manifest %q without kernel", m.Kind)
	}
	if _, ok := r.manifests[m.Kind]; ok {
		return fmt.Errorf("registry: duplicate kind %q", m.Kind)
	}
	r.manifests[m.Kind] = m
	r.order = append(r.order, m.Kind)
	return nil
}

// Get returns the manifest for a kind.
func (r *Registry) Get(kind string) (*Manifest, error) {
	m, ok := r.manifests[kind]
	if !ok {
		return nil, fmt.Errorf("registry: unknown indicator kind %q", kind)
	}
	return m, nil
}

// List returns all manifests in registration order.
func (r *Registry) List() []*Manifest {
	out := make([]*Manifest, 0, len(r.order))
	for _, kind := range r.order {
		out = append(out, r.manifests[kind])
	}
	return out
}

// Kinds returns the sorted kind names, mainly for diagnostics.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.manifests))
	for kind := range r.manifests {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
