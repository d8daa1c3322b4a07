package transform

import (
	"cmp"
	"slices"
	"sync"
)

// globalRegistry is the registry the rules package registers into.
var globalRegistry = NewRegistry()

// Registry stores pass definitions keyed by ID.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Def
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Def)}
}

// Register adds a pass, replacing any pass with the same ID.
func (r *Registry) Register(def Def) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.ID] = def
}

// GetAll returns all passes sorted by Order, then ID.
func (r *Registry) GetAll() []Def {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Def, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b Def) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return defs
}

// GetByID returns a pass by its ID.
func (r *Registry) GetByID(id string) (Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// GetByGroup returns the passes of one group in run order.
func (r *Registry) GetByGroup(group string) []Def {
	var defs []Def
	for _, def := range r.GetAll() {
		if def.Group == group {
			defs = append(defs, def)
		}
	}
	return defs
}

// Count returns the number of registered passes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Clear removes all registered passes.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = make(map[string]Def)
}

// Passes returns the enabled passes in run order. IDs listed in disabled
// are skipped.
func (r *Registry) Passes(disabled ...string) []Transformation {
	var passes []Transformation
	for _, def := range r.GetAll() {
		if slices.Contains(disabled, def.ID) {
			continue
		}
		passes = append(passes, def.Pass())
	}
	return passes
}

// Register adds a pass to the global registry.
// Call this from init() functions in rule packages.
func Register(def Def) {
	globalRegistry.Register(def)
}

// GetAll returns all globally registered passes in run order.
func GetAll() []Def {
	return globalRegistry.GetAll()
}

// GetByID returns a globally registered pass by its ID.
func GetByID(id string) (Def, bool) {
	return globalRegistry.GetByID(id)
}

// GetByGroup returns the globally registered passes of one group.
func GetByGroup(group string) []Def {
	return globalRegistry.GetByGroup(group)
}

// Count returns the number of globally registered passes.
func Count() int {
	return globalRegistry.Count()
}

// Clear removes all globally registered passes. Used for testing.
func Clear() {
	globalRegistry.Clear()
}

// Passes returns the enabled global passes in run order.
func Passes(disabled ...string) []Transformation {
	return globalRegistry.Passes(disabled...)
}
