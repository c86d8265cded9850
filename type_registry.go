package cradle

import (
	"reflect"
	"sort"
	"sync"
)

// typeRegistry is the class table: constructors declared per class key, plus
// an index from keys to the Go types met while declaring them. It outlives
// Flush, the way types outlive the values bound to them.
type typeRegistry struct {
	classes map[string]*class
	types   map[string]reflect.Type
	mu      sync.RWMutex
}

// newTypeRegistry creates a new type registry
func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		classes: make(map[string]*class),
		types:   make(map[string]reflect.Type),
	}
}

// register adds or replaces a class and indexes the types it mentions.
func (r *typeRegistry) register(k *class) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.classes[k.key] = k

	// a class declared under a custom key also answers for its type key,
	// unless that type has a declaration of its own
	typeKey := KeyOf(k.typ)
	if _, ok := r.classes[typeKey]; !ok || typeKey == k.key {
		r.classes[typeKey] = k
	}
	r.types[typeKey] = k.typ
	if k.sig != nil {
		for _, t := range k.sig.hintedTypes() {
			r.types[KeyOf(t)] = t
		}
	}
}

// get retrieves a declared class by key.
func (r *typeRegistry) get(key string) (*class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.classes[key]
	return k, ok
}

// remember indexes t under its key.
func (r *typeRegistry) remember(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types[KeyOf(t)] = t
}

// lookup returns the class for key, falling back to default construction
// when the key names a known concrete struct type. typ, when non-nil, is the
// type the caller expects and is indexed first.
func (r *typeRegistry) lookup(key string, typ reflect.Type) (*class, bool) {
	if k, ok := r.get(key); ok {
		return k, true
	}

	if typ != nil && KeyOf(typ) == key {
		r.remember(typ)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// re-check: another resolution may have declared it meanwhile
	if k, ok := r.classes[key]; ok {
		return k, true
	}

	t, ok := r.types[key]
	if !ok {
		return nil, false
	}

	k, ok := defaultClass(key, t)
	if !ok {
		return nil, false
	}

	r.classes[key] = k

	return k, true
}

// keys returns the declared class keys, sorted.
func (r *typeRegistry) keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.classes))
	for key := range r.classes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// snapshot returns the declared classes, ordered by key.
func (r *typeRegistry) snapshot() []*class {
	keys := r.keys()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*class, 0, len(keys))
	for _, key := range keys {
		if k, ok := r.classes[key]; ok {
			out = append(out, k)
		}
	}

	return out
}
