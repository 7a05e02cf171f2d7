// Package specialcat implements the special-category registry: descriptors
// registered by collaborators (Keyed / Static / Anonymous) and the
// instances created for them as the binder processes special-category
// open markers.
package specialcat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hyprlang-go/hyprlang/pkg/types"
)

// Kind classifies how a special category's instances are addressed.
type Kind int

const (
	Keyed Kind = iota
	Static
	Anonymous
)

// Descriptor is a registered special-category shape.
type Descriptor struct {
	Name string
	Kind Kind

	// used guards re-registration: the original processor allows a
	// descriptor to be replaced up until its first instance is created;
	// after that, re-registering surfaces DuplicateHandler rather than
	// silently changing the shape of instances already bound.
	used bool
}

// Instance is a single instantiation of a special category, backed by its
// own Store so that e.g. "device[mouse]" never collides with a root key
// "device:mouse".
type Instance struct {
	Key         string
	local       Entries
}

// Entries is the minimal store surface an Instance needs; pkg/store's
// Store type satisfies this via its own Set/Get/Keys.
type Entries interface {
	Set(key string, v types.Value)
	Get(key string) (types.Value, bool)
	Keys() []string
}

// Registry holds descriptors and their instances, guarded by a
// sync.RWMutex in the same shape as the configuration processor's other
// shared mutable collections: safe for concurrent reads of an unmutated
// registry, single-writer for mutation.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	instances   map[string]map[string]*Instance // descriptor name -> key -> instance
	anonSeq     map[string]int
	newStore    func() Entries
}

// New creates an empty registry. newStore constructs the backing store
// used for each instance's local key/value table.
func New(newStore func() Entries) *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
		instances:   make(map[string]map[string]*Instance),
		anonSeq:     make(map[string]int),
		newStore:    newStore,
	}
}

// Register adds or replaces a descriptor. Replacing a descriptor after
// any instance of it has been created returns DuplicateHandler.
func (r *Registry) Register(name string, kind Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, exists := r.descriptors[name]; exists && d.used {
		return types.NewDuplicateHandler(name)
	}
	r.descriptors[name] = &Descriptor{Name: name, Kind: kind}
	return nil
}

// IsRegistered reports whether name has a descriptor.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[name]
	return ok
}

// Descriptor returns the registered descriptor for name, if any.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, false
	}
	return *d, true
}

// Open creates (Keyed/Anonymous) or fetches-and-replaces (Static) an
// instance for category name, per the descriptor's kind, and marks the
// descriptor used so it can no longer be silently re-registered.
func (r *Registry) Open(name string, key *string) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.descriptors[name]
	if !ok {
		return nil, types.NewUnregisteredSpecialCategory(name)
	}
	d.used = true

	var instanceKey string
	switch d.Kind {
	case Keyed:
		if key == nil || *key == "" {
			return nil, types.NewMissingKey(name)
		}
		instanceKey = *key
	case Static:
		instanceKey = "static"
	case Anonymous:
		instanceKey = uuid.NewString()
		r.anonSeq[name]++
	}

	if _, ok := r.instances[name]; !ok {
		r.instances[name] = make(map[string]*Instance)
	}
	inst := &Instance{Key: instanceKey, local: r.newStore()}
	r.instances[name][instanceKey] = inst
	return inst, nil
}

// Get retrieves a previously created instance.
func (r *Registry) Get(name, key string) (*Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byKey, ok := r.instances[name]
	if !ok {
		return nil, false
	}
	inst, ok := byKey[key]
	return inst, ok
}

// Keys returns the instance keys registered under a category name, in no
// particular order (map iteration order).
func (r *Registry) Keys(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byKey, ok := r.instances[name]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	return keys
}

// Set stores a value into an instance's local key/value table.
func (i *Instance) Set(key string, v types.Value) {
	i.local.Set(key, v)
}

// Get retrieves a value from an instance's local key/value table.
func (i *Instance) Get(key string) (types.Value, bool) {
	return i.local.Get(key)
}

// Keys lists the keys currently set on this instance.
func (i *Instance) Keys() []string {
	return i.local.Keys()
}
