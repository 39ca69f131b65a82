package errcode

import (
	"fmt"
	"sync"
)

// Registry error code registry, guards against code collisions
type Registry struct {
	mu     sync.RWMutex
	codes  map[int]string // code -> module:msgKey
	locked bool
}

var globalRegistry = &Registry{
	codes: make(map[int]string),
}

// Register registers an error code with the global registry.
// Panics when the code is already registered under a different key.
func Register(err *LayeredError) *LayeredError {
	return globalRegistry.Register(err)
}

// Lock locks the global registry, blocking further registrations
func Lock() {
	globalRegistry.Lock()
}

// Register registers an error code
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locked {
		panic(fmt.Sprintf("registry is locked, cannot register error code: %d", err.Code()))
	}

	code := err.Code()
	key := fmt.Sprintf("%s:%s", err.Module(), err.MsgKey())

	if existing, exists := r.codes[code]; exists {
		if existing != key {
			panic(fmt.Sprintf(
				"error code conflict: code %d is already registered as %s, cannot register as %s",
				code, existing, key,
			))
		}
		// same code and key, idempotent
		return err
	}

	r.codes[code] = key
	return err
}

// Lock locks the registry. Usually called once the application finished
// booting, so nothing registers codes at runtime.
func (r *Registry) Lock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = true
}

// IsRegistered reports whether a code is known
func (r *Registry) IsRegistered(code int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.codes[code]
	return exists
}
