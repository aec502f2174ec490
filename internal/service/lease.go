package service

import "sync"

// LeaseRegistry grants at most one in-flight lease per key.
type LeaseRegistry struct {
	active sync.Map
}

// Acquire returns a release func and true when no lease is held for key.
// Release is idempotent.
func (r *LeaseRegistry) Acquire(key string) (release func(), ok bool) {
	token := new(struct{ byte })
	if _, held := r.active.LoadOrStore(key, token); held {
		return func() {}, false
	}
	var once sync.Once
	return func() {
		once.Do(func() { r.active.CompareAndDelete(key, token) })
	}, true
}

// Held reports whether a lease is currently held for key.
func (r *LeaseRegistry) Held(key string) bool {
	_, ok := r.active.Load(key)
	return ok
}
