package hostapp

import "strconv"

// SecureAreaKey marks that destructive catalog operations are allowed.
const SecureAreaKey = "isSecureArea"

// DuplicateKeyError is returned when a registry key is registered twice.
type DuplicateKeyError struct{ Key string }

// Error implements the error interface.
func (e DuplicateKeyError) Error() string {
	return "hostapp: registry key " + strconv.Quote(e.Key) + " already exists"
}

// Registry is a process-wide key/value store for flags shared between services.
type Registry struct {
	items map[string]any
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: map[string]any{}}
}

// Register stores val under key. Existing keys are not overwritten.
func (r *Registry) Register(key string, val any) error {
	if _, ok := r.items[key]; ok {
		return DuplicateKeyError{Key: key}
	}
	r.items[key] = val
	return nil
}

// Registry returns the value under key, or nil.
func (r *Registry) Registry(key string) any {
	return r.items[key]
}

// Unregister removes key.
func (r *Registry) Unregister(key string) {
	delete(r.items, key)
}

// SetSecureArea replaces the secure area flag.
func (r *Registry) SetSecureArea(secure bool) {
	r.Unregister(SecureAreaKey)
	r.items[SecureAreaKey] = secure
}

// IsSecureArea reports whether the secure area flag is set to true.
func (r *Registry) IsSecureArea() bool {
	v, _ := r.items[SecureAreaKey].(bool)
	return v
}
