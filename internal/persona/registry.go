package persona

// Registry holds the fixed persona set for a session. It is populated once at
// session setup and read-only afterwards; no locking is needed because a
// session processes turns strictly one at a time.
type Registry struct {
	personas map[string]Persona
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{personas: make(map[string]Persona)}
}

// Register inserts a persona. Registering an empty key or a key that already
// exists is a configuration error.
func (r *Registry) Register(p Persona) error {
	if p.Key == "" {
		return UnknownPersonaError{Key: ""}
	}
	if _, exists := r.personas[p.Key]; exists {
		return DuplicateRegistrationError{Key: p.Key}
	}
	r.personas[p.Key] = p
	r.order = append(r.order, p.Key)
	return nil
}

// Get returns the persona registered under key.
func (r *Registry) Get(key string) (Persona, bool) {
	p, ok := r.personas[key]
	return p, ok
}

// Keys returns persona keys in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered personas.
func (r *Registry) Len() int {
	return len(r.personas)
}
