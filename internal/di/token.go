package di

// Token is a typed service key.
type Token[T any] struct {
	name string
}

// NewToken creates a typed token.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registry key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazy typed factory.
func RegisterToken[T any](c Container, token Token[T], f func(ServiceRegistry) T) {
	c.AddFactory(token.name, func(sr ServiceRegistry) any {
		return f(sr)
	})
}

// GetToken resolves a typed service. Optional services registered as a nil
// interface come back as the zero value of T.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	v, _ := sr.Get(token.name).(T)
	return v
}
