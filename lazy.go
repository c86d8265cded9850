package cradle

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy wraps a dependency that is resolved on first access.
// This is useful for breaking circular dependencies or deferring
// resolution of expensive instances until they're actually needed.
type Lazy[T any] struct {
	container *Container
	key       string
	once      sync.Once
	value     T
	err       error
	resolved  atomic.Bool
}

// NewLazy creates a new lazy dependency wrapper.
func NewLazy[T any](c *Container, key string) *Lazy[T] {
	return &Lazy[T]{
		container: c,
		key:       key,
	}
}

// Get resolves the dependency with Container.Get and returns it.
// The resolution happens only once; subsequent calls return the cached
// value or error.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = Get[T](l.container, l.key)
		l.resolved.Store(l.err == nil)
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.key, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Key returns the key of the dependency.
func (l *Lazy[T]) Key() string {
	return l.key
}

// OptionalLazy wraps an optional dependency that is resolved on first access.
// A key that is neither bound nor constructible yields the zero value
// without error.
type OptionalLazy[T any] struct {
	container *Container
	key       string
	once      sync.Once
	value     T
	err       error
	resolved  atomic.Bool
	found     atomic.Bool
}

// NewOptionalLazy creates a new optional lazy dependency wrapper.
func NewOptionalLazy[T any](c *Container, key string) *OptionalLazy[T] {
	return &OptionalLazy[T]{
		container: c,
		key:       key,
	}
}

// Get resolves the dependency and returns it.
func (l *OptionalLazy[T]) Get() (T, error) {
	l.once.Do(func() {
		value, err := Get[T](l.container, l.key)
		switch {
		case err == nil:
			l.value = value
			l.found.Store(true)
			l.resolved.Store(true)
		case IsNotFound(err):
			l.resolved.Store(true)
		default:
			l.err = err
		}
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
// Returns the zero value if the dependency is not found (does not panic).
func (l *OptionalLazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("optional lazy dependency %s failed: %v", l.key, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *OptionalLazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// IsFound returns true if the dependency was found (only valid after resolution).
func (l *OptionalLazy[T]) IsFound() bool {
	return l.found.Load()
}

// Key returns the key of the dependency.
func (l *OptionalLazy[T]) Key() string {
	return l.key
}

// Provider makes a dependency on each access. Keys with a class are
// constructed afresh unless shared.
type Provider[T any] struct {
	container *Container
	key       string
	args      Args
}

// NewProvider creates a new provider. args are passed to every Make.
func NewProvider[T any](c *Container, key string, args ...Args) *Provider[T] {
	return &Provider[T]{
		container: c,
		key:       key,
		args:      mergeArgs(args),
	}
}

// Provide makes and returns an instance of the dependency.
func (p *Provider[T]) Provide() (T, error) {
	return Make[T](p.container, p.key, p.args)
}

// MustProvide makes and returns an instance, panicking on error.
func (p *Provider[T]) MustProvide() T {
	value, err := p.Provide()
	if err != nil {
		panic(fmt.Sprintf("provider %s failed: %v", p.key, err))
	}

	return value
}

// Key returns the key of the dependency.
func (p *Provider[T]) Key() string {
	return p.key
}
