package cradle

import "reflect"

// KeyOf returns the key under which values of type t are bound and autowired.
// Named types use their fully-qualified name, pointers are prefixed with "*"
// and unnamed types fall back to their Go spelling.
//
// Example:
//
//	KeyOf(reflect.TypeOf(&Mailer{})) // "*github.com/acme/app.Mailer"
func KeyOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Kind() == reflect.Ptr {
		return "*" + KeyOf(t.Elem())
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}

	return t.String()
}

// TypeKey returns KeyOf for the type parameter, interfaces included.
func TypeKey[T any]() string {
	return KeyOf(reflect.TypeOf((*T)(nil)).Elem())
}

// ServiceKey provides type-safe binding identification.
// Use NewServiceKey to create typed keys for your bindings.
type ServiceKey[T any] struct {
	name string
}

// NewServiceKey creates a new typed service key.
//
// Example:
//
//	var MailerKey = NewServiceKey[*Mailer]("mailer")
func NewServiceKey[T any](name string) ServiceKey[T] {
	return ServiceKey[T]{name: name}
}

// Name returns the string name of the service key.
func (k ServiceKey[T]) Name() string {
	return k.name
}

// BindWithKey binds a typed factory under a typed key.
// The factory is invoked immediately, like every factory concrete.
//
// Example:
//
//	BindWithKey(c, MailerKey, func(c *Container) (*Mailer, error) {
//	    return &Mailer{}, nil
//	})
func BindWithKey[T any](c *Container, key ServiceKey[T], factory func(*Container) (T, error)) error {
	return c.Bind(key.name, Factory(factory))
}

// SingletonWithKey is BindWithKey with singleton semantics.
func SingletonWithKey[T any](c *Container, key ServiceKey[T], factory func(*Container) (T, error)) error {
	return c.Singleton(key.name, Factory(factory))
}

// MakeWithKey makes the binding of a typed key.
func MakeWithKey[T any](c *Container, key ServiceKey[T], args ...Args) (T, error) {
	return Make[T](c, key.name, args...)
}

// MustWithKey makes the binding of a typed key and panics on error.
func MustWithKey[T any](c *Container, key ServiceKey[T], args ...Args) T {
	result, err := MakeWithKey(c, key, args...)
	if err != nil {
		panic(err)
	}
	return result
}

// HasKey checks if a typed key is bound.
func HasKey[T any](c *Container, key ServiceKey[T]) bool {
	return c.Has(key.name)
}
