package cradle

import (
	"fmt"
	"reflect"
)

// Make resolves key with Container.Make and asserts the result to T.
func Make[T any](c *Container, key string, args ...Args) (T, error) {
	instance, err := c.Make(key, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return typed[T](key, instance)
}

// Get resolves key with Container.Get and asserts the result to T.
func Get[T any](c *Container, key string) (T, error) {
	instance, err := c.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return typed[T](key, instance)
}

// MustMake resolves or panics - use only during startup.
func MustMake[T any](c *Container, key string, args ...Args) T {
	instance, err := Make[T](c, key, args...)
	if err != nil {
		panic(fmt.Sprintf("failed to make %s: %v", key, err))
	}

	return instance
}

// Build makes T by its type key. T does not need a declaration when it is a
// struct or a pointer to one; its fields are left at their zero values.
//
// Usage:
//
//	svc, err := cradle.Build[*UserService](c, cradle.Named("pageSize", 50))
func Build[T any](c *Container, args ...Args) (T, error) {
	c.classes.remember(reflect.TypeOf((*T)(nil)).Elem())
	return Make[T](c, TypeKey[T](), args...)
}

// Invoke calls callable through Container.Call and asserts the result to T.
func Invoke[T any](c *Container, callable any, args ...Args) (T, error) {
	out, err := c.Call(callable, args...)
	if err != nil {
		var zero T
		return zero, err
	}

	name := funcName(callable)
	if fc, ok := callable.(Callable); ok {
		name = fc.String()
	}
	return typed[T](name, out)
}

// DeclareType declares T as a class without a constructor: pointers to
// structs are built with new, structs as their zero value.
func DeclareType[T any](c *Container) error {
	t := reflect.TypeOf((*T)(nil)).Elem()

	k, ok := defaultClass(KeyOf(t), t)
	if !ok {
		return ErrInvalidConstructor(fmt.Sprintf("%s has no constructor and is not a struct", t))
	}

	c.classes.register(k)

	return nil
}

func typed[T any](key string, instance any) (T, error) {
	v, ok := instance.(T)
	if !ok {
		var zero T
		if instance == nil && nilable(reflect.TypeOf((*T)(nil)).Elem()) {
			return zero, nil
		}
		return zero, ErrTypeMismatch(key, instance)
	}
	return v, nil
}
