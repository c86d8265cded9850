package cradle

import (
	"reflect"
)

type concreteKind int

const (
	kindValue concreteKind = iota
	kindFactory
	kindRecipe
	kindAlias
)

// Concrete is what a key is bound to: a literal value, a factory invoked at
// registration, an argument recipe for the key's own class, or an alias to
// another key.
type Concrete struct {
	kind     concreteKind
	value    any
	callable Callable
	args     Args
	target   string
}

// Value binds a literal or pre-built instance, strings included.
func Value(v any) Concrete {
	return Concrete{kind: kindValue, value: v}
}

// Factory binds the result of fn. fn is invoked once at registration with
// its parameters autowired; params name them for explicit arguments.
func Factory(fn any, params ...Param) Concrete {
	if callable, ok := fn.(Callable); ok {
		return Concrete{kind: kindFactory, callable: callable}
	}
	return Concrete{kind: kindFactory, callable: Fn(fn, params...)}
}

// Recipe binds the key's own class constructed with args.
func Recipe(args Args) Concrete {
	return Concrete{kind: kindRecipe, args: args}
}

// Alias binds the key as an indirection to target.
func Alias(target string) Concrete {
	return Concrete{kind: kindAlias, target: target}
}

// aliasRef is the entry stored for an Alias binding.
type aliasRef struct {
	target string
}

// normalizeConcrete maps raw registration input onto a Concrete.
func normalizeConcrete(v any) Concrete {
	switch c := v.(type) {
	case nil:
		return Recipe(Args{})
	case Concrete:
		return c
	case string:
		return Alias(c)
	case Args:
		return Recipe(c)
	case Callable:
		return Concrete{kind: kindFactory, callable: c}
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		return Factory(v)
	}

	return Value(v)
}
