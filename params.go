package cradle

// Param describes one parameter of a constructor, factory or method.
// Go reflection does not expose parameter names, so names, defaults and
// explicit type hints are declared alongside the callable.
//
// Usage:
//
//	c.Declare(NewMailer,
//	    cradle.Arg("transport"),
//	    cradle.Arg("retries", cradle.DefaultValue(3)),
//	)
type Param struct {
	name       string
	hint       string
	union      []string
	def        any
	hasDefault bool
}

// ParamOption configures a Param.
type ParamOption func(*Param)

// Arg declares the parameter at the next position under name.
// An empty name leaves the parameter reachable by type hint only.
func Arg(name string, opts ...ParamOption) Param {
	p := Param{name: name}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Default supplies the value used when nothing else satisfies the parameter.
func DefaultValue(value any) ParamOption {
	return func(p *Param) {
		p.def = value
		p.hasDefault = true
	}
}

// Hint resolves the parameter through key instead of the key of its Go type.
// Useful for interface parameters bound under an alias.
func Hint(key string) ParamOption {
	return func(p *Param) {
		p.hint = key
		p.union = nil
	}
}

// OneOf declares a union of candidate keys. A single key behaves like Hint;
// more than one makes autowiring refuse the parameter unless it is supplied
// by name.
func OneOf(keys ...string) ParamOption {
	return func(p *Param) {
		if len(keys) == 1 {
			p.hint = keys[0]
			p.union = nil
			return
		}
		p.hint = ""
		p.union = append([]string(nil), keys...)
	}
}

// Name returns the declared parameter name.
func (p Param) Name() string {
	return p.name
}

// Args carries explicit arguments for Make, Call and recipes: values keyed by
// parameter name plus an ordered positional tail.
type Args struct {
	named      map[string]any
	positional []any
}

// Named creates Args holding a single named value.
func Named(name string, value any) Args {
	return Args{}.With(name, value)
}

// NamedMap creates Args from a map of named values.
func NamedMap(values map[string]any) Args {
	a := Args{}
	for name, value := range values {
		a = a.With(name, value)
	}
	return a
}

// Positional creates Args holding positional values.
func Positional(values ...any) Args {
	return Args{}.Append(values...)
}

// With returns a copy of a with name set to value.
func (a Args) With(name string, value any) Args {
	named := make(map[string]any, len(a.named)+1)
	for k, v := range a.named {
		named[k] = v
	}
	named[name] = value
	return Args{named: named, positional: a.positional}
}

// Append returns a copy of a with values added to the positional tail.
func (a Args) Append(values ...any) Args {
	positional := make([]any, 0, len(a.positional)+len(values))
	positional = append(positional, a.positional...)
	positional = append(positional, values...)
	return Args{named: a.named, positional: positional}
}

// Lookup returns the named value for name.
func (a Args) Lookup(name string) (any, bool) {
	v, ok := a.named[name]
	return v, ok
}

// Len returns the number of named and positional values.
func (a Args) Len() int {
	return len(a.named) + len(a.positional)
}

// mergeArgs folds several Args into one; later names win, positionals concatenate.
func mergeArgs(all []Args) Args {
	switch len(all) {
	case 0:
		return Args{}
	case 1:
		return all[0]
	}

	merged := Args{}
	for _, a := range all {
		for k, v := range a.named {
			merged = merged.With(k, v)
		}
		merged = merged.Append(a.positional...)
	}
	return merged
}

// argPool is the consumable view of Args used while assembling one call.
type argPool struct {
	named      map[string]any
	positional []any
}

func newArgPool(a Args) *argPool {
	named := make(map[string]any, len(a.named))
	for k, v := range a.named {
		named[k] = v
	}
	return &argPool{named: named, positional: a.positional}
}

// take consumes the named value for name; each name is consumed at most once.
func (p *argPool) take(name string) (any, bool) {
	if name == "" {
		return nil, false
	}
	v, ok := p.named[name]
	if ok {
		delete(p.named, name)
	}
	return v, ok
}
