package cradle

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// resolution tracks the classes under construction for one top-level call.
type resolution struct {
	stack []string
}

func newResolution() *resolution {
	return &resolution{}
}

// enter pushes key, failing when it is already being constructed.
func (r *resolution) enter(key string) error {
	for i, k := range r.stack {
		if k == key {
			chain := append(append([]string{}, r.stack[i:]...), key)
			return ErrCircularDependency(chain)
		}
	}
	r.stack = append(r.stack, key)
	return nil
}

func (r *resolution) leave() {
	r.stack = r.stack[:len(r.stack)-1]
}

// =============================================================================
// PUBLIC RESOLUTION
// =============================================================================

// Get returns the entry of key, following aliases. A key without an entry is
// resolved: its class is constructed and the instance stored.
func (c *Container) Get(key string) (any, error) {
	return c.around(key, func() (any, error) {
		return c.get(newResolution(), key)
	})
}

// Make returns an instance for key. A shared key that is present returns its
// cached instance. Otherwise a key with a class is constructed afresh with
// args and the instance stored; a key bound to a plain value returns it.
//
// Usage:
//
//	svc, err := c.Make(cradle.TypeKey[*UserService]())
//	svc, err := c.Make("users", cradle.Named("pageSize", 50))
func (c *Container) Make(key string, args ...Args) (any, error) {
	return c.around(key, func() (any, error) {
		return c.make(newResolution(), key, mergeArgs(args))
	})
}

// around runs a resolution between the middleware hooks.
func (c *Container) around(key string, resolve func() (any, error)) (any, error) {
	if err := c.middleware.beforeResolve(key); err != nil {
		return nil, err
	}

	instance, err := resolve()

	if mwErr := c.middleware.afterResolve(key, instance, err); mwErr != nil {
		return nil, mwErr
	}

	return instance, err
}

// =============================================================================
// ENGINE
// =============================================================================

// chase follows alias entries from key to the first key that is not an alias.
func (c *Container) chase(key string) (string, error) {
	chain := []string{key}
	seen := map[string]bool{key: true}

	for {
		v, ok := c.entry(key)
		if !ok {
			break
		}
		ref, isAlias := v.(aliasRef)
		if !isAlias {
			break
		}

		key = ref.target
		chain = append(chain, key)
		if seen[key] {
			return "", ErrCyclicAlias(chain)
		}
		seen[key] = true
	}

	if len(chain) > 1 {
		c.logger.Debug("alias chased", zap.String("chain", strings.Join(chain, " -> ")))
	}

	return key, nil
}

// classFor looks up the class of key. The container itself is never built.
func (c *Container) classFor(key string, typ reflect.Type) (*class, bool) {
	if key == c.selfKey {
		return nil, false
	}
	return c.classes.lookup(key, typ)
}

func (c *Container) get(st *resolution, key string) (any, error) {
	term, err := c.chase(key)
	if err != nil {
		return nil, err
	}

	if v, ok := c.entry(term); ok {
		return v, nil
	}

	return c.resolve(st, term, Args{})
}

func (c *Container) make(st *resolution, key string, args Args) (any, error) {
	if c.IsShared(key) && c.Has(key) {
		return c.get(st, key)
	}

	term, err := c.chase(key)
	if err != nil {
		return nil, err
	}

	if term == c.selfKey {
		return c, nil
	}

	if c.IsShared(term) && c.Has(term) {
		return c.get(st, term)
	}

	if k, ok := c.classFor(term, nil); ok {
		return c.construct(st, term, k, args)
	}

	if v, ok := c.entry(term); ok {
		return v, nil
	}

	return nil, ErrKeyNotFound(key)
}

// resolve constructs the class of key with args.
func (c *Container) resolve(st *resolution, key string, args Args) (any, error) {
	if k, ok := c.classFor(key, nil); ok {
		return c.construct(st, key, k, args)
	}
	return nil, ErrKeyNotFound(key)
}

// getTyped resolves a type hint. typ is the parameter type, which lets
// undeclared struct types be default-constructed.
func (c *Container) getTyped(st *resolution, key string, typ reflect.Type) (any, error) {
	if typ == containerType && key == c.selfKey {
		if v, ok := c.entry(key); ok {
			return v, nil
		}
		return c, nil
	}

	term, err := c.chase(key)
	if err != nil {
		return nil, err
	}

	if v, ok := c.entry(term); ok {
		return v, nil
	}

	if k, ok := c.classFor(term, typ); ok {
		return c.construct(st, term, k, Args{})
	}

	return nil, ErrClassNotFound(key)
}

// resolvable reports whether a hint could be satisfied without constructing.
func (c *Container) resolvable(key string, typ reflect.Type) bool {
	term, err := c.chase(key)
	if err != nil {
		return false
	}
	if c.Has(term) || term == c.selfKey {
		return true
	}
	_, ok := c.classFor(term, typ)
	return ok
}

// construct builds an instance of class k and stores it under key.
func (c *Container) construct(st *resolution, key string, k *class, args Args) (any, error) {
	if err := st.enter(key); err != nil {
		return nil, err
	}
	defer st.leave()

	variadic := k.sig != nil && k.sig.variadic

	in, spread, err := c.assemble(st, key, k.params(), variadic, args)
	if err != nil {
		return nil, err
	}

	instance, err := k.instantiate(in, spread)
	if err != nil {
		return nil, err
	}

	c.store(key, instance)

	c.logger.Debug("instance constructed",
		zap.String("key", key),
		zap.String("type", fmt.Sprintf("%T", instance)),
		zap.Int("depth", len(st.stack)),
	)

	return instance, nil
}

// assemble builds the argument list for params in declaration order.
// spread reports that the variadic tail was supplied as one slice.
func (c *Container) assemble(st *resolution, owner string, params []paramInfo, variadic bool, args Args) ([]reflect.Value, bool, error) {
	pool := newArgPool(args)

	fixed := params
	if variadic {
		fixed = params[:len(params)-1]
	}

	in := make([]reflect.Value, 0, len(params)+len(pool.positional))

	for _, p := range fixed {
		v, err := c.resolveParam(st, owner, p, pool)
		if err != nil {
			return nil, false, err
		}
		in = append(in, v)
	}

	if !variadic {
		if n := len(pool.positional); n > 0 {
			return nil, false, ErrBindingResolution(owner, "...",
				fmt.Errorf("%d positional arguments left over", n))
		}
		return in, false, nil
	}

	tail := params[len(params)-1]

	if v, ok := pool.take(tail.name); ok {
		rv, err := assign(v, tail.typ)
		if err != nil {
			return nil, false, ErrBindingResolution(owner, tail.label(), err)
		}
		return append(in, rv), true, nil
	}

	elem := tail.typ.Elem()
	for _, v := range pool.positional {
		rv, err := assign(v, elem)
		if err != nil {
			return nil, false, ErrBindingResolution(owner, tail.label(), err)
		}
		in = append(in, rv)
	}

	return in, false, nil
}

// resolveParam applies the priority chain: named argument, type hint,
// empty container, default value.
//
// A hinted parameter that declares a default takes the default when its
// hint is neither bound nor constructible, instead of failing with
// CLASS_NOT_FOUND. This is intended: the default marks the dependency
// optional.
func (c *Container) resolveParam(st *resolution, owner string, p paramInfo, pool *argPool) (reflect.Value, error) {
	if v, ok := pool.take(p.name); ok {
		return assignParam(owner, p, v)
	}

	switch p.kind {
	case paramUnion:
		return reflect.Value{}, ErrUnsupportedSignature(owner, p.label(), p.union)

	case paramHinted:
		if p.hasDefault && !c.resolvable(p.hint, p.typ) {
			return assignParam(owner, p, p.def)
		}

		v, err := c.getTyped(st, p.hint, p.typ)
		if err != nil {
			return reflect.Value{}, err
		}
		return assignParam(owner, p, v)

	case paramArray:
		return emptyOf(p.typ), nil
	}

	if p.hasDefault {
		return assignParam(owner, p, p.def)
	}

	return reflect.Value{}, ErrBindingResolution(owner, p.label(), nil)
}

func assignParam(owner string, p paramInfo, v any) (reflect.Value, error) {
	rv, err := assign(v, p.typ)
	if err != nil {
		return reflect.Value{}, ErrBindingResolution(owner, p.label(), err)
	}
	return rv, nil
}

// assign converts v to t: assignable values pass, numeric kinds convert,
// nil becomes the zero value of nilable types.
func assign(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nilable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, ErrTypeMismatch(t.String(), v)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if numeric(rv.Kind()) && numeric(t.Kind()) {
		if out, ok := convertNumber(rv, t); ok {
			return out, nil
		}
	}

	return reflect.Value{}, ErrTypeMismatch(t.String(), v)
}

// convertNumber converts between numeric kinds when the value survives:
// no overflow, no sign loss, no dropped fraction.
func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, bool) {
	target := reflect.New(t).Elem()

	switch {
	case signed(rv.Kind()):
		n := rv.Int()
		switch {
		case signed(t.Kind()):
			if target.OverflowInt(n) {
				return reflect.Value{}, false
			}
		case unsigned(t.Kind()):
			if n < 0 || target.OverflowUint(uint64(n)) {
				return reflect.Value{}, false
			}
		default:
			if target.OverflowFloat(float64(n)) {
				return reflect.Value{}, false
			}
		}

	case unsigned(rv.Kind()):
		n := rv.Uint()
		switch {
		case signed(t.Kind()):
			if n > math.MaxInt64 || target.OverflowInt(int64(n)) {
				return reflect.Value{}, false
			}
		case unsigned(t.Kind()):
			if target.OverflowUint(n) {
				return reflect.Value{}, false
			}
		default:
			if target.OverflowFloat(float64(n)) {
				return reflect.Value{}, false
			}
		}

	default:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			if signed(t.Kind()) || unsigned(t.Kind()) {
				return reflect.Value{}, false
			}
			break
		}
		switch {
		case signed(t.Kind()):
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f)) {
				return reflect.Value{}, false
			}
		case unsigned(t.Kind()):
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f)) {
				return reflect.Value{}, false
			}
		default:
			if target.OverflowFloat(f) {
				return reflect.Value{}, false
			}
		}
	}

	return rv.Convert(t), true
}

func signed(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func unsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// emptyOf returns an empty container of an array-kind type.
func emptyOf(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(t)
	default:
		return reflect.Zero(t)
	}
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
