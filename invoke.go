package cradle

import (
	"fmt"
	"reflect"
	"runtime"
)

// Callable describes something Call can invoke: a function, or a method on
// a target that is either a key or an instance.
type Callable struct {
	fn     any
	target any
	method string
	params []Param
}

// Fn describes a function or closure. params name its parameters in order.
//
// Usage:
//
//	sum, err := c.Call(cradle.Fn(func(x, y int) int { return x + y },
//	    cradle.Arg("x"), cradle.Arg("y", cradle.DefaultValue(5)),
//	), cradle.Named("x", 10))
func Fn(fn any, params ...Param) Callable {
	return Callable{fn: fn, params: params}
}

// Method describes the exported method name on target. A string target is
// made through the container first; anything else is used as the instance.
//
// Usage:
//
//	sent, err := c.Call(cradle.Method("mailer", "Send", cradle.Arg("to")), cradle.Named("to", "ops@acme.io"))
func Method(target any, method string, params ...Param) Callable {
	return Callable{target: target, method: method, params: params}
}

// String names the callable in errors and logs.
func (fc Callable) String() string {
	if fc.method != "" {
		if key, ok := fc.target.(string); ok {
			return key + "." + fc.method
		}
		return fmt.Sprintf("%T.%s", fc.target, fc.method)
	}
	return funcName(fc.fn)
}

// Call invokes callable with its parameters autowired, using the same
// priority chain as constructors. callable is a Callable or a bare function.
//
// The result is nil for functions without results, the single result
// otherwise, or []any when several values remain. A trailing error result
// is returned as the error.
func (c *Container) Call(callable any, args ...Args) (any, error) {
	fc, ok := callable.(Callable)
	if !ok {
		fc = Fn(callable)
	}

	out, fnErr, err := c.invoke(newResolution(), fc, mergeArgs(args))
	if err != nil {
		return nil, err
	}
	if fnErr != nil {
		return nil, fnErr
	}

	return out, nil
}

// invoke resolves the function value, assembles its arguments and calls it.
// fnErr is the error returned by the callable itself; err is a resolution
// failure.
func (c *Container) invoke(st *resolution, fc Callable, args Args) (out any, fnErr error, err error) {
	fn, err := c.bindCallable(st, fc)
	if err != nil {
		return nil, nil, err
	}

	sig, err := analyzeFunc(fn, fc.params)
	if err != nil {
		return nil, nil, ErrInvalidCallable(fc.String(), err.Error())
	}

	in, spread, err := c.assemble(st, fc.String(), sig.params, sig.variadic, args)
	if err != nil {
		return nil, nil, err
	}

	results, fnErr := sig.call(in, spread)
	if fnErr != nil {
		return nil, fnErr, nil
	}

	return collapse(results), nil, nil
}

// bindCallable returns the reflect.Value to call for fc.
func (c *Container) bindCallable(st *resolution, fc Callable) (reflect.Value, error) {
	if fc.method == "" {
		if fc.fn == nil {
			return reflect.Value{}, ErrInvalidCallable("<nil>", "no function given")
		}
		fn := reflect.ValueOf(fc.fn)
		if fn.Kind() != reflect.Func {
			return reflect.Value{}, ErrInvalidCallable(fmt.Sprintf("%T", fc.fn), "not a function")
		}
		if fn.IsNil() {
			return reflect.Value{}, ErrInvalidCallable(fc.String(), "nil function")
		}
		return fn, nil
	}

	instance := fc.target
	owner := fmt.Sprintf("%T", fc.target)

	if key, ok := fc.target.(string); ok {
		resolved, err := c.make(st, key, Args{})
		if err != nil {
			return reflect.Value{}, err
		}
		instance = resolved
		owner = key
	}

	if instance == nil {
		return reflect.Value{}, ErrInvalidCallable(fc.String(), "nil target")
	}

	method := reflect.ValueOf(instance).MethodByName(fc.method)
	if !method.IsValid() {
		return reflect.Value{}, ErrMethodNotFound(owner, fc.method)
	}

	return method, nil
}

// collapse turns call results into the value returned to callers.
func collapse(results []reflect.Value) any {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0].Interface()
	}

	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.Interface()
	}
	return out
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Sprintf("%T", fn)
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}
