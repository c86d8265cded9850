package cradle

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil))
)

// paramKind classifies how a parameter is autowired when no named argument
// supplies it.
type paramKind int

const (
	paramScalar paramKind = iota // default value or failure
	paramHinted                  // resolved through its hint key
	paramArray                   // slice, map or array: empty container
	paramUnion                   // several candidate hints: refused
)

// paramInfo describes one analyzed parameter.
type paramInfo struct {
	index      int
	typ        reflect.Type
	name       string
	kind       paramKind
	hint       string
	union      []string
	def        any
	hasDefault bool
}

// label names the parameter in error messages.
func (p paramInfo) label() string {
	if p.name != "" {
		return "$" + p.name
	}
	return "#" + strconv.Itoa(p.index)
}

// signature holds the analyzed shape of a constructor, factory or method.
type signature struct {
	fn       reflect.Value
	params   []paramInfo
	variadic bool
	results  []reflect.Type // error result excluded
	hasError bool
}

// analyzeFunc inspects fn and merges the declared params into its
// parameter table, in declaration order.
func analyzeFunc(fn reflect.Value, declared []Param) (*signature, error) {
	fnType := fn.Type()
	if fnType.Kind() != reflect.Func {
		return nil, errors.New("not a function")
	}

	if len(declared) > fnType.NumIn() {
		return nil, fmt.Errorf("%d parameters declared for a function taking %d", len(declared), fnType.NumIn())
	}

	sig := &signature{
		fn:       fn,
		variadic: fnType.IsVariadic(),
	}

	for i := 0; i < fnType.NumIn(); i++ {
		var decl Param
		if i < len(declared) {
			decl = declared[i]
		}
		sig.params = append(sig.params, analyzeParam(fnType.In(i), i, decl))
	}

	for i := 0; i < fnType.NumOut(); i++ {
		out := fnType.Out(i)
		if out == errorType {
			if i != fnType.NumOut()-1 {
				return nil, errors.New("error must be the last return value")
			}
			sig.hasError = true
			continue
		}
		sig.results = append(sig.results, out)
	}

	return sig, nil
}

// analyzeParam classifies one parameter. Explicit hints win over the Go type.
func analyzeParam(t reflect.Type, index int, decl Param) paramInfo {
	param := paramInfo{
		index:      index,
		typ:        t,
		name:       decl.name,
		def:        decl.def,
		hasDefault: decl.hasDefault,
	}

	switch {
	case len(decl.union) > 1:
		param.kind = paramUnion
		param.union = decl.union
	case decl.hint != "":
		param.kind = paramHinted
		param.hint = decl.hint
	default:
		param.kind, param.hint = classify(t)
	}

	return param
}

// classify derives the implicit hint of a Go type.
func classify(t reflect.Type) (paramKind, string) {
	switch t.Kind() {
	case reflect.Ptr:
		if t.Elem().Kind() == reflect.Struct {
			return paramHinted, KeyOf(t)
		}
	case reflect.Struct:
		return paramHinted, KeyOf(t)
	case reflect.Interface:
		// any carries no type information worth resolving
		if t.NumMethod() > 0 {
			return paramHinted, KeyOf(t)
		}
	case reflect.Slice, reflect.Map, reflect.Array:
		return paramArray, ""
	}
	return paramScalar, ""
}

// hintedTypes returns the types of hinted parameters for the type index.
func (s *signature) hintedTypes() []reflect.Type {
	var types []reflect.Type
	for _, p := range s.params {
		if p.kind == paramHinted && p.hint == KeyOf(p.typ) {
			types = append(types, p.typ)
		}
	}
	return types
}

// call invokes the function and splits off a trailing error.
func (s *signature) call(args []reflect.Value, spread bool) ([]reflect.Value, error) {
	var out []reflect.Value
	if spread {
		out = s.fn.CallSlice(args)
	} else {
		out = s.fn.Call(args)
	}

	if s.hasError {
		errValue := out[len(out)-1]
		out = out[:len(out)-1]
		if !errValue.IsNil() {
			return nil, errValue.Interface().(error)
		}
	}

	return out, nil
}

// class is the registration-time descriptor of a constructible type.
// A nil sig means default construction.
type class struct {
	key string
	typ reflect.Type
	sig *signature
}

// newClass analyzes constructor and builds the class it produces.
func newClass(key string, constructor any, params []Param) (*class, error) {
	if constructor == nil {
		return nil, ErrInvalidConstructor("constructor cannot be nil")
	}

	sig, err := analyzeFunc(reflect.ValueOf(constructor), params)
	if err != nil {
		return nil, ErrInvalidConstructor(err.Error())
	}

	if len(sig.results) != 1 {
		return nil, ErrInvalidConstructor(fmt.Sprintf("constructor must return exactly one value, returns %d", len(sig.results)))
	}

	if key == "" {
		key = KeyOf(sig.results[0])
	}

	return &class{key: key, typ: sig.results[0], sig: sig}, nil
}

// defaultClass builds a constructor-less class for a concrete struct type.
func defaultClass(key string, t reflect.Type) (*class, bool) {
	if !defaultConstructible(t) {
		return nil, false
	}
	return &class{key: key, typ: t}, true
}

func defaultConstructible(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		return t.Elem().Kind() == reflect.Struct
	}
	return t.Kind() == reflect.Struct
}

// params returns the parameter table, empty for default construction.
func (k *class) params() []paramInfo {
	if k.sig == nil {
		return nil
	}
	return k.sig.params
}

// instantiate runs the constructor, or builds the zero value of the type.
func (k *class) instantiate(args []reflect.Value, spread bool) (any, error) {
	if k.sig == nil {
		if k.typ.Kind() == reflect.Ptr {
			return reflect.New(k.typ.Elem()).Interface(), nil
		}
		return reflect.New(k.typ).Elem().Interface(), nil
	}

	out, err := k.sig.call(args, spread)
	if err != nil {
		return nil, NewConstructionError(k.key, err)
	}

	return out[0].Interface(), nil
}
