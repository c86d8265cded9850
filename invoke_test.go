package cradle

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct {
	prefix string
}

func (g *greeter) Greet(name string) string {
	return g.prefix + " " + name
}

func (g *greeter) Describe(db *Database) bool {
	return db != nil
}

func (g *greeter) Split(s string) (string, string, error) {
	head, tail, _ := strings.Cut(s, " ")
	return head, tail, nil
}

func TestCall_DefaultFallback(t *testing.T) {
	c := New()

	sum, err := c.Call(Fn(func(x, y int) int { return x + y },
		Arg("x"), Arg("y", DefaultValue(5)),
	), Named("x", 10))

	require.NoError(t, err)
	assert.Equal(t, 15, sum)
}

func TestCall_BareFunctionAutowired(t *testing.T) {
	c := New()
	require.NoError(t, c.Declare(NewDatabase))

	out, err := c.Call(func(db *Database) bool { return db != nil })
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestCall_NoResults(t *testing.T) {
	c := New()
	called := false

	out, err := c.Call(func() { called = true })
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.True(t, called)
}

func TestCall_ErrorResult(t *testing.T) {
	c := New()
	cause := errors.New("nope")

	out, err := c.Call(func() (int, error) { return 0, cause })
	assert.Nil(t, out)
	assert.Same(t, cause, err)

	out, err = c.Call(func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, out)
}

func TestCall_MultipleResults(t *testing.T) {
	c := New()

	out, err := c.Call(Method(&greeter{}, "Split", Arg("s")), Named("s", "hello world"))
	require.NoError(t, err)
	assert.Equal(t, []any{"hello", "world"}, out)
}

func TestCall_MethodOnInstance(t *testing.T) {
	c := New()

	out, err := c.Call(Method(&greeter{prefix: "hi"}, "Greet", Arg("name")), Named("name", "ana"))
	require.NoError(t, err)
	assert.Equal(t, "hi ana", out)
}

func TestCall_MethodOnKey(t *testing.T) {
	c := New()
	require.NoError(t, c.Declare(NewDatabase))
	require.NoError(t, c.Register("greeter", Value(&greeter{prefix: "yo"})))

	out, err := c.Call(Method("greeter", "Describe"))
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = c.Call(Method("greeter", "Greet", Arg("name")), Named("name", "bo"))
	require.NoError(t, err)
	assert.Equal(t, "yo bo", out)
}

func TestCall_MethodNotFound(t *testing.T) {
	c := New()

	_, err := c.Call(Method(&greeter{}, "Missing"))
	assert.ErrorIs(t, err, ErrMethodNotFoundSentinel)
}

func TestCall_MethodTargetUnbound(t *testing.T) {
	c := New()

	_, err := c.Call(Method("nobody", "Greet"))
	assert.ErrorIs(t, err, ErrKeyNotFoundSentinel)
}

func TestCall_InvalidCallable(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		callable any
	}{
		{"nil", nil},
		{"not a function", 42},
		{"nil function", (func())(nil)},
		{"nil target", Method(nil, "Greet")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Call(tt.callable)
			assert.ErrorIs(t, err, ErrInvalidCallableSentinel)
		})
	}
}

func TestCall_TooManyParams(t *testing.T) {
	c := New()

	_, err := c.Call(Fn(func(int) {}, Arg("a"), Arg("b")))
	assert.ErrorIs(t, err, ErrInvalidCallableSentinel)
}

func TestCall_Variadic(t *testing.T) {
	c := New()
	join := func(sep string, parts ...string) string { return strings.Join(parts, sep) }

	out, err := c.Call(Fn(join, Arg("sep")), Named("sep", ","), Positional("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", out)
}

func TestCall_MergedArgs(t *testing.T) {
	c := New()
	fn := Fn(func(a, b string) string { return a + b }, Arg("a"), Arg("b"))

	out, err := c.Call(fn, Named("a", "1").With("b", "2"), Named("b", "3"))
	require.NoError(t, err)
	assert.Equal(t, "13", out)
}

func TestInvoke_Typed(t *testing.T) {
	c := New()

	n, err := Invoke[int](c, func() int { return 4 })
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = Invoke[string](c, func() int { return 4 })
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)
}

func TestCallable_String(t *testing.T) {
	assert.Equal(t, "svc.Run", Method("svc", "Run").String())
	assert.Equal(t, "*cradle.greeter.Greet", Method(&greeter{}, "Greet").String())
	assert.Contains(t, Fn(NewCounter).String(), "NewCounter")
}
