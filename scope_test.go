package cradle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoped_MarksSharedAndScoped(t *testing.T) {
	c := New()
	require.NoError(t, c.Scoped("request", Value(&disposable{})))

	assert.True(t, c.IsShared("request"))
	assert.True(t, c.IsScoped("request"))
	assert.Equal(t, []string{"request"}, c.ScopedKeys())
}

func TestScoped_KeysOrderedWithoutDuplicates(t *testing.T) {
	c := New()
	require.NoError(t, c.Scoped("b", Value(1)))
	require.NoError(t, c.Scoped("a", Value(2)))
	require.NoError(t, c.Scoped("b", Value(3)))

	assert.Equal(t, []string{"b", "a"}, c.ScopedKeys())
}

func TestForgetScoped_ClearsOnlyScoped(t *testing.T) {
	c := New()
	require.NoError(t, c.Declare(NewDatabase))
	require.NoError(t, c.Declare(func() *Config { return &Config{} }))

	require.NoError(t, c.Scoped(TypeKey[*Database](), nil))
	require.NoError(t, c.Singleton(TypeKey[*Config](), nil))
	require.NoError(t, c.Register("plain", Value(1)))

	scopedBefore, err := c.Make(TypeKey[*Database]())
	require.NoError(t, err)
	sharedBefore, err := c.Make(TypeKey[*Config]())
	require.NoError(t, err)

	require.NoError(t, c.ForgetScoped())

	assert.False(t, c.Has(TypeKey[*Database]()))
	assert.True(t, c.Has(TypeKey[*Config]()))
	assert.True(t, c.Has("plain"))

	// flags survive eviction
	assert.True(t, c.IsShared(TypeKey[*Database]()))
	assert.True(t, c.IsScoped(TypeKey[*Database]()))

	scopedAfter, err := c.Make(TypeKey[*Database]())
	require.NoError(t, err)
	sharedAfter, err := c.Make(TypeKey[*Config]())
	require.NoError(t, err)

	assert.NotSame(t, scopedBefore, scopedAfter)
	assert.Same(t, sharedBefore, sharedAfter)

	again, err := c.Make(TypeKey[*Database]())
	require.NoError(t, err)
	assert.Same(t, scopedAfter, again, "rebuilt scoped instance is cached")
}

func TestForgetScoped_Disposes(t *testing.T) {
	c := New()
	d := &disposable{}
	require.NoError(t, c.Scoped("res", Value(d)))

	require.NoError(t, c.ForgetScoped())
	assert.Equal(t, 1, d.disposed)

	// already evicted: nothing left to dispose
	require.NoError(t, c.ForgetScoped())
	assert.Equal(t, 1, d.disposed)
}

func TestForgetScoped_CombinesErrors(t *testing.T) {
	c := New()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	require.NoError(t, c.Scoped("a", Value(&disposable{err: errA})))
	require.NoError(t, c.Scoped("b", Value(&disposable{err: errB})))

	err := c.ForgetScoped()
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.False(t, c.Has("a"))
	assert.False(t, c.Has("b"))
}

func TestShutdown_DisposesOnceAndFlushes(t *testing.T) {
	c := New()
	d := &disposable{}
	require.NoError(t, c.Singleton("one", Value(d)))
	require.NoError(t, c.Register("two", Value(d)))
	require.NoError(t, c.Register("alias", Alias("one")))
	require.NoError(t, c.Register("plain", Value(5)))

	require.NoError(t, c.Shutdown())

	assert.Equal(t, 1, d.disposed)
	assert.Equal(t, []string{TypeKey[*Container]()}, c.Keys())
	assert.False(t, c.IsShared("one"))
}

func TestShutdown_ReportsErrors(t *testing.T) {
	c := New()
	cause := errors.New("close failed")
	require.NoError(t, c.Register("res", Value(&disposable{err: cause})))

	err := c.Shutdown()
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dispose res")
	assert.False(t, c.Has("res"))
}

type settingsHolder struct {
	Values any
}

func TestShutdown_UnhashableValue(t *testing.T) {
	c := New()
	require.NoError(t, c.Register("settings", Value(settingsHolder{Values: []int{1}})))
	require.NoError(t, c.Register("lookup", Value(map[string]int{"a": 1})))

	assert.NotPanics(t, func() {
		assert.NoError(t, c.Shutdown())
	})
	assert.False(t, c.Has("settings"))
}

func TestForgetScoped_KeepsAlias(t *testing.T) {
	c := New()
	require.NoError(t, c.Register("target", Value("v")))
	require.NoError(t, c.Scoped("a", "target"))

	require.NoError(t, c.ForgetScoped())

	v, err := c.Make("a")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, "target", c.Inspect("a").Alias)
}

func TestScoped_FailedRegistrationKeepsFlags(t *testing.T) {
	c := New()

	require.Error(t, c.Scoped("nope", nil))
	assert.False(t, c.IsShared("nope"))
	assert.False(t, c.IsScoped("nope"))
	assert.Empty(t, c.ScopedKeys())

	require.Error(t, c.Singleton("also-nope", nil))
	assert.False(t, c.IsShared("also-nope"))
}

func TestScoped_FailedRebindKeepsExistingFlags(t *testing.T) {
	c := New()
	require.NoError(t, c.Scoped("req", Value(1)))

	require.Error(t, c.Scoped("req", Recipe(Args{})))
	assert.True(t, c.IsShared("req"))
	assert.True(t, c.IsScoped("req"))
	assert.Equal(t, []string{"req"}, c.ScopedKeys())
}
