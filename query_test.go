package cradle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueryContainer(t *testing.T) *Container {
	t.Helper()

	c := New()
	require.NoError(t, c.Declare(NewDatabase))
	require.NoError(t, c.Singleton("app.name", Value("cradle")))
	require.NoError(t, c.Scoped("app.request", Value(&disposable{})))
	require.NoError(t, c.Register("app.limit", Value(10)))
	require.NoError(t, c.Register("db", Alias(TypeKey[*Database]())))

	return c
}

func TestInspect(t *testing.T) {
	c := setupQueryContainer(t)

	info := c.Inspect("app.name")
	assert.Equal(t, "app.name", info.Key)
	assert.Equal(t, "singleton", info.Lifecycle)
	assert.True(t, info.Shared)
	assert.False(t, info.Scoped)
	assert.True(t, info.Resolved)
	assert.Equal(t, "string", info.Type)

	info = c.Inspect("app.request")
	assert.Equal(t, "scoped", info.Lifecycle)
	assert.True(t, info.Shared)
	assert.True(t, info.Scoped)

	info = c.Inspect("db")
	assert.Equal(t, "transient", info.Lifecycle)
	assert.Equal(t, TypeKey[*Database](), info.Alias)
	assert.Empty(t, info.Type)
}

func TestInspect_Class(t *testing.T) {
	c := setupQueryContainer(t)

	info := c.Inspect(TypeKey[*Database]())
	assert.True(t, info.Class)
	assert.False(t, info.Resolved)
	assert.Equal(t, []string{TypeKey[*Config]()}, info.Dependencies)
}

func TestInspect_Unknown(t *testing.T) {
	c := New()

	info := c.Inspect("nothing")
	assert.Equal(t, BindingInfo{Key: "nothing", Lifecycle: "transient"}, info)
	assert.False(t, c.Has("nothing"), "inspect never resolves")
}

func TestQuery_Lifecycle(t *testing.T) {
	c := setupQueryContainer(t)

	assert.Equal(t, []string{"app.name"}, c.QueryKeys(BindingQuery{Lifecycle: "singleton"}))
	assert.Equal(t, []string{"app.request"}, c.QueryKeys(BindingQuery{Lifecycle: "scoped"}))
}

func TestQuery_Prefix(t *testing.T) {
	c := setupQueryContainer(t)

	assert.Equal(t,
		[]string{"app.limit", "app.name", "app.request"},
		c.QueryKeys(BindingQuery{Prefix: "app."}),
	)
}

func TestQuery_ResolvedIncludesEvicted(t *testing.T) {
	c := setupQueryContainer(t)
	require.NoError(t, c.ForgetScoped())

	resolved := false
	infos := c.Query(BindingQuery{Lifecycle: "scoped", Resolved: &resolved})

	require.Len(t, infos, 1)
	assert.Equal(t, "app.request", infos[0].Key)
}

func TestQuery_Empty(t *testing.T) {
	c := setupQueryContainer(t)

	assert.Empty(t, c.Query(BindingQuery{Prefix: "nope."}))
}

func TestFindShared(t *testing.T) {
	c := setupQueryContainer(t)

	infos := c.FindShared()
	require.Len(t, infos, 1)
	assert.Equal(t, "app.name", infos[0].Key)
}

func TestFindScoped(t *testing.T) {
	c := setupQueryContainer(t)

	infos := c.FindScoped()
	require.Len(t, infos, 1)
	assert.Equal(t, "app.request", infos[0].Key)
}

func TestFindAliases(t *testing.T) {
	c := setupQueryContainer(t)

	infos := c.FindAliases()
	require.Len(t, infos, 1)
	assert.Equal(t, "db", infos[0].Key)
}
