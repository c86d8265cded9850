package cradle

import (
	"sync"

	"go.uber.org/zap"
)

// Container is a binding registry with an autowiring resolver.
//
// Keys map to entries: constructed instances, literal values or aliases.
// Classes, declared with Declare, describe how keys are constructed when no
// entry exists or when Make asks for a fresh instance.
type Container struct {
	entries    map[string]any
	shared     map[string]bool
	scoped     []string
	scopedSet  map[string]struct{}
	classes    *typeRegistry
	middleware *middlewareChain
	logger     *zap.Logger
	selfKey    string
	mu         sync.RWMutex
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registry and resolution events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMiddleware adds resolution middleware, called in the order given.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Container) {
		for _, mw := range middleware {
			c.middleware.add(mw)
		}
	}
}

// New creates an empty container. The container is bound under its own type
// key, so constructors may ask for *Container.
func New(opts ...Option) *Container {
	c := &Container{
		entries:    make(map[string]any),
		shared:     make(map[string]bool),
		scopedSet:  make(map[string]struct{}),
		classes:    newTypeRegistry(),
		middleware: newMiddlewareChain(),
		logger:     zap.NewNop(),
		selfKey:    KeyOf(containerType),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.entries[c.selfKey] = c

	return c
}

var (
	defaultContainer *Container
	defaultMu        sync.Mutex
)

// Default returns the process-wide container, creating it on first use.
func Default() *Container {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultContainer == nil {
		defaultContainer = New()
	}

	return defaultContainer
}

// ResetDefault shuts the process-wide container down and drops it; the next
// Default call starts from an empty one.
func ResetDefault() error {
	defaultMu.Lock()
	c := defaultContainer
	defaultContainer = nil
	defaultMu.Unlock()

	if c == nil {
		return nil
	}

	return c.Shutdown()
}

// =============================================================================
// REGISTRATION
// =============================================================================

// Register binds key to concrete, resolving it eagerly.
//
// A Value is stored as is. A Factory is called once, its parameters
// autowired, and the result stored. A Recipe constructs the key's own class
// with the recipe arguments and stores the instance. An Alias is stored as an
// indirection followed on lookup. Raw input is normalized first: strings are
// aliases, Args are recipes, functions are factories, nil autowires the key
// itself and anything else is a value. The last registration for a key wins.
func (c *Container) Register(key string, concrete any) error {
	value, err := c.resolveConcrete(key, normalizeConcrete(concrete))
	if err != nil {
		return err
	}

	c.store(key, value)

	c.logger.Debug("binding registered",
		zap.String("key", key),
		zap.Bool("shared", c.IsShared(key)),
	)

	return nil
}

// Bind is the conventional entry point for Register. It leaves the shared
// flag of key untouched.
func (c *Container) Bind(key string, concrete any) error {
	return c.Register(key, concrete)
}

// Singleton marks key shared, then registers concrete. Make returns the
// cached instance of a shared key for as long as it is present. A failed
// registration leaves the flag as it was.
func (c *Container) Singleton(key string, concrete any) error {
	c.mu.Lock()
	wasShared := c.shared[key]
	c.shared[key] = true
	c.mu.Unlock()

	if err := c.Register(key, concrete); err != nil {
		if !wasShared {
			c.mu.Lock()
			delete(c.shared, key)
			c.mu.Unlock()
		}
		return err
	}

	return nil
}

// RegisterAndGet registers concrete and returns what key now resolves to.
func (c *Container) RegisterAndGet(key string, concrete any) (any, error) {
	if err := c.Register(key, concrete); err != nil {
		return nil, err
	}
	return c.Get(key)
}

// resolveConcrete turns a normalized concrete into the entry to store.
func (c *Container) resolveConcrete(key string, concrete Concrete) (any, error) {
	switch concrete.kind {
	case kindFactory:
		out, fnErr, err := c.invoke(newResolution(), concrete.callable, Args{})
		if err != nil {
			return nil, err
		}
		if fnErr != nil {
			return nil, NewConstructionError(key, fnErr)
		}
		return out, nil
	case kindRecipe:
		return c.resolve(newResolution(), key, concrete.args)
	case kindAlias:
		return aliasRef{target: concrete.target}, nil
	default:
		return concrete.value, nil
	}
}

// store writes an entry.
func (c *Container) store(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// entry reads an entry.
func (c *Container) entry(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// =============================================================================
// CLASSES
// =============================================================================

// Declare registers constructor as the way to build the type it returns,
// keyed by KeyOf that type. params name the constructor parameters in order.
//
// Example:
//
//	func NewUserService(repo *UserRepository, pageSize int) *UserService
//
//	c.Declare(NewUserService, cradle.Arg("repo"), cradle.Arg("pageSize", cradle.DefaultValue(20)))
func (c *Container) Declare(constructor any, params ...Param) error {
	return c.DeclareAs("", constructor, params...)
}

// DeclareAs is Declare under a custom class key. The class also answers for
// the key of its type unless that type is declared separately.
func (c *Container) DeclareAs(key string, constructor any, params ...Param) error {
	k, err := newClass(key, constructor, params)
	if err != nil {
		return err
	}

	c.classes.register(k)

	c.logger.Debug("class declared",
		zap.String("class", k.key),
		zap.Int("params", len(k.params())),
	)

	return nil
}

// =============================================================================
// QUERIES & EVICTION
// =============================================================================

// Has reports whether key has an entry.
func (c *Container) Has(key string) bool {
	_, ok := c.entry(key)
	return ok
}

// IsShared reports whether key was bound with Singleton or Scoped.
func (c *Container) IsShared(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.shared[key]
}

// Forget removes the entry of key. Flags and classes stay.
func (c *Container) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Flush clears every entry, shared flag and scoped key, leaving the container
// bound to itself as after New. Declared classes are kept.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = map[string]any{c.selfKey: c}
	c.shared = make(map[string]bool)
	c.scoped = nil
	c.scopedSet = make(map[string]struct{})

	c.logger.Debug("container flushed")
}

// Keys returns the keys with an entry, sorted.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return sortedKeys(c.entries)
}

// Classes returns the declared class keys, sorted.
func (c *Container) Classes() []string {
	return c.classes.keys()
}
