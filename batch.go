package cradle

// Pair is one key and concrete for batch registration.
type Pair struct {
	Key      string
	Concrete any
}

// Bound creates a Pair. This is a convenience for building batches inline.
//
// Example:
//
//	c.RegisterMany(
//	    cradle.Bound("dsn", cradle.Value("postgres://localhost/app")),
//	    cradle.Bound("db", cradle.Alias(cradle.TypeKey[*Database]())),
//	)
func Bound(key string, concrete any) Pair {
	return Pair{Key: key, Concrete: concrete}
}

// RegisterMany registers each pair in order and stops at the first error.
// Pairs registered before the failure stay registered.
func (c *Container) RegisterMany(pairs ...Pair) error {
	for _, p := range pairs {
		if err := c.Register(p.Key, p.Concrete); err != nil {
			return err
		}
	}
	return nil
}

// SingletonMany is RegisterMany with every key marked shared.
func (c *Container) SingletonMany(pairs ...Pair) error {
	for _, p := range pairs {
		if err := c.Singleton(p.Key, p.Concrete); err != nil {
			return err
		}
	}
	return nil
}

// ScopedMany is RegisterMany with every key marked scoped.
func (c *Container) ScopedMany(pairs ...Pair) error {
	for _, p := range pairs {
		if err := c.Scoped(p.Key, p.Concrete); err != nil {
			return err
		}
	}
	return nil
}

// RegisterValues registers each map entry as a Value, in key order.
func (c *Container) RegisterValues(values map[string]any) error {
	for _, key := range sortedKeys(values) {
		if err := c.Register(key, Value(values[key])); err != nil {
			return err
		}
	}
	return nil
}
