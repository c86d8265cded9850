package cradle

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Disposable is implemented by instances that hold resources. Evicted
// scoped instances and, on Shutdown, every stored instance are disposed.
type Disposable interface {
	Dispose() error
}

// Scoped marks key shared and scoped, then registers concrete. Scoped keys
// keep their cached instance until ForgetScoped.
// A failed registration leaves the flags of key as they were.
func (c *Container) Scoped(key string, concrete any) error {
	c.mu.Lock()
	_, existed := c.scopedSet[key]
	if !existed {
		c.scopedSet[key] = struct{}{}
		c.scoped = append(c.scoped, key)
	}
	c.mu.Unlock()

	if err := c.Singleton(key, concrete); err != nil {
		if !existed {
			c.unscope(key)
		}
		return err
	}

	return nil
}

func (c *Container) unscope(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.scopedSet, key)
	for i, k := range c.scoped {
		if k == key {
			c.scoped = append(c.scoped[:i:i], c.scoped[i+1:]...)
			break
		}
	}
}

// IsScoped reports whether key was bound with Scoped.
func (c *Container) IsScoped(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.scopedSet[key]
	return ok
}

// ScopedKeys returns the scoped keys in the order they were first bound.
func (c *Container) ScopedKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.scoped...)
}

// ForgetScoped evicts the cached instances of all scoped keys. Shared and
// scoped flags stay, so the next resolution builds and caches a new
// instance. Evicted instances implementing Disposable are disposed; their
// errors are combined.
func (c *Container) ForgetScoped() error {
	c.mu.Lock()
	evicted := make([]any, 0, len(c.scoped))
	keys := make([]string, 0, len(c.scoped))
	for _, key := range c.scoped {
		v, ok := c.entries[key]
		if !ok {
			continue
		}
		// an alias is the binding itself, not a cached instance
		if _, isAlias := v.(aliasRef); isAlias {
			continue
		}
		evicted = append(evicted, v)
		keys = append(keys, key)
		delete(c.entries, key)
	}
	c.mu.Unlock()

	var err error
	for i, v := range evicted {
		err = multierr.Append(err, dispose(keys[i], v))
	}

	c.logger.Debug("scoped instances forgotten", zap.Strings("keys", keys))

	return err
}

// Shutdown disposes every stored Disposable once, then flushes the
// container. The container itself is skipped.
func (c *Container) Shutdown() error {
	keys := c.Keys()

	seen := make(map[uintptr]struct{})

	var err error
	for _, key := range keys {
		if key == c.selfKey {
			continue
		}

		v, ok := c.entry(key)
		if !ok {
			continue
		}
		if _, isAlias := v.(aliasRef); isAlias {
			continue
		}

		if ptr, ok := identity(v); ok {
			if _, done := seen[ptr]; done {
				continue
			}
			seen[ptr] = struct{}{}
		}

		err = multierr.Append(err, dispose(key, v))
	}

	c.Flush()

	c.logger.Debug("container shut down", zap.Int("entries", len(keys)))

	return err
}

// identity returns the address behind reference-like values. Other values
// have no identity and are disposed once per key.
func identity(v any) (uintptr, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}

func dispose(key string, v any) error {
	d, ok := v.(Disposable)
	if !ok {
		return nil
	}
	if err := d.Dispose(); err != nil {
		return fmt.Errorf("dispose %s: %w", key, err)
	}
	return nil
}
