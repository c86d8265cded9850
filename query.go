package cradle

import (
	"fmt"
	"sort"
	"strings"
)

// BindingInfo is diagnostic information about a key.
type BindingInfo struct {
	Key string

	// Lifecycle is "scoped", "singleton" or "transient".
	Lifecycle string

	Shared bool
	Scoped bool

	// Resolved reports whether the key has an entry.
	Resolved bool

	// Alias is the key an alias entry points to, empty otherwise.
	Alias string

	// Type is the dynamic type of the entry, empty when there is none.
	Type string

	// Class reports whether a class is declared for the key.
	Class bool

	// Dependencies are the hint keys of the class parameters.
	Dependencies []string
}

// Inspect returns diagnostic information about key. It never resolves.
func (c *Container) Inspect(key string) BindingInfo {
	c.mu.RLock()
	v, resolved := c.entries[key]
	shared := c.shared[key]
	_, scoped := c.scopedSet[key]
	c.mu.RUnlock()

	info := BindingInfo{
		Key:       key,
		Lifecycle: "transient",
		Shared:    shared,
		Scoped:    scoped,
		Resolved:  resolved,
	}

	if scoped {
		info.Lifecycle = "scoped"
	} else if shared {
		info.Lifecycle = "singleton"
	}

	if resolved {
		if ref, ok := v.(aliasRef); ok {
			info.Alias = ref.target
		} else {
			info.Type = fmt.Sprintf("%T", v)
		}
	}

	if k, ok := c.classes.get(key); ok {
		info.Class = true
		for _, p := range k.params() {
			if p.kind == paramHinted {
				info.Dependencies = append(info.Dependencies, p.hint)
			}
		}
	}

	return info
}

// BindingQuery defines criteria for querying bindings. Zero fields match
// everything.
type BindingQuery struct {
	// Lifecycle filters by "scoped", "singleton" or "transient".
	Lifecycle string

	// Prefix filters by key prefix.
	Prefix string

	// Resolved filters by whether the key has an entry.
	Resolved *bool

	// Alias filters by whether the entry is an alias.
	Alias *bool
}

// Query returns information about every known key matching query, sorted by
// key. Known keys are those with an entry or a shared flag.
//
// Example:
//
//	// evicted scoped keys
//	resolved := false
//	infos := c.Query(cradle.BindingQuery{Lifecycle: "scoped", Resolved: &resolved})
func (c *Container) Query(query BindingQuery) []BindingInfo {
	var results []BindingInfo

	for _, key := range c.knownKeys() {
		if query.Prefix != "" && !strings.HasPrefix(key, query.Prefix) {
			continue
		}

		info := c.Inspect(key)

		if query.Lifecycle != "" && info.Lifecycle != query.Lifecycle {
			continue
		}

		if query.Resolved != nil && info.Resolved != *query.Resolved {
			continue
		}

		if query.Alias != nil && (info.Alias != "") != *query.Alias {
			continue
		}

		results = append(results, info)
	}

	return results
}

// QueryKeys returns the keys matching query.
// This is more efficient than Query when you only need keys.
func (c *Container) QueryKeys(query BindingQuery) []string {
	results := c.Query(query)
	keys := make([]string, len(results))
	for i, info := range results {
		keys[i] = info.Key
	}
	return keys
}

// FindShared returns all keys bound with Singleton, scoped keys excluded.
func (c *Container) FindShared() []BindingInfo {
	return c.Query(BindingQuery{Lifecycle: "singleton"})
}

// FindScoped returns all keys bound with Scoped.
func (c *Container) FindScoped() []BindingInfo {
	return c.Query(BindingQuery{Lifecycle: "scoped"})
}

// FindAliases returns all alias entries.
func (c *Container) FindAliases() []BindingInfo {
	alias := true
	return c.Query(BindingQuery{Alias: &alias})
}

func (c *Container) knownKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := make(map[string]struct{}, len(c.entries)+len(c.shared))
	for key := range c.entries {
		set[key] = struct{}{}
	}
	for key := range c.shared {
		set[key] = struct{}{}
	}

	return sortedKeys(set)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
