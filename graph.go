package cradle

import (
	"go.uber.org/multierr"
)

// DependencyGraph holds the keys each class asks for through its type
// hints.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // Preserve insertion order
}

type node struct {
	key          string
	dependencies []string
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node with its dependencies. Nodes are processed in the
// order they are added when no dependencies order them.
func (g *DependencyGraph) AddNode(key string, dependencies []string) {
	if _, ok := g.nodes[key]; !ok {
		g.order = append(g.order, key)
	}
	g.nodes[key] = &node{
		key:          key,
		dependencies: dependencies,
	}
}

// GetDependencies returns the dependency keys of a node.
func (g *DependencyGraph) GetDependencies(key string) []string {
	if node, ok := g.nodes[key]; ok {
		return node.dependencies
	}

	return nil
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(key string) bool {
	_, ok := g.nodes[key]

	return ok
}

// TopologicalSort returns nodes in dependency order, dependencies first.
// Returns a CIRCULAR_DEPENDENCY error carrying the cycle if one exists.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	for _, key := range g.order {
		if err := g.visit(key, visited, visiting, nil, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Cycles returns every cycle reachable in the graph, each as the chain of
// keys that closes it.
func (g *DependencyGraph) Cycles() [][]string {
	visited := make(map[string]bool)
	var cycles [][]string

	var walk func(key string, path []string)
	walk = func(key string, path []string) {
		for i, k := range path {
			if k == key {
				cycles = append(cycles, append(append([]string{}, path[i:]...), key))
				return
			}
		}
		if visited[key] {
			return
		}

		node := g.nodes[key]
		if node == nil {
			return
		}

		path = append(path, key)
		for _, dep := range node.dependencies {
			walk(dep, path)
		}
		visited[key] = true
	}

	for _, key := range g.order {
		walk(key, nil)
	}

	return cycles
}

// visit performs DFS traversal.
func (g *DependencyGraph) visit(key string, visited, visiting map[string]bool, path []string, result *[]string) error {
	if visited[key] {
		return nil
	}

	if visiting[key] {
		for i, k := range path {
			if k == key {
				return ErrCircularDependency(append(append([]string{}, path[i:]...), key))
			}
		}
		return ErrCircularDependency([]string{key, key})
	}

	node := g.nodes[key]
	if node == nil {
		// not a class; bound values and aliases are leaves
		return nil
	}

	visiting[key] = true
	path = append(path, key)

	for _, dep := range node.dependencies {
		if err := g.visit(dep, visited, visiting, path, result); err != nil {
			return err
		}
	}

	visiting[key] = false
	visited[key] = true
	*result = append(*result, key)

	return nil
}

// Graph builds the dependency graph of the declared classes. Class keys are
// added in sorted order; each depends on the hint keys of its parameters.
// A class answering for several keys appears once per key.
func (c *Container) Graph() *DependencyGraph {
	g := NewDependencyGraph()

	for _, key := range c.classes.keys() {
		k, ok := c.classes.get(key)
		if !ok {
			continue
		}

		var deps []string
		for _, p := range k.params() {
			if p.kind == paramHinted {
				deps = append(deps, p.hint)
			}
		}
		g.AddNode(key, deps)
	}

	return g
}

// DependencyOrder returns the declared class keys, dependencies first.
func (c *Container) DependencyOrder() ([]string, error) {
	return c.Graph().TopologicalSort()
}

// Validate checks the declared classes without constructing anything. It
// reports every cycle among them and every hinted parameter without a
// default whose key is neither bound nor constructible.
func (c *Container) Validate() error {
	var err error

	for _, cycle := range c.Graph().Cycles() {
		err = multierr.Append(err, ErrCircularDependency(cycle))
	}

	seen := make(map[*class]bool)
	for _, k := range c.classes.snapshot() {
		if seen[k] {
			continue
		}
		seen[k] = true

		for _, p := range k.params() {
			if p.kind != paramHinted || p.hasDefault {
				continue
			}
			if !c.resolvable(p.hint, p.typ) {
				err = multierr.Append(err, ErrBindingResolution(k.key, p.label(), ErrClassNotFound(p.hint)))
			}
		}
	}

	return err
}
