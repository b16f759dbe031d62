package etp

import (
	"sort"
	"sync"
)

// ReactiveGraph manages reactive dependency relationships with safe traversal
type ReactiveGraph struct {
	// Adjacency lists in both directions
	downstream map[AnyCell][]AnyCell
	upstream   map[AnyCell][]AnyCell
	mu         sync.RWMutex
}

// NewReactiveGraph creates a new reactive dependency graph
func NewReactiveGraph() *ReactiveGraph {
	return &ReactiveGraph{
		downstream: make(map[AnyCell][]AnyCell),
		upstream:   make(map[AnyCell][]AnyCell),
	}
}

// AddDependency adds a reactive dependency relationship
func (g *ReactiveGraph) AddDependency(dependent AnyCell, dependency AnyCell) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.downstream[dependency] = appendUnique(g.downstream[dependency], dependent)
	g.upstream[dependent] = appendUnique(g.upstream[dependent], dependency)
}

// RemoveDependency removes a reactive dependency relationship
func (g *ReactiveGraph) RemoveDependency(dependent AnyCell, dependency AnyCell) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.downstream[dependency] = removeElement(g.downstream[dependency], dependent)
	if len(g.downstream[dependency]) == 0 {
		delete(g.downstream, dependency)
	}

	g.upstream[dependent] = removeElement(g.upstream[dependent], dependency)
	if len(g.upstream[dependent]) == 0 {
		delete(g.upstream, dependent)
	}
}

// FindDependents performs iterative traversal to find all transitive reactive dependents
func (g *ReactiveGraph) FindDependents(start AnyCell) []AnyCell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stack := make([]AnyCell, 0, 32)
	stack = append(stack, start)

	dependents := make([]AnyCell, 0, 32)
	visited := make(map[AnyCell]bool, 32)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		if current != start {
			dependents = append(dependents, current)
		}

		for _, dep := range g.downstream[current] {
			if !visited[dep] {
				stack = append(stack, dep)
			}
		}
	}

	return dependents
}

// GetDirectDependents returns only direct dependents (no recursion)
func (g *ReactiveGraph) GetDirectDependents(cell AnyCell) []AnyCell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if deps, exists := g.downstream[cell]; exists {
		result := make([]AnyCell, len(deps))
		copy(result, deps)
		return result
	}
	return nil
}

// GetDirectUpstreams returns the reactive dependencies of a cell
func (g *ReactiveGraph) GetDirectUpstreams(cell AnyCell) []AnyCell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if ups, exists := g.upstream[cell]; exists {
		result := make([]AnyCell, len(ups))
		copy(result, ups)
		return result
	}
	return nil
}

// TopoOrder sorts cells so that every cell comes after the upstreams it has
// within the set. Ties go to the cell defined first. Cells caught in a cycle
// are appended last in definition order.
func (g *ReactiveGraph) TopoOrder(cells []AnyCell) []AnyCell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	inSet := make(map[AnyCell]bool, len(cells))
	for _, c := range cells {
		inSet[c] = true
	}

	indegree := make(map[AnyCell]int, len(cells))
	for _, c := range cells {
		for _, up := range g.upstream[c] {
			if inSet[up] {
				indegree[c]++
			}
		}
	}

	ready := make([]AnyCell, 0, len(cells))
	for _, c := range cells {
		if indegree[c] == 0 {
			ready = append(ready, c)
		}
	}

	order := make([]AnyCell, 0, len(cells))
	placed := make(map[AnyCell]bool, len(cells))
	for len(ready) > 0 {
		sortByID(ready)
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)
		placed[current] = true

		for _, down := range g.downstream[current] {
			if !inSet[down] {
				continue
			}
			indegree[down]--
			if indegree[down] == 0 {
				ready = append(ready, down)
			}
		}
	}

	if len(order) < len(cells) {
		rest := make([]AnyCell, 0, len(cells)-len(order))
		for _, c := range cells {
			if !placed[c] {
				rest = append(rest, c)
			}
		}
		sortByID(rest)
		order = append(order, rest...)
	}

	return order
}

// Snapshot returns a copy of the downstream adjacency lists
func (g *ReactiveGraph) Snapshot() map[AnyCell][]AnyCell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[AnyCell][]AnyCell, len(g.downstream))
	for k, v := range g.downstream {
		cp := make([]AnyCell, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

func sortByID(cells []AnyCell) {
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].ID() < cells[j].ID()
	})
}

func appendUnique[T comparable](slice []T, item T) []T {
	for _, existing := range slice {
		if existing == item {
			return slice
		}
	}
	return append(slice, item)
}

func removeElement[T comparable](slice []T, item T) []T {
	for i, existing := range slice {
		if existing == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
