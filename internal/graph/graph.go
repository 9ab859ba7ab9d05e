// Package graph maintains the directed dependency graph between work
// items. An edge (dependent, prerequisite) means the dependent cannot be
// considered complete before the prerequisite.
//
// The graph holds identifiers only; item content is always read through
// an accessor at query time. Adjacency is kept in both directions so
// dependents and prerequisites are each retrievable without a full scan.
package graph

import (
	"sync"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// Graph is an in-memory dependency graph. All methods are safe for
// concurrent use: mutations take the write lock, queries the read lock.
type Graph struct {
	mu sync.RWMutex

	// prerequisites maps dependent -> prerequisite IDs in registration order.
	prerequisites map[domain.ItemID][]domain.ItemID

	// dependents maps prerequisite -> dependent IDs in registration order.
	dependents map[domain.ItemID][]domain.ItemID

	// prereqOrder records each ID the first time it appears as a
	// prerequisite. Blocking-item discovery iterates this order.
	prereqOrder []domain.ItemID
	seenPrereq  map[domain.ItemID]bool

	// nodeOrder records each ID the first time it appears at all.
	nodeOrder []domain.ItemID
	known     map[domain.ItemID]bool
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		prerequisites: make(map[domain.ItemID][]domain.ItemID),
		dependents:    make(map[domain.ItemID][]domain.ItemID),
		known:         make(map[domain.ItemID]bool),
		seenPrereq:    make(map[domain.ItemID]bool),
	}
}

// AddDependency registers the edge (dependent, prerequisite). Duplicate
// edges are idempotent. Self-edges return *SelfDependencyError. An edge
// whose reverse path already exists returns *CycleError: if the
// prerequisite already depends on the dependent, directly or
// transitively, the new edge would close a cycle.
func (g *Graph) AddDependency(dependent, prerequisite domain.ItemID) error {
	if dependent == prerequisite {
		return &SelfDependencyError{ID: dependent}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasEdgeLocked(dependent, prerequisite) {
		return nil
	}
	if g.reachableLocked(prerequisite, dependent) {
		return &CycleError{Dependent: dependent, Prerequisite: prerequisite}
	}

	g.trackNodeLocked(dependent)
	g.trackNodeLocked(prerequisite)
	if !g.seenPrereq[prerequisite] {
		g.seenPrereq[prerequisite] = true
		g.prereqOrder = append(g.prereqOrder, prerequisite)
	}
	g.prerequisites[dependent] = append(g.prerequisites[dependent], prerequisite)
	g.dependents[prerequisite] = append(g.dependents[prerequisite], dependent)
	return nil
}

// RemoveDependency removes the edge (dependent, prerequisite). Removing
// an absent edge returns *EdgeNotFoundError.
func (g *Graph) RemoveDependency(dependent, prerequisite domain.ItemID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasEdgeLocked(dependent, prerequisite) {
		return &EdgeNotFoundError{Dependent: dependent, Prerequisite: prerequisite}
	}

	g.prerequisites[dependent] = remove(g.prerequisites[dependent], prerequisite)
	if len(g.prerequisites[dependent]) == 0 {
		delete(g.prerequisites, dependent)
	}
	g.dependents[prerequisite] = remove(g.dependents[prerequisite], dependent)
	if len(g.dependents[prerequisite]) == 0 {
		delete(g.dependents, prerequisite)
	}
	return nil
}

// DirectDependents returns the IDs with a direct edge onto the given
// prerequisite, in registration order. Never the transitive closure.
func (g *Graph) DirectDependents(id domain.ItemID) []domain.ItemID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return clone(g.dependents[id])
}

// DirectPrerequisites returns the IDs the given item directly depends
// on, in registration order.
func (g *Graph) DirectPrerequisites(id domain.ItemID) []domain.ItemID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return clone(g.prerequisites[id])
}

// HasDependency reports whether the edge (dependent, prerequisite) exists.
func (g *Graph) HasDependency(dependent, prerequisite domain.ItemID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasEdgeLocked(dependent, prerequisite)
}

// Prerequisites returns every ID referenced as a prerequisite, in
// first-registration order.
func (g *Graph) Prerequisites() []domain.ItemID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.ItemID, 0, len(g.dependents))
	for _, id := range g.prereqOrder {
		if len(g.dependents[id]) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// Nodes returns every ID that participates in at least one edge, in
// first-registration order.
func (g *Graph) Nodes() []domain.ItemID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.ItemID, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		if len(g.prerequisites[id]) > 0 || len(g.dependents[id]) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// Edge is one (dependent, prerequisite) pair.
type Edge struct {
	Dependent    domain.ItemID
	Prerequisite domain.ItemID
}

// Edges returns every edge in stable order: dependents in
// first-registration order, each one's prerequisites in registration
// order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Edge
	for _, dependent := range g.nodeOrder {
		for _, prerequisite := range g.prerequisites[dependent] {
			out = append(out, Edge{Dependent: dependent, Prerequisite: prerequisite})
		}
	}
	return out
}

// EdgeCount returns the number of registered edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := 0
	for _, prereqs := range g.prerequisites {
		n += len(prereqs)
	}
	return n
}

func (g *Graph) hasEdgeLocked(dependent, prerequisite domain.ItemID) bool {
	for _, p := range g.prerequisites[dependent] {
		if p == prerequisite {
			return true
		}
	}
	return false
}

// reachableLocked walks prerequisite edges from start and reports
// whether target is reachable.
func (g *Graph) reachableLocked(start, target domain.ItemID) bool {
	if start == target {
		return true
	}
	visited := map[domain.ItemID]bool{start: true}
	stack := []domain.ItemID{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.prerequisites[cur] {
			if next == target {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

func (g *Graph) trackNodeLocked(id domain.ItemID) {
	if !g.known[id] {
		g.known[id] = true
		g.nodeOrder = append(g.nodeOrder, id)
	}
}

func remove(ids []domain.ItemID, id domain.ItemID) []domain.ItemID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func clone(ids []domain.ItemID) []domain.ItemID {
	out := make([]domain.ItemID, len(ids))
	copy(out, ids)
	return out
}
