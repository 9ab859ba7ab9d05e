// Package path analyzes the dependency graph: blocking items, the
// priority-weighted critical path, and dependency impact queries.
//
// The analyzer owns no item data. Every query reads snapshots through
// the accessor for the duration of the call and discards them; results
// are fresh value slices, never persisted.
package path

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/graph"
)

// ItemAccessor provides read-only work item snapshots by ID.
type ItemAccessor interface {
	Get(ctx context.Context, id domain.ItemID) (domain.WorkItem, error)
}

// Analyzer answers blocking and critical-path queries over a dependency
// graph plus an item accessor.
type Analyzer struct {
	graph *graph.Graph
	items ItemAccessor
}

// New creates an Analyzer over the given graph and accessor.
func New(g *graph.Graph, items ItemAccessor) *Analyzer {
	return &Analyzer{graph: g, items: items}
}

// FindBlockingItems returns the items whose incompletion or lack of
// ownership threatens dependent work. An item qualifies when it has at
// least one direct dependent and either is a root (no prerequisites of
// its own) or is unassigned at HIGH or CRITICAL priority. Order follows
// prerequisite discovery order in the graph.
func (a *Analyzer) FindBlockingItems(ctx context.Context) ([]domain.WorkItem, error) {
	var blocking []domain.WorkItem
	for _, id := range a.graph.Prerequisites() {
		if len(a.graph.DirectDependents(id)) == 0 {
			continue
		}
		item, err := a.items.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("look up prerequisite %s: %w", id, err)
		}

		isRoot := len(a.graph.DirectPrerequisites(id)) == 0
		urgentUnowned := !item.IsAssigned() && item.Priority.Rank() >= domain.PriorityHigh.Rank()
		if isRoot || urgentUnowned {
			blocking = append(blocking, item)
		}
	}
	return blocking, nil
}

// FindCriticalPath returns the single longest root-to-terminal chain of
// dependent items. Chain length decides; at merge points the predecessor
// with the higher priority rank wins, first-discovered on exact ties.
// Among full chains of equal length the one with the greater cumulative
// priority rank is returned. An empty graph yields an empty slice.
func (a *Analyzer) FindCriticalPath(ctx context.Context) ([]domain.WorkItem, error) {
	w, err := a.walk(ctx)
	if err != nil {
		return nil, err
	}
	if len(w.order) == 0 {
		return []domain.WorkItem{}, nil
	}

	// Pick the best terminal: longest chain first, cumulative priority
	// rank across ties, discovery order on exact ties.
	var (
		best     domain.ItemID
		bestDist = -1
		bestRank = -1
	)
	for _, id := range w.order {
		if len(a.graph.DirectDependents(id)) > 0 {
			continue
		}
		dist, ok := w.dist[id]
		if !ok {
			continue
		}
		rank := w.chainRank(id)
		if dist > bestDist || (dist == bestDist && rank > bestRank) {
			best, bestDist, bestRank = id, dist, rank
		}
	}
	if bestDist < 0 {
		return []domain.WorkItem{}, nil
	}
	return w.chain(best), nil
}

// CriticalPathTo returns the longest chain from any root to the given
// item. An item outside the graph yields an empty slice.
func (a *Analyzer) CriticalPathTo(ctx context.Context, id domain.ItemID) ([]domain.WorkItem, error) {
	w, err := a.walk(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := w.dist[id]; !ok {
		return []domain.WorkItem{}, nil
	}
	return w.chain(id), nil
}

// FindItemsDependingOn returns snapshots for the direct dependents of
// the given item. Never the transitive closure.
func (a *Analyzer) FindItemsDependingOn(ctx context.Context, id domain.ItemID) ([]domain.WorkItem, error) {
	var items []domain.WorkItem
	for _, depID := range a.graph.DirectDependents(id) {
		item, err := a.items.Get(ctx, depID)
		if err != nil {
			return nil, fmt.Errorf("look up dependent %s: %w", depID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// DelayImpact returns every item downstream of the given one, direct and
// transitive, in breadth-first discovery order. A delay to the input
// item potentially delays each of them.
func (a *Analyzer) DelayImpact(ctx context.Context, id domain.ItemID) ([]domain.WorkItem, error) {
	visited := map[domain.ItemID]bool{id: true}
	queue := a.graph.DirectDependents(id)

	var impacted []domain.WorkItem
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		item, err := a.items.Get(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("look up dependent %s: %w", cur, err)
		}
		impacted = append(impacted, item)
		queue = append(queue, a.graph.DirectDependents(cur)...)
	}
	return impacted, nil
}

// pathWalk holds the per-call state of the longest-path computation:
// topological order, chain lengths, chosen predecessors, and the
// snapshots read for this call.
type pathWalk struct {
	order []domain.ItemID
	dist  map[domain.ItemID]int
	pred  map[domain.ItemID]domain.ItemID
	items map[domain.ItemID]domain.WorkItem
}

// walk computes longest chain lengths from the roots over dependent
// edges, processing nodes in topological order. At a merge point an
// equal-length candidate replaces the incumbent predecessor only when
// its priority rank is strictly higher.
func (a *Analyzer) walk(ctx context.Context) (*pathWalk, error) {
	nodes := a.graph.Nodes()
	w := &pathWalk{
		dist:  make(map[domain.ItemID]int, len(nodes)),
		pred:  make(map[domain.ItemID]domain.ItemID, len(nodes)),
		items: make(map[domain.ItemID]domain.WorkItem, len(nodes)),
	}
	if len(nodes) == 0 {
		return w, nil
	}

	for _, id := range nodes {
		item, err := a.items.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("look up item %s: %w", id, err)
		}
		w.items[id] = item
	}

	w.order = a.topoOrder(nodes)

	for _, id := range w.order {
		if len(a.graph.DirectPrerequisites(id)) == 0 {
			w.dist[id] = 1
		}
	}
	for _, id := range w.order {
		dist, ok := w.dist[id]
		if !ok {
			continue
		}
		for _, dep := range a.graph.DirectDependents(id) {
			next := dist + 1
			cur, seen := w.dist[dep]
			switch {
			case !seen || next > cur:
				w.dist[dep] = next
				w.pred[dep] = id
			case next == cur:
				incumbent := w.items[w.pred[dep]]
				if w.items[id].Priority.Rank() > incumbent.Priority.Rank() {
					w.pred[dep] = id
				}
			}
		}
	}
	return w, nil
}

// topoOrder returns the nodes in dependency order: every prerequisite
// before each of its dependents.
func (a *Analyzer) topoOrder(nodes []domain.ItemID) []domain.ItemID {
	visited := make(map[domain.ItemID]bool, len(nodes))
	order := make([]domain.ItemID, 0, len(nodes))

	var visit func(id domain.ItemID)
	visit = func(id domain.ItemID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, prereq := range a.graph.DirectPrerequisites(id) {
			visit(prereq)
		}
		order = append(order, id)
	}
	for _, id := range nodes {
		visit(id)
	}
	return order
}

// chain reconstructs the root-to-end chain for the given terminal.
func (w *pathWalk) chain(end domain.ItemID) []domain.WorkItem {
	var rev []domain.ItemID
	cur, ok := end, true
	for ok {
		rev = append(rev, cur)
		cur, ok = w.pred[cur]
	}

	items := make([]domain.WorkItem, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		items = append(items, w.items[rev[i]])
	}
	return items
}

// chainRank sums the priority ranks along the chain ending at id.
func (w *pathWalk) chainRank(end domain.ItemID) int {
	rank := 0
	cur, ok := end, true
	for ok {
		rank += w.items[cur].Priority.Rank()
		cur, ok = w.pred[cur]
	}
	return rank
}
