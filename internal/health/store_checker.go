package health

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/flowforge/internal/graph"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

// StoreChecker verifies the work item store is reachable.
type StoreChecker struct {
	items *repository.ItemRepository
}

// NewStoreChecker creates a checker for the given item repository.
func NewStoreChecker(items *repository.ItemRepository) *StoreChecker {
	return &StoreChecker{items: items}
}

func (c *StoreChecker) Name() string {
	return "item-store"
}

func (c *StoreChecker) Check(ctx context.Context) *Result {
	if c.items == nil {
		return Unhealthy("item store is not configured")
	}

	count, err := c.items.Count(ctx)
	if err != nil {
		return Unhealthy("item store is unreachable").
			WithDetail("error", err.Error())
	}
	return Healthy("item store is reachable").
		WithDetail("items", count)
}

// GraphChecker verifies the dependency graph is consistent with the
// item store: every edge endpoint must resolve to a known item.
type GraphChecker struct {
	graph *graph.Graph
	items *repository.ItemRepository
}

// NewGraphChecker creates a checker for the given graph and repository.
func NewGraphChecker(g *graph.Graph, items *repository.ItemRepository) *GraphChecker {
	return &GraphChecker{graph: g, items: items}
}

func (c *GraphChecker) Name() string {
	return "dependency-graph"
}

func (c *GraphChecker) Check(ctx context.Context) *Result {
	if c.graph == nil {
		return Unhealthy("dependency graph is not configured")
	}

	orphans := 0
	for _, id := range c.graph.Nodes() {
		if ctx.Err() != nil {
			return Unhealthy("graph check cancelled").
				WithDetail("error", ctx.Err().Error())
		}
		if _, err := c.items.Get(ctx, id); err != nil {
			orphans++
		}
	}

	result := Healthy("dependency graph is consistent")
	if orphans > 0 {
		result = Degraded(fmt.Sprintf("%d graph nodes reference unknown items", orphans))
	}
	return result.
		WithDetail("edges", c.graph.EdgeCount()).
		WithDetail("orphan_nodes", orphans)
}
