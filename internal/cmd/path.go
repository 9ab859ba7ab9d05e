package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/path"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Critical-path and blocking analysis",
	Long: `Analyze the dependency graph: the priority-weighted critical path,
the items currently blocking others, and the blast radius of a delay.

Examples:
  # The longest prerequisite chain, weighted by priority at merge points
  flowforge path critical

  # The chain ending at a specific item
  flowforge path critical <item>

  # Items that hold up other work
  flowforge path blockers

  # Everything that slips if this item slips
  flowforge path impact <item>`,
}

var pathCriticalCmd = &cobra.Command{
	Use:   "critical [item]",
	Short: "Show the critical path",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPathCritical,
}

var pathBlockersCmd = &cobra.Command{
	Use:   "blockers",
	Short: "Show items blocking other work",
	Args:  cobra.NoArgs,
	RunE:  runPathBlockers,
}

var pathImpactCmd = &cobra.Command{
	Use:   "impact <item>",
	Short: "Show items delayed if this item slips",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathImpact,
}

func init() {
	pathCmd.AddCommand(pathCriticalCmd)
	pathCmd.AddCommand(pathBlockersCmd)
	pathCmd.AddCommand(pathImpactCmd)
	rootCmd.AddCommand(pathCmd)
}

func printChain(items []domain.WorkItem) {
	if len(items) == 0 {
		fmt.Println("No path: the dependency graph is empty")
		return
	}
	for i, item := range items {
		prefix := "   "
		if i > 0 {
			prefix = "-> "
		}
		fmt.Printf("%s%s  %s [%s/%s]\n", prefix, shortID(item.ID), item.Title, item.State, item.Priority)
	}
}

func runPathCritical(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		analyzer := path.New(ws.Graph, ws.Items)

		var chain []domain.WorkItem
		var err error
		if len(args) == 1 {
			var target domain.WorkItem
			target, err = resolveItem(ctx, ws, args[0])
			if err != nil {
				return err
			}
			chain, err = analyzer.CriticalPathTo(ctx, target.ID)
		} else {
			chain, err = analyzer.FindCriticalPath(ctx)
		}
		if err != nil {
			return err
		}
		printChain(chain)
		return nil
	})
}

func runPathBlockers(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		analyzer := path.New(ws.Graph, ws.Items)
		blockers, err := analyzer.FindBlockingItems(ctx)
		if err != nil {
			return err
		}
		if len(blockers) == 0 {
			fmt.Println("Nothing is blocking other work")
			return nil
		}
		for _, item := range blockers {
			reason := "root of a dependency chain"
			if item.Assignee == "" && item.Priority.Rank() >= domain.PriorityHigh.Rank() {
				reason = "unassigned " + string(item.Priority)
			}
			fmt.Printf("%s  %s [%s]  (%s)\n", shortID(item.ID), item.Title, item.State, reason)
		}
		return nil
	})
}

func runPathImpact(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		target, err := resolveItem(ctx, ws, args[0])
		if err != nil {
			return err
		}

		analyzer := path.New(ws.Graph, ws.Items)
		affected, err := analyzer.DelayImpact(ctx, target.ID)
		if err != nil {
			return err
		}
		if len(affected) == 0 {
			fmt.Printf("Nothing depends on %s\n", target.Title)
			return nil
		}
		fmt.Printf("Delaying %s delays %d item(s):\n", target.Title, len(affected))
		for _, item := range affected {
			fmt.Printf("  %s  %s [%s/%s]\n", shortID(item.ID), item.Title, item.State, item.Priority)
		}
		return nil
	})
}
