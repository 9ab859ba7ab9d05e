package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/repository"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependencies between work items",
	Long: `Manage the dependency graph. An edge means the dependent item
cannot be considered complete before its prerequisite.

Edges that would close a cycle are rejected.

Examples:
  # api-item depends on schema-item
  flowforge dep add <api-item> <schema-item>

  # Remove it again
  flowforge dep rm <api-item> <schema-item>

  # All edges
  flowforge dep list`,
}

var depAddCmd = &cobra.Command{
	Use:   "add <dependent> <prerequisite>",
	Short: "Add a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE:  runDepAdd,
}

var depRmCmd = &cobra.Command{
	Use:   "rm <dependent> <prerequisite>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE:  runDepRm,
}

var depListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all dependency edges",
	Args:  cobra.NoArgs,
	RunE:  runDepList,
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	depCmd.AddCommand(depListCmd)
	rootCmd.AddCommand(depCmd)
}

func runDepAdd(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, true, func(ctx context.Context, ws *repository.Workspace) error {
		dependent, err := resolveItem(ctx, ws, args[0])
		if err != nil {
			return err
		}
		prerequisite, err := resolveItem(ctx, ws, args[1])
		if err != nil {
			return err
		}

		if err := ws.Graph.AddDependency(dependent.ID, prerequisite.ID); err != nil {
			return err
		}
		fmt.Printf("%s now depends on %s\n", dependent.Title, prerequisite.Title)
		return nil
	})
}

func runDepRm(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, true, func(ctx context.Context, ws *repository.Workspace) error {
		dependent, err := resolveItem(ctx, ws, args[0])
		if err != nil {
			return err
		}
		prerequisite, err := resolveItem(ctx, ws, args[1])
		if err != nil {
			return err
		}

		if err := ws.Graph.RemoveDependency(dependent.ID, prerequisite.ID); err != nil {
			return err
		}
		fmt.Printf("%s no longer depends on %s\n", dependent.Title, prerequisite.Title)
		return nil
	})
}

func runDepList(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		edges := ws.Graph.Edges()
		if len(edges) == 0 {
			fmt.Println("No dependencies")
			return nil
		}
		for _, edge := range edges {
			dependent, derr := ws.Items.Get(ctx, edge.Dependent)
			prerequisite, perr := ws.Items.Get(ctx, edge.Prerequisite)
			if derr != nil || perr != nil {
				fmt.Printf("%s -> %s\n", shortID(edge.Dependent), shortID(edge.Prerequisite))
				continue
			}
			fmt.Printf("%s (%s) -> %s (%s)\n",
				dependent.Title, shortID(edge.Dependent),
				prerequisite.Title, shortID(edge.Prerequisite))
		}
		return nil
	})
}
