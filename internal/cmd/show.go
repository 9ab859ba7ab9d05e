package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/repository"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

var showCmd = &cobra.Command{
	Use:   "show <item>",
	Short: "Show a work item",
	Long: `Show a work item's fields, legal next states, dependencies, and
transition history. The item may be given as a full ID or a unique
prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		item, err := resolveItem(ctx, ws, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:          %s\n", item.ID)
		fmt.Printf("Title:       %s\n", item.Title)
		if item.Description != "" {
			fmt.Printf("Description: %s\n", item.Description)
		}
		fmt.Printf("Type:        %s\n", item.Type)
		fmt.Printf("State:       %s\n", item.State)
		fmt.Printf("Priority:    %s\n", item.Priority)
		if item.Assignee != "" {
			fmt.Printf("Assignee:    %s\n", item.Assignee)
		}
		if ws.Meta.IsUrgent(item.ID) {
			fmt.Printf("Urgent:      yes\n")
		}
		if points, ok := ws.Meta.Estimate(item.ID); ok {
			fmt.Printf("Points:      %d\n", points)
		}
		fmt.Printf("Created:     %s\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated:     %s\n", item.UpdatedAt.Format("2006-01-02 15:04:05"))

		targets := workflow.AvailableTransitions(item.State)
		if len(targets) > 0 {
			names := make([]string, 0, len(targets))
			for _, t := range targets {
				names = append(names, string(t))
			}
			fmt.Printf("Next:        %s\n", strings.Join(names, ", "))
		}

		if prereqs := ws.Graph.DirectPrerequisites(item.ID); len(prereqs) > 0 {
			fmt.Println("\nDepends on:")
			for _, id := range prereqs {
				printNeighbour(ctx, ws, id)
			}
		}
		if deps := ws.Graph.DirectDependents(item.ID); len(deps) > 0 {
			fmt.Println("\nBlocks:")
			for _, id := range deps {
				printNeighbour(ctx, ws, id)
			}
		}

		if records := ws.History.ForItem(item.ID); len(records) > 0 {
			fmt.Println("\nHistory:")
			for _, rec := range records {
				line := fmt.Sprintf("  %s  %s -> %s",
					rec.Event.At.Format("2006-01-02 15:04:05"), rec.Event.From, rec.Event.To)
				if rec.Event.Actor != "" {
					line += "  by " + rec.Event.Actor
				}
				if rec.Event.Comment != "" {
					line += fmt.Sprintf("  (%s)", rec.Event.Comment)
				}
				fmt.Println(line)
			}
		}
		return nil
	})
}

func printNeighbour(ctx context.Context, ws *repository.Workspace, id domain.ItemID) {
	item, err := ws.Items.Get(ctx, id)
	if err != nil {
		fmt.Printf("  %s  (unknown)\n", shortID(id))
		return
	}
	fmt.Printf("  %s  %s [%s]\n", shortID(id), item.Title, item.State)
}
