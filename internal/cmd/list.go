package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List work items",
	Long: `List work items in creation order.

Examples:
  # Everything
  flowforge list

  # Only items in progress
  flowforge list --state IN_PROGRESS`,
	RunE: runList,
}

var listState string

func init() {
	listCmd.Flags().StringVar(&listState, "state", "", "Filter by workflow state")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		if listState != "" {
			if err := domain.State(listState).Validate(); err != nil {
				return err
			}
		}

		items, err := ws.Items.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTATE\tPRIORITY\tASSIGNEE")
		shown := 0
		for _, item := range items {
			if listState != "" && item.State != domain.State(listState) {
				continue
			}
			assignee := item.Assignee
			if assignee == "" {
				assignee = "-"
			}
			title := item.Title
			if ws.Meta.IsUrgent(item.ID) {
				title = "! " + title
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				shortID(item.ID), title, item.Type, item.State, item.Priority, assignee)
			shown++
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d item(s)\n", shown)
		return nil
	})
}

// shortID abbreviates an item ID for table output.
func shortID(id domain.ItemID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
