package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/queue"
	"github.com/felixgeelhaar/flowforge/internal/repository"
	"github.com/felixgeelhaar/flowforge/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive work item board",
	Long: `Open a terminal board showing work items grouped by workflow state,
with a priority-ordered queue view one keystroke away.

Navigate with the arrow keys or h/j/k/l, press tab to switch between
the board and the queue, and q to quit.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func makeCard(ws *repository.Workspace, item domain.WorkItem) tui.Card {
	points, _ := ws.Meta.Estimate(item.ID)
	return tui.Card{
		Item:   item,
		Urgent: ws.Meta.IsUrgent(item.ID),
		Points: points,
	}
}

func runBoard(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		items, err := ws.Items.List(ctx)
		if err != nil {
			return err
		}

		cards := make([]tui.Card, 0, len(items))
		for _, item := range items {
			cards = append(cards, makeCard(ws, item))
		}

		orderer := queue.New(ws.Meta, queue.NopNotifier{})
		ordered, err := orderer.Order(ctx, openItems(items))
		if err != nil {
			return err
		}
		queueCards := make([]tui.Card, 0, len(ordered))
		for _, item := range ordered {
			queueCards = append(queueCards, makeCard(ws, item))
		}

		program := tea.NewProgram(tui.NewModel(cards, queueCards), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("board error: %w", err)
		}
		return nil
	})
}
