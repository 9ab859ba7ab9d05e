package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/errors"
	"github.com/felixgeelhaar/flowforge/internal/queue"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

var queueWeighted bool

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Order the backlog and plan capacity",
	Long: `Order open work items by priority, age and urgency, and select
what fits into a sprint's capacity.

Examples:
  # Priority-ordered backlog, urgent items first
  flowforge queue order

  # Type-aware ordering using the configured weights
  flowforge queue order --weighted

  # What fits into 13 story points
  flowforge queue capacity 13`,
}

var queueOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Show the ordered work queue",
	Args:  cobra.NoArgs,
	RunE:  runQueueOrder,
}

var queueCapacityCmd = &cobra.Command{
	Use:   "capacity <points>",
	Short: "Select the items that fit within a point budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueCapacity,
}

func init() {
	queueOrderCmd.Flags().BoolVar(&queueWeighted, "weighted", false, "weight by type as well as priority")

	queueCmd.AddCommand(queueOrderCmd)
	queueCmd.AddCommand(queueCapacityCmd)
	rootCmd.AddCommand(queueCmd)
}

// openItems filters out work that has reached a terminal or done state.
func openItems(items []domain.WorkItem) []domain.WorkItem {
	open := make([]domain.WorkItem, 0, len(items))
	for _, item := range items {
		if item.State == domain.StateDone || item.State == domain.StateReleased {
			continue
		}
		open = append(open, item)
	}
	return open
}

func runQueueOrder(cmd *cobra.Command, args []string) error {
	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		items, err := ws.Items.List(ctx)
		if err != nil {
			return err
		}
		open := openItems(items)

		orderer := queue.New(ws.Meta, queue.NopNotifier{})
		var ordered []domain.WorkItem
		if queueWeighted {
			weights := queue.Weights{
				Priority: cfg.Queue.PriorityWeight,
				Type:     cfg.Queue.TypeWeight,
				Age:      cfg.Queue.AgeWeight,
			}
			ordered, err = orderer.OrderWeighted(ctx, open, weights)
		} else {
			ordered, err = orderer.Order(ctx, open)
		}
		if err != nil {
			return err
		}

		if len(ordered) == 0 {
			fmt.Println("The queue is empty")
			return nil
		}
		for i, item := range ordered {
			marker := " "
			if ws.Meta.IsUrgent(item.ID) {
				marker = "!"
			}
			fmt.Printf("%2d. %s %s  %s [%s/%s]\n", i+1, marker, shortID(item.ID), item.Title, item.Priority, item.Type)
		}
		return nil
	})
}

func runQueueCapacity(cmd *cobra.Command, args []string) error {
	capacity, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New(errors.ErrCodeInvalidCapacity, fmt.Sprintf("capacity %q is not a number", args[0])).
			WithSuggestion("Pass the sprint capacity in story points, e.g. 'flowforge queue capacity 13'")
	}

	return runWithWorkspace(cmd, false, func(ctx context.Context, ws *repository.Workspace) error {
		items, err := ws.Items.List(ctx)
		if err != nil {
			return err
		}
		open := openItems(items)

		orderer := queue.New(ws.Meta, queue.NopNotifier{})
		ordered, err := orderer.Order(ctx, open)
		if err != nil {
			return err
		}

		estimates := ws.Meta.Estimates(ordered)
		selected, err := orderer.SelectWithinCapacity(ctx, ordered, estimates, capacity)
		if err != nil {
			return err
		}

		if len(selected) == 0 {
			fmt.Printf("Nothing fits within %d point(s)\n", capacity)
			return nil
		}
		total := 0
		for _, item := range selected {
			points := estimates[item.ID]
			total += points
			fmt.Printf("%s  %s [%s]  %d pt\n", shortID(item.ID), item.Title, item.Priority, points)
		}
		fmt.Printf("\n%d item(s), %d of %d point(s)\n", len(selected), total, capacity)
		return nil
	})
}
