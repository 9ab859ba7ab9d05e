package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/repository"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

// transitionVerb is one workflow command. Each verb names a target
// state; the state machine decides whether the move is legal from the
// item's current state.
type transitionVerb struct {
	use    string
	short  string
	target domain.State
}

var transitionVerbs = []transitionVerb{
	{use: "triage", short: "Confirm a found item is real work", target: domain.StateTriaged},
	{use: "accept", short: "Accept a triaged item into the backlog", target: domain.StateToDo},
	{use: "start", short: "Start working on an item", target: domain.StateInProgress},
	{use: "ready-for-test", short: "Hand an item over for testing", target: domain.StateInTest},
	{use: "complete", short: "Mark an item done", target: domain.StateDone},
	{use: "return", short: "Return a failed item to in progress", target: domain.StateInProgress},
	{use: "reset", short: "Put an in-progress item back in the backlog", target: domain.StateToDo},
	{use: "release", short: "Release a done item", target: domain.StateReleased},
	{use: "cancel", short: "Close a triaged item without doing it", target: domain.StateDone},
	{use: "skip", short: "Close a backlog item without doing it", target: domain.StateDone},
}

var (
	transitionActor   string
	transitionComment string
)

func init() {
	for _, verb := range transitionVerbs {
		verb := verb
		c := &cobra.Command{
			Use:   verb.use + " <item>",
			Short: verb.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTransition(cmd, args[0], verb.target)
			},
		}
		c.Flags().StringVar(&transitionActor, "actor", "", "Who performs the transition")
		c.Flags().StringVar(&transitionComment, "comment", "", "Comment recorded in history")
		rootCmd.AddCommand(c)
	}
}

func runTransition(cmd *cobra.Command, ref string, target domain.State) error {
	return runWithWorkspace(cmd, true, func(ctx context.Context, ws *repository.Workspace) error {
		item, err := resolveItem(ctx, ws, ref)
		if err != nil {
			return err
		}

		updated, event, err := workflow.TransitionAs(item, target, transitionActor, transitionComment)
		if err != nil {
			return err
		}
		updated, err = ws.Items.Update(ctx, updated)
		if err != nil {
			return err
		}
		ws.History.Record(event, updated)

		fmt.Printf("%s  %s: %s -> %s\n", shortID(item.ID), item.Title, event.From, event.To)
		return nil
	})
}
