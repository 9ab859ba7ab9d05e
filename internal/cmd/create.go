package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a work item",
	Long: `Create a work item in state FOUND.

Run without --title to fill in the fields interactively.

Examples:
  # Interactive form
  flowforge create

  # Everything on the command line
  flowforge create --title "Login page 500s" --type BUG --priority CRITICAL --urgent

  # With a story-point estimate for capacity planning
  flowforge create --title "Search filters" --type FEATURE --priority MEDIUM --points 5`,
	RunE: runCreate,
}

var (
	createTitle       string
	createDescription string
	createType        string
	createPriority    string
	createAssignee    string
	createUrgent      bool
	createPoints      int
)

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "Item title")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Item description")
	createCmd.Flags().StringVar(&createType, "type", "TASK", "Item type (TASK, STORY, BUG, FEATURE, EPIC, CHORE)")
	createCmd.Flags().StringVar(&createPriority, "priority", "MEDIUM", "Priority (TRIVIAL, LOW, MEDIUM, HIGH, CRITICAL)")
	createCmd.Flags().StringVar(&createAssignee, "assignee", "", "Assignee")
	createCmd.Flags().BoolVar(&createUrgent, "urgent", false, "Flag as urgent production incident")
	createCmd.Flags().IntVar(&createPoints, "points", 0, "Story-point estimate")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if createTitle == "" {
		if err := runCreateForm(); err != nil {
			return err
		}
	}

	return runWithWorkspace(cmd, true, func(ctx context.Context, ws *repository.Workspace) error {
		item, err := ws.Items.Create(ctx, repository.CreateRequest{
			Title:       createTitle,
			Description: createDescription,
			Type:        domain.Type(createType),
			Priority:    domain.Priority(createPriority),
			Assignee:    createAssignee,
		})
		if err != nil {
			return err
		}

		if createUrgent {
			ws.Meta.SetUrgent(item.ID, true)
		}
		if createPoints > 0 {
			ws.Meta.SetEstimate(item.ID, createPoints)
		}

		fmt.Printf("Created %s  %s [%s/%s]\n", item.ID, item.Title, item.Type, item.Priority)
		return nil
	})
}

func runCreateForm() error {
	typeOptions := make([]huh.Option[string], 0, len(domain.Types()))
	for _, t := range domain.Types() {
		typeOptions = append(typeOptions, huh.NewOption(string(t), string(t)))
	}
	priorityOptions := make([]huh.Option[string], 0, len(domain.Priorities()))
	for _, p := range domain.Priorities() {
		priorityOptions = append(priorityOptions, huh.NewOption(string(p), string(p)))
	}

	points := strconv.Itoa(createPoints)
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&createTitle).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("title must not be empty")
				}
				return nil
			}),
		huh.NewText().
			Title("Description").
			Value(&createDescription),
		huh.NewSelect[string]().
			Title("Type").
			Options(typeOptions...).
			Value(&createType),
		huh.NewSelect[string]().
			Title("Priority").
			Options(priorityOptions...).
			Value(&createPriority),
		huh.NewInput().
			Title("Assignee (optional)").
			Value(&createAssignee),
		huh.NewInput().
			Title("Story points (0 for none)").
			Value(&points).
			Validate(func(s string) error {
				n, err := strconv.Atoi(s)
				if err != nil || n < 0 {
					return fmt.Errorf("enter a non-negative number")
				}
				return nil
			}),
		huh.NewConfirm().
			Title("Urgent production incident?").
			Value(&createUrgent),
	))

	if err := form.Run(); err != nil {
		return err
	}
	createPoints, _ = strconv.Atoi(points)
	return nil
}
