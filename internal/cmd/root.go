// Package cmd implements the flowforge command line interface.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/config"
	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/errors"
	"github.com/felixgeelhaar/flowforge/internal/log"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

var rootCmd = &cobra.Command{
	Use:   "flowforge",
	Short: "Work item tracking with workflow, dependency, and queue analysis",
	Long: `flowforge tracks work items through a fixed workflow state machine,
maintains the dependency graph between them, finds the critical path and
blocking items, and orders the backlog for selection.

Items live in a workspace file (default .flowforge/workspace.yaml), so
every command operates on the same state. Run 'flowforge serve' to expose
the same engine over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	cfgPath string
	verbose bool
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default .flowforge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig resolves configuration for the current invocation.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

// newLogger builds the CLI logger from config and the --verbose flag.
func newLogger(cfg *config.Config) *log.Logger {
	logCfg := log.Config{
		Level:  log.ParseLevel(cfg.Log.Level),
		Format: log.ParseFormat(cfg.Log.Format),
		Output: log.OutputStderr(),
	}
	if verbose {
		logCfg.Level = log.LevelDebug
	}
	logger := log.New(logCfg)
	log.SetDefault(logger)
	return logger
}

// openWorkspace loads the workspace snapshot named by the config.
func openWorkspace(cfg *config.Config) (*repository.Workspace, error) {
	return repository.LoadWorkspace(cfg.Data.Path)
}

// runWithWorkspace loads config and workspace, runs fn, and saves the
// workspace back when the command mutates state.
func runWithWorkspace(cmd *cobra.Command, mutate bool, fn func(ctx context.Context, ws *repository.Workspace) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	newLogger(cfg)

	ws, err := openWorkspace(cfg)
	if err != nil {
		return err
	}
	if err := fn(cmd.Context(), ws); err != nil {
		return err
	}
	if mutate {
		return ws.Save(cfg.Data.Path)
	}
	return nil
}

// resolveItem accepts a full item ID or a unique prefix of one.
func resolveItem(ctx context.Context, ws *repository.Workspace, ref string) (domain.WorkItem, error) {
	if id, err := domain.ParseItemID(ref); err == nil {
		return ws.Items.Get(ctx, id)
	}

	items, err := ws.Items.List(ctx)
	if err != nil {
		return domain.WorkItem{}, err
	}
	var matches []domain.WorkItem
	for _, item := range items {
		if strings.HasPrefix(item.ID.String(), strings.ToLower(ref)) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return domain.WorkItem{}, errors.New(errors.ErrCodeItemNotFound,
			fmt.Sprintf("no work item matches %q", ref)).
			WithSuggestion("Run 'flowforge list' to see known work items")
	default:
		return domain.WorkItem{}, errors.New(errors.ErrCodeItemConflict,
			fmt.Sprintf("%d work items match %q", len(matches), ref)).
			WithSuggestion("Use more characters of the ID")
	}
}
