package cli

import (
	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/events"
	"github.com/minjae-ko/gyomucal/internal/planner"
	"github.com/minjae-ko/gyomucal/internal/store"
)

// App holds references to the services used by CLI commands.
type App struct {
	Store     *store.Store
	Events    *events.Service
	Planner   *planner.Pipeline
	Describer *planner.Describer

	// IsInteractive reports whether stdin is a terminal; the plan
	// confirm step is only shown interactively.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "gyomucal" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gyomucal",
		Short:         "School administration calendar with AI schedule planning",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newPlanCmd(app),
		newEventCmd(app),
		newExplainCmd(app),
		newFilterCmd(app),
		newBackupCmd(app),
		newICSCmd(app),
		newWatchCmd(app),
		newConfigCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
