package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/cli/formatter"
	"github.com/minjae-ko/gyomucal/internal/domain"
	"github.com/minjae-ko/gyomucal/internal/planner"
)

func newExplainCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <event-id>",
		Short: "Explain a calendar entry with an AI-generated report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(app, args[0])
		},
	}
	return cmd
}

func runExplain(app *App, eventID string) error {
	event, ok := findEvent(app.Events.ListEffective(), eventID)
	if !ok {
		return fmt.Errorf("event %q not found", eventID)
	}

	streamed := false
	report, err := app.Describer.Describe(context.Background(), event, func(chunk string) {
		streamed = true
		fmt.Print(chunk)
	})
	if errors.Is(err, planner.ErrSuperseded) {
		return nil
	}
	if err != nil {
		return errors.New(planner.UserMessage(err))
	}

	if streamed {
		// Content already on screen; append citations only.
		fmt.Println()
		trailer := *report
		trailer.Content = ""
		fmt.Print(formatter.FormatReport(&trailer))
		return nil
	}
	fmt.Print(formatter.FormatReport(report))
	return nil
}

func findEvent(list []domain.Event, id string) (domain.Event, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Event{}, false
}
