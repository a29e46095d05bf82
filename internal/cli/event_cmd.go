package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/cli/formatter"
	"github.com/minjae-ko/gyomucal/internal/datekey"
	"github.com/minjae-ko/gyomucal/internal/domain"
	"github.com/minjae-ko/gyomucal/internal/events"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage calendar entries",
	}

	cmd.AddCommand(
		newEventListCmd(app),
		newEventAddCmd(app),
		newEventSetCmd(app),
		newEventMoveCmd(app),
		newEventRmCmd(app),
		newEventResetCmd(app),
	)

	return cmd
}

func newEventListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List effective calendar entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := app.Events.ListEffective()
			if !all {
				list = events.FilterBySelection(list, app.Store.Filter())
			}
			sort.SliceStable(list, func(a, b int) bool { return list[a].Date < list[b].Date })
			fmt.Print(formatter.FormatEvents(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Ignore the saved filter and list everything")
	return cmd
}

func newEventAddCmd(app *App) *cobra.Command {
	var date, category string

	cmd := &cobra.Command{
		Use:   "add <제목>",
		Short: "Add a manual calendar entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !datekey.IsValid(date) {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
			}
			e := app.Events.CreateUserEvent(date, args[0], domain.ParseCategory(category), domain.SourceManual)
			fmt.Println(formatter.FormatEventLine(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryOther), "Category")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newEventSetCmd(app *App) *cobra.Command {
	var title, category string

	cmd := &cobra.Command{
		Use:   "set <event-id>",
		Short: "Change an entry's title or category",
		Long: `사용자 일정은 직접 수정되고, 기본 학사 일정은 원본을 남겨 둔 채
덮어쓰기 패치로 수정됩니다.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := events.Patch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("category") {
				c := domain.ParseCategory(category)
				patch.Category = &c
			}
			if patch.Title == nil && patch.Category == nil {
				return fmt.Errorf("nothing to change: pass --title or --category")
			}

			if app.Events.UpdateUserEvent(args[0], patch) {
				return nil
			}
			if app.Events.OverrideBuiltin(args[0], patch) {
				return nil
			}
			return fmt.Errorf("event %q not found", args[0])
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	return cmd
}

func newEventMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <event-id> <date>",
		Short: "Move an entry to another date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Events.MoveEvent(args[0], args[1]) {
				return fmt.Errorf("cannot move %q to %q", args[0], args[1])
			}
			return nil
		},
	}
	return cmd
}

func newEventRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <event-id>",
		Short: "Delete a user-created entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Events.DeleteUserEvent(args[0]) {
				return fmt.Errorf("user event %q not found", args[0])
			}
			return nil
		},
	}
	return cmd
}

func newEventResetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <event-id>",
		Short: "Restore a builtin entry to its original form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Events.ResetBuiltinOverride(args[0]) {
				return fmt.Errorf("no override recorded for %q", args[0])
			}
			return nil
		},
	}
	return cmd
}
