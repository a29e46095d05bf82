package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/cli/formatter"
	"github.com/minjae-ko/gyomucal/internal/events"
	"github.com/minjae-ko/gyomucal/internal/store"
)

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the calendar and reprint it when the store changes",
		Long: `저장소 디렉터리를 감시하다가 다른 프로세스가 일정을 바꾸면
화면을 다시 출력합니다. Ctrl+C 로 종료합니다.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(app)
		},
	}
	return cmd
}

func runWatch(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates := app.Store.Notifier().Subscribe(store.TopicUserEvents, store.TopicOverrides, store.TopicFilter)
	defer app.Store.Notifier().Unsubscribe(updates)

	go func() {
		if err := app.Store.Watch(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}()

	printCalendar(app)
	for {
		select {
		case <-ctx.Done():
			return nil
		case topic := <-updates:
			fmt.Println(formatter.Dim(fmt.Sprintf("-- %s 갱신 --", topic)))
			printCalendar(app)
		}
	}
}

func printCalendar(app *App) {
	list := events.FilterBySelection(app.Events.ListEffective(), app.Store.Filter())
	sort.SliceStable(list, func(a, b int) bool { return list[a].Date < list[b].Date })
	fmt.Print(formatter.FormatEvents(list))
}
