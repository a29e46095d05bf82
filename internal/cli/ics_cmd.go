package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/datekey"
)

func newICSCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ics <year>",
		Short: "Export one year's entries as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			return runICSExport(app, year, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default stdout)")
	return cmd
}

func runICSExport(app *App, year int, out string) error {
	prefix := fmt.Sprintf("%04d-", year)

	list := app.Events.ListEffective()
	sort.SliceStable(list, func(a, b int) bool { return list[a].Date < list[b].Date })

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//gyomucal//calendar//KO")

	now := time.Now()
	count := 0
	for _, e := range list {
		if !strings.HasPrefix(e.Date, prefix) {
			continue
		}
		start, err := datekey.Parse(e.Date)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(e.ID + "@gyomucal")
		ev.SetDtStampTime(now)
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		ev.SetSummary(e.Title)
		ev.SetProperty(ical.ComponentPropertyCategories, string(e.Category))
		count++
	}

	serialized := cal.Serialize()
	if out == "" {
		fmt.Print(serialized)
		return nil
	}
	if err := os.WriteFile(out, []byte(serialized), 0o644); err != nil {
		return fmt.Errorf("writing ics: %w", err)
	}
	fmt.Printf("%d년 일정 %d건을 %s 에 내보냈습니다.\n", year, count, out)
	return nil
}
