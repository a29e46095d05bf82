package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/cli/formatter"
	"github.com/minjae-ko/gyomucal/internal/domain"
)

func newFilterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change the saved event filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			printFilter(app.Store.Filter())
			return nil
		},
	}

	cmd.AddCommand(
		newFilterSetCmd(app),
		newFilterAllCmd(app),
		newFilterNoneCmd(app),
	)

	return cmd
}

func printFilter(sel domain.FilterSelection) {
	cats := make([]string, len(sel.Categories))
	for i, c := range sel.Categories {
		cats[i] = string(c)
	}
	srcs := make([]string, len(sel.Sources))
	for i, s := range sel.Sources {
		srcs[i] = string(s)
	}
	fmt.Printf("%s %s\n", formatter.Bold("분류:"), strings.Join(cats, ", "))
	fmt.Printf("%s %s\n", formatter.Bold("출처:"), strings.Join(srcs, ", "))
}

func newFilterSetCmd(app *App) *cobra.Command {
	var categories, sources []string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the filter with the given categories and sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := app.Store.Filter()
			if cmd.Flags().Changed("category") {
				sel.Categories = sel.Categories[:0]
				for _, c := range categories {
					sel.Categories = append(sel.Categories, domain.ParseCategory(c))
				}
			}
			if cmd.Flags().Changed("source") {
				sel.Sources = sel.Sources[:0]
				for _, s := range sources {
					switch domain.EventSource(s) {
					case domain.SourceManual, domain.SourceAI:
						sel.Sources = append(sel.Sources, domain.EventSource(s))
					default:
						return fmt.Errorf("unknown source %q, want manual or ai", s)
					}
				}
			}
			if err := app.Store.SaveFilter(sel); err != nil {
				return err
			}
			printFilter(sel)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "Categories to keep")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Sources to keep (manual, ai)")
	return cmd
}

func newFilterAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Select every category and source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Store.SaveFilter(domain.DefaultFilterSelection())
		},
	}
}

func newFilterNoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "none",
		Short: "Deselect everything (hides all entries)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Store.SaveFilter(domain.FilterSelection{})
		},
	}
}
