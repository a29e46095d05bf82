package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/cli/formatter"
	"github.com/minjae-ko/gyomucal/internal/planner"
)

func newPlanCmd(app *App) *cobra.Command {
	var refPath string
	var dryRun bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "plan <요청...>",
		Short: "Turn a free-text work request into dated calendar entries",
		Long: `자연어 업무 요청(예: "12월 20~24일 중앙현관 개선공사")을 품의부터
정산까지의 날짜 지정 일정으로 변환해 확인 후 등록합니다.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(app, strings.Join(args, " "), refPath, dryRun, yes)
		},
	}

	cmd.Flags().StringVar(&refPath, "ref", "", "Reference document passed to the model as context")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the proposal without registering anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Register every proposed entry without the confirm step")
	return cmd
}

func runPlan(app *App, request, refPath string, dryRun, yes bool) error {
	var reference string
	if refPath != "" {
		data, err := os.ReadFile(refPath)
		if err != nil {
			return fmt.Errorf("reading reference document: %w", err)
		}
		reference = string(data)
	}

	proposal, err := app.Planner.Propose(context.Background(), request, reference)
	if err != nil {
		return errors.New(planner.UserMessage(err))
	}

	fmt.Print(formatter.FormatProposal(proposal))

	if dryRun {
		return nil
	}

	if !yes {
		// Without a terminal there is no confirm step; never commit
		// AI-proposed entries from a pipe without an explicit --yes.
		if !app.interactive() {
			fmt.Println(formatter.Dim("등록하지 않았습니다. 확인 없이 등록하려면 --yes 를 사용하세요."))
			return nil
		}
		if err := confirmSelection(proposal); err != nil {
			return err
		}
	}

	added, skipped, err := app.Planner.Apply(proposal)
	if err != nil {
		return errors.New(planner.UserMessage(err))
	}
	fmt.Println(formatter.FormatApplyResult(added, skipped))
	return nil
}

// confirmSelection runs the interactive multi-select over proposal
// items. Cancelling the form leaves the proposal unapplied.
func confirmSelection(proposal *planner.Proposal) error {
	options := make([]huh.Option[int], len(proposal.Items))
	var preselected []int
	for i, item := range proposal.Items {
		label := fmt.Sprintf("%s  [%s] %s", item.Date, item.Category, item.Title)
		options[i] = huh.NewOption(label, i)
		if proposal.Selected[i] {
			preselected = append(preselected, i)
		}
	}

	chosen := preselected
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("등록할 일정을 선택하세요").
				Options(options...).
				Value(&chosen),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}

	selected := make(map[int]bool, len(chosen))
	for _, i := range chosen {
		selected[i] = true
	}
	for i := range proposal.Selected {
		proposal.Selected[i] = selected[i]
	}
	return nil
}
