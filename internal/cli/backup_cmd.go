package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/minjae-ko/gyomucal/internal/store"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import one year's user data",
	}

	cmd.AddCommand(
		newBackupExportCmd(app),
		newBackupImportCmd(app),
	)

	return cmd
}

func newBackupExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <year>",
		Short: "Write a year-scoped backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			if out == "" {
				out = fmt.Sprintf("gyomucal-backup-%d.json", year)
			}

			data, err := store.EncodeBackup(app.Store.ExportBackup(year))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}
			fmt.Printf("%d년 백업을 %s 에 저장했습니다.\n", year, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default gyomucal-backup-<year>.json)")
	return cmd
}

func newBackupImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a backup file into the store",
		Long: `백업 파일에 기록된 연도의 일정만 교체 방식으로 병합합니다.
다른 연도의 일정은 건드리지 않습니다.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}
			backup, err := store.DecodeBackup(data)
			if err != nil {
				return err
			}
			if err := app.Store.ImportBackup(backup); err != nil {
				return err
			}
			fmt.Printf("%d년 백업을 가져왔습니다.\n", backup.Year)
			return nil
		},
	}
	return cmd
}
