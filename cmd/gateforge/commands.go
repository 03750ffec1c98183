package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/gateforge/internal/backup"
	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/dependency"
	"github.com/example/gateforge/internal/excel"
	"github.com/example/gateforge/internal/planner"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the active phase, the exam countdown and due cards",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()
			phases, err := database.NewScheduleRepository(a.store).Load(ctx)
			if err != nil {
				return err
			}
			profile, err := database.NewProfileRepository(a.store).Load(ctx)
			if err != nil {
				return err
			}
			due, err := database.NewFlashcardRepository(a.store).Due(ctx)
			if err != nil {
				return err
			}

			now := a.store.Now()
			out := cmd.OutOrStdout()
			if examAt, err := profile.ExamTime(now.Location()); err == nil {
				fmt.Fprintf(out, "Exam in %s\n", planner.ExamCountdown(examAt, now))
			}
			writeResolution(out, planner.Resolve(phases, now), planner.Pending(phases))
			fmt.Fprintf(out, "Cards due today: %d\n", len(due))
			return nil
		}),
	}
}

func writeResolution(w io.Writer, res planner.Resolution, pending bool) {
	switch {
	case res.Active != nil:
		fmt.Fprintf(w, "Active phase: %s %s (%s to %s), ends in %s\n",
			res.Active.ID, res.Active.Name, res.Active.Start, res.Active.End, res.Remaining)
	case res.GapTarget != nil:
		fmt.Fprintf(w, "Gap before %s %s, starts in %s\n", res.GapTarget.ID, res.GapTarget.Name, res.Remaining)
	case pending:
		fmt.Fprintln(w, "Schedule pending")
	default:
		fmt.Fprintln(w, "All phases finished")
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON backup to file, or to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if len(args) == 0 || args[0] == "-" {
				return backup.Export(cmd.Context(), a.store, cmd.OutOrStdout())
			}
			if err := backup.ExportFile(cmd.Context(), a.store, args[0]); err != nil {
				return err
			}
			a.log.Infof("Exported backup to %s", args[0])
			return nil
		}),
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore data from a JSON backup file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			snap, err := backup.ImportFile(cmd.Context(), a.store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported backup taken at %s\n", snap.Timestamp)
			return nil
		}),
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore data from the last automatic backup",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			restored, err := a.store.RestoreBackup(cmd.Context())
			if err != nil {
				return err
			}
			if !restored {
				return errors.New("no automatic backup found")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Restored the last automatic backup")
			return nil
		}),
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <file.xlsx>",
		Short: "Export a progress workbook",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			ctx := cmd.Context()
			schedule := database.NewScheduleRepository(a.store)

			phases, err := schedule.Load(ctx)
			if err != nil {
				return err
			}
			status, err := schedule.LoadStatus(ctx)
			if err != nil {
				return err
			}
			cards, err := database.NewFlashcardRepository(a.store).Load(ctx)
			if err != nil {
				return err
			}
			journal := database.NewJournalRepository(a.store)
			mocks, err := journal.Mocks(ctx)
			if err != nil {
				return err
			}
			daily, err := journal.DailyLogs(ctx)
			if err != nil {
				return err
			}

			data := excel.ReportData{
				Phases:   phases,
				Status:   status,
				Cards:    cards,
				Mocks:    mocks,
				Daily:    daily,
				Analysis: dependency.Analyze(dependency.DefaultGraph(), status),
				Today:    a.store.Today(),
			}
			if err := excel.ExportReport(args[0], data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", args[0])
			return nil
		}),
	}
}

func newImportCardsCmd() *cobra.Command {
	config := excel.DefaultImportConfig()

	cmd := &cobra.Command{
		Use:   "import-cards <file.xlsx|file.csv>",
		Short: "Add flashcards from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			config.FilePath = args[0]
			repo := database.NewFlashcardRepository(a.store)

			result, err := excel.ImportFlashcards(cmd.Context(), repo, config, a.store.Today())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d rows: %d created, %d updated, %d skipped\n",
				result.TotalProcessed, result.Created, result.Updated, result.Skipped)
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&config.SheetName, "sheet", config.SheetName, "sheet to read from Excel files")
	flags.IntVar(&config.StartRow, "start-row", config.StartRow, "first data row (1-based)")
	flags.StringVar(&config.FrontColumn, "front", config.FrontColumn, "question column")
	flags.StringVar(&config.BackColumn, "back", config.BackColumn, "answer column")
	flags.StringVar(&config.SubjectColumn, "subject", config.SubjectColumn, "subject column")
	flags.StringVar(&config.BoxColumn, "box", config.BoxColumn, "starting box column, empty to ignore")
	return cmd
}

func newRescheduleCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "reschedule",
		Short: "Spread unfinished phases evenly up to the exam",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()
			schedule := database.NewScheduleRepository(a.store)

			phases, err := schedule.Load(ctx)
			if err != nil {
				return err
			}
			status, err := schedule.LoadStatus(ctx)
			if err != nil {
				return err
			}
			profile, err := database.NewProfileRepository(a.store).Load(ctx)
			if err != nil {
				return err
			}
			examDay, err := profile.ExamDay()
			if err != nil {
				return fmt.Errorf("invalid exam date %q: %v", profile.ExamDate, err)
			}

			proposal, err := planner.Reschedule(phases, status, examDay, a.cfg.BufferDays, a.store.Today())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range proposal {
				mark := " "
				if status.IsCompleted(p.ID) {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %-8s %s .. %s  %s\n", mark, p.ID, p.Start, p.End, p.Name)
			}

			if !apply {
				fmt.Fprintln(out, "Dry run, pass --apply to save")
				return nil
			}
			if err := schedule.Save(ctx, proposal); err != nil {
				return err
			}
			fmt.Fprintln(out, "Schedule saved")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "save the proposal")
	return cmd
}
