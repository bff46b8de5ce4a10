package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronotrace/timemaster/internal/facade"
	"github.com/chronotrace/timemaster/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a report and write it to a file",
}

func runExport(cmd *cobra.Command, op string, req facade.ReportQueryRequest, path string) error {
	ack := app.Facade.RunReportExport(cmd.Context(), req, path)
	if !ack.OK {
		return ackError(op, ack.ErrorKind, ack.ErrorMessage)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runExportAll(cmd *cobra.Command, op string, kind model.ReportKind, year int, dir string, fmtName string) error {
	f, err := parseFormat(op, fmtName)
	if err != nil {
		return err
	}
	out := app.Facade.RunReportExportAll(cmd.Context(), kind, year, dir, f)
	if !out.OK {
		return ackError(op, out.ErrorKind, out.ErrorMessage)
	}
	failed := 0
	for _, item := range out.Items {
		if !item.OK {
			failed++
			warningColor.Printf("%s: %s\n", item.Identifier, item.ErrorMessage)
			continue
		}
		fmt.Printf("wrote %s\n", item.Path)
	}
	successColor.Printf("%d written, %d failed\n", len(out.Items)-failed, failed)
	return nil
}

var (
	exportDayDate   string
	exportDayFormat string
	exportDayOutput string
)

var exportDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Export a single daily report",
	Example: `  timemaster export day --date=2026-07-29 --output=2026-07-29.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster export day"
		f, err := parseFormat(op, exportDayFormat)
		if err != nil {
			return err
		}
		return runExport(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindDaily, Date: exportDayDate, Format: f}, exportDayOutput)
	},
}

var (
	exportMonthYearMonth string
	exportMonthFormat    string
	exportMonthOutput    string
)

var exportMonthCmd = &cobra.Command{
	Use:   "month",
	Short: "Export a single monthly report",
	Example: `  timemaster export month --year-month=2026-07 --output=2026-07.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster export month"
		f, err := parseFormat(op, exportMonthFormat)
		if err != nil {
			return err
		}
		return runExport(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindMonthly, YearMonth: exportMonthYearMonth, Format: f}, exportMonthOutput)
	},
}

var (
	exportWeekISOWeek string
	exportWeekFormat  string
	exportWeekOutput  string
)

var exportWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Export a single weekly report",
	Example: `  timemaster export week --iso-week=2026-W30 --output=2026-W30.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster export week"
		f, err := parseFormat(op, exportWeekFormat)
		if err != nil {
			return err
		}
		return runExport(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindWeekly, ISOWeek: exportWeekISOWeek, Format: f}, exportWeekOutput)
	},
}

var (
	exportYearYear   string
	exportYearFormat string
	exportYearOutput string
)

var exportYearCmd = &cobra.Command{
	Use:   "year",
	Short: "Export a single yearly report",
	Example: `  timemaster export year --year=2026 --output=2026.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster export year"
		f, err := parseFormat(op, exportYearFormat)
		if err != nil {
			return err
		}
		return runExport(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindYearly, Year: exportYearYear, Format: f}, exportYearOutput)
	},
}

var (
	exportAllDayYear   int
	exportAllDayDir    string
	exportAllDayFormat string
)

var exportAllDayCmd = &cobra.Command{
	Use:   "all-day",
	Short: "Export one file per known day in a year",
	Example: `  timemaster export all-day --year=2026 --dir=out/days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExportAll(cmd, "timemaster export all-day", model.ReportKindDaily, exportAllDayYear, exportAllDayDir, exportAllDayFormat)
	},
}

var (
	exportAllMonthYear   int
	exportAllMonthDir    string
	exportAllMonthFormat string
)

var exportAllMonthCmd = &cobra.Command{
	Use:   "all-month",
	Short: "Export one file per known month in a year",
	Example: `  timemaster export all-month --year=2026 --dir=out/months`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExportAll(cmd, "timemaster export all-month", model.ReportKindMonthly, exportAllMonthYear, exportAllMonthDir, exportAllMonthFormat)
	},
}

var (
	exportAllWeekYear   int
	exportAllWeekDir    string
	exportAllWeekFormat string
)

var exportAllWeekCmd = &cobra.Command{
	Use:   "all-week",
	Short: "Export one file per distinct ISO week touched in a year",
	Example: `  timemaster export all-week --year=2026 --dir=out/weeks`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExportAll(cmd, "timemaster export all-week", model.ReportKindWeekly, exportAllWeekYear, exportAllWeekDir, exportAllWeekFormat)
	},
}

var (
	exportAllYearYear   int
	exportAllYearDir    string
	exportAllYearFormat string
)

var exportAllYearCmd = &cobra.Command{
	Use:   "all-year",
	Short: "Export the yearly report for a single year (batch-shaped for symmetry)",
	Example: `  timemaster export all-year --year=2026 --dir=out/years`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExportAll(cmd, "timemaster export all-year", model.ReportKindYearly, exportAllYearYear, exportAllYearDir, exportAllYearFormat)
	},
}

func init() {
	exportDayCmd.Flags().StringVar(&exportDayDate, "date", "", "date, YYYY-MM-DD (required)")
	exportDayCmd.Flags().StringVar(&exportDayFormat, "format", "markdown", "output format: markdown, latex, typst")
	exportDayCmd.Flags().StringVar(&exportDayOutput, "output", "", "output file path (required)")
	_ = exportDayCmd.MarkFlagRequired("date")
	_ = exportDayCmd.MarkFlagRequired("output")

	exportMonthCmd.Flags().StringVar(&exportMonthYearMonth, "year-month", "", "year and month, YYYY-MM (required)")
	exportMonthCmd.Flags().StringVar(&exportMonthFormat, "format", "markdown", "output format: markdown, latex, typst")
	exportMonthCmd.Flags().StringVar(&exportMonthOutput, "output", "", "output file path (required)")
	_ = exportMonthCmd.MarkFlagRequired("year-month")
	_ = exportMonthCmd.MarkFlagRequired("output")

	exportWeekCmd.Flags().StringVar(&exportWeekISOWeek, "iso-week", "", "ISO week, YYYY-Www (required)")
	exportWeekCmd.Flags().StringVar(&exportWeekFormat, "format", "markdown", "output format: markdown, latex, typst")
	exportWeekCmd.Flags().StringVar(&exportWeekOutput, "output", "", "output file path (required)")
	_ = exportWeekCmd.MarkFlagRequired("iso-week")
	_ = exportWeekCmd.MarkFlagRequired("output")

	exportYearCmd.Flags().StringVar(&exportYearYear, "year", "", "year, YYYY (required)")
	exportYearCmd.Flags().StringVar(&exportYearFormat, "format", "markdown", "output format: markdown, latex, typst")
	exportYearCmd.Flags().StringVar(&exportYearOutput, "output", "", "output file path (required)")
	_ = exportYearCmd.MarkFlagRequired("year")
	_ = exportYearCmd.MarkFlagRequired("output")

	exportAllDayCmd.Flags().IntVar(&exportAllDayYear, "year", 0, "year, YYYY (required)")
	exportAllDayCmd.Flags().StringVar(&exportAllDayDir, "dir", "", "destination directory (required)")
	exportAllDayCmd.Flags().StringVar(&exportAllDayFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = exportAllDayCmd.MarkFlagRequired("year")
	_ = exportAllDayCmd.MarkFlagRequired("dir")

	exportAllMonthCmd.Flags().IntVar(&exportAllMonthYear, "year", 0, "year, YYYY (required)")
	exportAllMonthCmd.Flags().StringVar(&exportAllMonthDir, "dir", "", "destination directory (required)")
	exportAllMonthCmd.Flags().StringVar(&exportAllMonthFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = exportAllMonthCmd.MarkFlagRequired("year")
	_ = exportAllMonthCmd.MarkFlagRequired("dir")

	exportAllWeekCmd.Flags().IntVar(&exportAllWeekYear, "year", 0, "year, YYYY (required)")
	exportAllWeekCmd.Flags().StringVar(&exportAllWeekDir, "dir", "", "destination directory (required)")
	exportAllWeekCmd.Flags().StringVar(&exportAllWeekFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = exportAllWeekCmd.MarkFlagRequired("year")
	_ = exportAllWeekCmd.MarkFlagRequired("dir")

	exportAllYearCmd.Flags().IntVar(&exportAllYearYear, "year", 0, "year, YYYY (required)")
	exportAllYearCmd.Flags().StringVar(&exportAllYearDir, "dir", "", "destination directory (required)")
	exportAllYearCmd.Flags().StringVar(&exportAllYearFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = exportAllYearCmd.MarkFlagRequired("year")
	_ = exportAllYearCmd.MarkFlagRequired("dir")

	exportCmd.AddCommand(
		exportDayCmd, exportMonthCmd, exportWeekCmd, exportYearCmd,
		exportAllDayCmd, exportAllMonthCmd, exportAllWeekCmd, exportAllYearCmd,
	)
}
