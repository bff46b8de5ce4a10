package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronotrace/timemaster/internal/facade"
	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// parseFormat validates the --format flag shared by every report-emitting
// subcommand, defaulting to markdown.
func parseFormat(op, s string) (format.Format, error) {
	switch format.Format(s) {
	case "", format.Markdown:
		return format.Markdown, nil
	case format.LaTeX:
		return format.LaTeX, nil
	case format.Typst:
		return format.Typst, nil
	default:
		return "", xerrors.New(xerrors.KindInvalidArguments, op, "format must be one of markdown, latex, typst")
	}
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Render a report to stdout",
}

func runQuery(cmd *cobra.Command, op string, req facade.ReportQueryRequest) error {
	out := app.Facade.RunReportQuery(cmd.Context(), req)
	if !out.OK {
		return ackError(op, out.ErrorKind, out.ErrorMessage)
	}
	fmt.Println(out.Content)
	return nil
}

var (
	queryDayDate   string
	queryDayFormat string
)

var queryDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Render a daily report",
	Example: `  timemaster query day --date=2026-07-29`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster query day"
		f, err := parseFormat(op, queryDayFormat)
		if err != nil {
			return err
		}
		return runQuery(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindDaily, Date: queryDayDate, Format: f})
	},
}

var (
	queryMonthYearMonth string
	queryMonthFormat    string
)

var queryMonthCmd = &cobra.Command{
	Use:   "month",
	Short: "Render a monthly report",
	Example: `  timemaster query month --year-month=2026-07`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster query month"
		f, err := parseFormat(op, queryMonthFormat)
		if err != nil {
			return err
		}
		return runQuery(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindMonthly, YearMonth: queryMonthYearMonth, Format: f})
	},
}

var (
	queryWeekISOWeek string
	queryWeekFormat  string
)

var queryWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Render a weekly report",
	Example: `  timemaster query week --iso-week=2026-W30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster query week"
		f, err := parseFormat(op, queryWeekFormat)
		if err != nil {
			return err
		}
		return runQuery(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindWeekly, ISOWeek: queryWeekISOWeek, Format: f})
	},
}

var (
	queryYearYear   string
	queryYearFormat string
)

var queryYearCmd = &cobra.Command{
	Use:   "year",
	Short: "Render a yearly report",
	Example: `  timemaster query year --year=2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster query year"
		f, err := parseFormat(op, queryYearFormat)
		if err != nil {
			return err
		}
		return runQuery(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindYearly, Year: queryYearYear, Format: f})
	},
}

var (
	queryPeriodDays   int
	queryPeriodFormat string
)

var queryPeriodCmd = &cobra.Command{
	Use:   "period",
	Short: "Render a report over the last N days",
	Example: `  timemaster query period --days=7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster query period"
		f, err := parseFormat(op, queryPeriodFormat)
		if err != nil {
			return err
		}
		return runQuery(cmd, op, facade.ReportQueryRequest{Kind: model.ReportKindPeriod, Days: queryPeriodDays, Format: f})
	},
}

var (
	queryRangeStart  string
	queryRangeEnd    string
	queryRangeFormat string
)

var queryRangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Render a report over an explicit date range",
	Example: `  timemaster query range --start=2026-07-01 --end=2026-07-29`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster query range"
		f, err := parseFormat(op, queryRangeFormat)
		if err != nil {
			return err
		}
		return runQuery(cmd, op, facade.ReportQueryRequest{
			Kind: model.ReportKindRange, StartDate: queryRangeStart, EndDate: queryRangeEnd, Format: f,
		})
	},
}

func init() {
	queryDayCmd.Flags().StringVar(&queryDayDate, "date", "", "date, YYYY-MM-DD (required)")
	queryDayCmd.Flags().StringVar(&queryDayFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = queryDayCmd.MarkFlagRequired("date")

	queryMonthCmd.Flags().StringVar(&queryMonthYearMonth, "year-month", "", "year and month, YYYY-MM (required)")
	queryMonthCmd.Flags().StringVar(&queryMonthFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = queryMonthCmd.MarkFlagRequired("year-month")

	queryWeekCmd.Flags().StringVar(&queryWeekISOWeek, "iso-week", "", "ISO week, YYYY-Www (required)")
	queryWeekCmd.Flags().StringVar(&queryWeekFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = queryWeekCmd.MarkFlagRequired("iso-week")

	queryYearCmd.Flags().StringVar(&queryYearYear, "year", "", "year, YYYY (required)")
	queryYearCmd.Flags().StringVar(&queryYearFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = queryYearCmd.MarkFlagRequired("year")

	queryPeriodCmd.Flags().IntVar(&queryPeriodDays, "days", 0, "number of trailing days (required)")
	queryPeriodCmd.Flags().StringVar(&queryPeriodFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = queryPeriodCmd.MarkFlagRequired("days")

	queryRangeCmd.Flags().StringVar(&queryRangeStart, "start", "", "range start date, YYYY-MM-DD (required)")
	queryRangeCmd.Flags().StringVar(&queryRangeEnd, "end", "", "range end date, YYYY-MM-DD (required)")
	queryRangeCmd.Flags().StringVar(&queryRangeFormat, "format", "markdown", "output format: markdown, latex, typst")
	_ = queryRangeCmd.MarkFlagRequired("start")
	_ = queryRangeCmd.MarkFlagRequired("end")

	queryCmd.AddCommand(queryDayCmd, queryMonthCmd, queryWeekCmd, queryYearCmd, queryPeriodCmd, queryRangeCmd)
}
