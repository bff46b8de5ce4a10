package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronotrace/timemaster/internal/facade"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Enumerate what's stored in the database",
}

var dataYearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List years with at least one recorded day",
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster data years"
		out := app.Facade.RunDataQuery(cmd.Context(), facade.DataQueryRequest{Scope: "years"})
		if !out.OK {
			return ackError(op, out.ErrorKind, out.ErrorMessage)
		}
		for _, y := range out.Years {
			fmt.Println(y)
		}
		return nil
	},
}

var dataMonthsYear int

var dataMonthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List months with at least one recorded day within a year",
	Example: `  timemaster data months --year=2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster data months"
		out := app.Facade.RunDataQuery(cmd.Context(), facade.DataQueryRequest{Scope: "months", Year: dataMonthsYear})
		if !out.OK {
			return ackError(op, out.ErrorKind, out.ErrorMessage)
		}
		for _, m := range out.Months {
			fmt.Printf("%04d-%02d\n", dataMonthsYear, m)
		}
		return nil
	},
}

var dataDaysYearMonth string

var dataDaysCmd = &cobra.Command{
	Use:   "days",
	Short: "List recorded days within a year-month",
	Example: `  timemaster data days --year-month=2026-07`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster data days"
		out := app.Facade.RunDataQuery(cmd.Context(), facade.DataQueryRequest{Scope: "days", YearMonth: dataDaysYearMonth})
		if !out.OK {
			return ackError(op, out.ErrorKind, out.ErrorMessage)
		}
		for _, d := range out.Days {
			fmt.Println(d)
		}
		return nil
	},
}

func init() {
	dataMonthsCmd.Flags().IntVar(&dataMonthsYear, "year", 0, "year, YYYY (required)")
	_ = dataMonthsCmd.MarkFlagRequired("year")

	dataDaysCmd.Flags().StringVar(&dataDaysYearMonth, "year-month", "", "year and month, YYYY-MM (required)")
	_ = dataDaysCmd.MarkFlagRequired("year-month")

	dataCmd.AddCommand(dataYearsCmd, dataMonthsCmd, dataDaysCmd)
}
