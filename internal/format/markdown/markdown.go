// Package markdown implements the Markdown formatter (C10): "##"-level
// titles, a nested bullet-list project tree indented two spaces per
// depth level, and a plain detailed-activities section for daily
// reports.
package markdown

import (
	"fmt"
	"strings"

	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
)

// Formatter is the Markdown implementation of format.Formatter.
type Formatter struct{}

func (Formatter) Render(data model.ReportData, style format.Style) (string, error) {
	if data.IsInvalid() {
		return style.InvalidSentence, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title(data))

	if data.IsEmpty() {
		b.WriteString(style.NoRecordsSentence)
		b.WriteString("\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Total: %s\n", format.FormatHM(data.TotalDurationSeconds))
	if data.Kind == model.ReportKindPeriod || data.Kind == model.ReportKindRange {
		fmt.Fprintf(&b, "Days: %d\n", data.ActualDays)
	}
	b.WriteString("\n")

	if data.ProjectTree != nil {
		renderTree(&b, data.ProjectTree, 0)
	}

	if data.Kind == model.ReportKindDaily && len(data.DetailedRecords) > 0 {
		b.WriteString("\n### Activities\n\n")
		for _, a := range data.DetailedRecords {
			fmt.Fprintf(&b, "- %s-%s %s (%s)\n", a.StartStr, a.EndStr, a.ProjectPath, format.FormatHM(a.DurationSeconds))
			if a.Remark != "" {
				fmt.Fprintf(&b, "  %s\n", a.Remark)
			}
		}
	}

	return b.String(), nil
}

func renderTree(b *strings.Builder, node *model.ProjectTree, depth int) {
	for _, child := range format.SortedChildren(node) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(b, "%s- %s: %s\n", indent, child.Name, format.FormatHM(child.DurationSeconds))
		renderTree(b, child, depth+1)
	}
}

func title(data model.ReportData) string {
	switch data.Kind {
	case model.ReportKindDaily:
		return "Daily report: " + data.Date
	case model.ReportKindMonthly:
		return "Monthly report: " + data.YearMonth
	case model.ReportKindWeekly:
		return "Weekly report: " + data.ISOWeek
	case model.ReportKindYearly:
		return "Yearly report: " + data.Year
	case model.ReportKindPeriod:
		return fmt.Sprintf("Period report: last %d days", data.DaysToQuery)
	default:
		return fmt.Sprintf("Range report: %s..%s", data.StartDate, data.EndDate)
	}
}
