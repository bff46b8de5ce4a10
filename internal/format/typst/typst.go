// Package typst implements the Typst formatter (C10): a #set text(...)
// header followed by the report body, coloring project names that
// contain a configured keyword via #text(<color>)[...].
package typst

import (
	"fmt"
	"strings"

	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
)

// Formatter is the Typst implementation of format.Formatter.
type Formatter struct {
	BaseFont string
	SizePt   float64
	SpaceEm  float64
}

// NewFormatter returns a Formatter with spec.md's baseline header
// settings; override the fields directly for a bundle-declared style.
func NewFormatter() Formatter {
	return Formatter{BaseFont: "Latin Modern Roman", SizePt: 11, SpaceEm: 1.2}
}

func (f Formatter) Render(data model.ReportData, style format.Style) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "#set text(font: \"%s\", size: %gpt, spacing: %gem)\n\n", f.BaseFont, f.SizePt, f.SpaceEm)

	if data.IsInvalid() {
		b.WriteString(style.InvalidSentence)
		b.WriteString("\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "= %s\n\n", title(data))

	if data.IsEmpty() {
		b.WriteString(style.NoRecordsSentence)
		b.WriteString("\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Total: %s\n\n", format.FormatHM(data.TotalDurationSeconds))
	if data.Kind == model.ReportKindPeriod || data.Kind == model.ReportKindRange {
		fmt.Fprintf(&b, "Days: %d\n\n", data.ActualDays)
	}

	if data.ProjectTree != nil {
		renderTree(&b, data.ProjectTree, 0, style)
	}

	if data.Kind == model.ReportKindDaily && len(data.DetailedRecords) > 0 {
		b.WriteString("\n== Activities\n\n")
		for _, a := range data.DetailedRecords {
			fmt.Fprintf(&b, "- %s--%s %s (%s)\n", a.StartStr, a.EndStr, colorize(a.ProjectPath, style), format.FormatHM(a.DurationSeconds))
			if a.Remark != "" {
				fmt.Fprintf(&b, "  #text(size: 9pt)[%s]\n", a.Remark)
			}
		}
	}

	return b.String(), nil
}

func renderTree(b *strings.Builder, node *model.ProjectTree, depth int, style format.Style) {
	for _, child := range format.SortedChildren(node) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(b, "%s- %s: %s\n", indent, colorize(child.Name, style), format.FormatHM(child.DurationSeconds))
		renderTree(b, child, depth+1, style)
	}
}

func colorize(path string, style format.Style) string {
	if color, ok := format.KeywordColor(style, path); ok {
		return fmt.Sprintf("#text(%s)[%s]", color, path)
	}
	return path
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
