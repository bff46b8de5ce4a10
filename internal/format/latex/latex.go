// Package latex implements the LaTeX formatter (C10): a self-contained
// document (preamble → content → postfix) with keyword-colored project
// names and escaped user-provided text.
package latex

import (
	"fmt"
	"strings"

	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
)

// Formatter is the LaTeX implementation of format.Formatter.
type Formatter struct{}

var escaper = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
)

// Escape escapes the LaTeX special characters spec.md §4.10 names
// (`& % $ # _ { }`) in s.
func Escape(s string) string {
	return escaper.Replace(s)
}

func (Formatter) Render(data model.ReportData, style format.Style) (string, error) {
	var b strings.Builder
	writePreamble(&b)

	if data.IsInvalid() {
		b.WriteString(Escape(style.InvalidSentence))
		b.WriteString("\n")
		writePostfix(&b)
		return b.String(), nil
	}

	fmt.Fprintf(&b, "\\section*{%s}\n\n", Escape(title(data)))

	if data.IsEmpty() {
		b.WriteString(Escape(style.NoRecordsSentence))
		b.WriteString("\n")
		writePostfix(&b)
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Total: %s\n\n", format.FormatHM(data.TotalDurationSeconds))
	if data.Kind == model.ReportKindPeriod || data.Kind == model.ReportKindRange {
		fmt.Fprintf(&b, "Days: %d\n\n", data.ActualDays)
	}

	if data.ProjectTree != nil {
		b.WriteString("\\begin{itemize}\n")
		renderTree(&b, data.ProjectTree, style)
		b.WriteString("\\end{itemize}\n")
	}

	if data.Kind == model.ReportKindDaily && len(data.DetailedRecords) > 0 {
		b.WriteString("\n\\subsection*{Activities}\n\\begin{itemize}\n")
		for _, a := range data.DetailedRecords {
			colored := colorize(a.ProjectPath, style)
			fmt.Fprintf(&b, "\\item %s--%s %s (%s)", Escape(a.StartStr), Escape(a.EndStr), colored, format.FormatHM(a.DurationSeconds))
			if a.Remark != "" {
				fmt.Fprintf(&b, " \\\\ %s", Escape(a.Remark))
			}
			b.WriteString("\n")
		}
		b.WriteString("\\end{itemize}\n")
	}

	writePostfix(&b)
	return b.String(), nil
}

func renderTree(b *strings.Builder, node *model.ProjectTree, style format.Style) {
	for _, child := range format.SortedChildren(node) {
		fmt.Fprintf(b, "\\item %s: %s\n", colorize(child.Name, style), format.FormatHM(child.DurationSeconds))
		if len(child.Children) > 0 {
			b.WriteString("\\begin{itemize}\n")
			renderTree(b, child, style)
			b.WriteString("\\end{itemize}\n")
		}
	}
}

func colorize(path string, style format.Style) string {
	escaped := Escape(path)
	if color, ok := format.KeywordColor(style, path); ok {
		return fmt.Sprintf("\\textcolor{%s}{%s}", color, escaped)
	}
	return escaped
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

// writePreamble emits the paper options, font families (Latin + CJK),
// list spacing, and keyword colors spec.md §4.10 requires every LaTeX
// report to declare.
func writePreamble(b *strings.Builder) {
	b.WriteString(`\documentclass[a4paper,11pt]{article}
\usepackage[margin=2cm]{geometry}
\usepackage{xcolor}
\usepackage{enumitem}
\usepackage{fontspec}
\setmainfont{Latin Modern Roman}
\usepackage{xeCJK}
\setCJKmainfont{Noto Serif CJK SC}
\setlist{itemsep=1pt,parsep=0pt,topsep=2pt}
\definecolor{study}{named}{blue}
\definecolor{recreation}{named}{orange}
\definecolor{meal}{named}{green}
\definecolor{exercise}{named}{red}
\definecolor{routine}{named}{gray}
\definecolor{sleep}{named}{purple}
\definecolor{code}{named}{teal}
\begin{document}
`)
}

func writePostfix(b *strings.Builder) {
	b.WriteString("\\end{document}\n")
}
