// Package format implements the formatter registry (C9) and the shared
// rendering helpers every format-specific formatter (C10, in the
// markdown/latex/typst subpackages) builds on: duration formatting,
// deterministic child ordering, and the "empty"/"invalid" sentences.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// Format names one of the three supported output formats.
type Format string

const (
	Markdown Format = "markdown"
	LaTeX    Format = "latex"
	Typst    Format = "typst"
)

// Style carries the presentation settings every formatter consumes:
// the sentences shown for the empty/invalid states and the keyword→color
// map LaTeX and Typst use to highlight matching project paths.
type Style struct {
	NoRecordsSentence string
	InvalidSentence   string
	KeywordColors     map[string]string // e.g. "study" -> "blue"
}

// DefaultStyle returns the baseline style used when the bundle does not
// override it (spec.md §4.10's keyword list: study/recreation/meal/
// exercise/routine/sleep/code).
func DefaultStyle() Style {
	return Style{
		NoRecordsSentence: "No records for this period.",
		InvalidSentence:   "Invalid query.",
		KeywordColors: map[string]string{
			"study":      "blue",
			"recreation": "orange",
			"meal":       "green",
			"exercise":   "red",
			"routine":    "gray",
			"sleep":      "purple",
			"code":       "teal",
		},
	}
}

// Formatter renders one ReportData as text, in one of the three formats.
type Formatter interface {
	Render(data model.ReportData, style Style) (string, error)
}

// kindName maps a ReportKind to the bundle.toml path-table key used to
// gate its (kind, format) registration. Range reuses Period's capability
// key: spec.md §6 never declares a separate paths.reports.*.range entry,
// and a Range report is presentationally the same bounded-window shape
// as a Period report (actual_days + averaging), so registering one gates
// both appropriately rather than leaving Range permanently ungated.
func kindName(kind model.ReportKind) string {
	switch kind {
	case model.ReportKindDaily:
		return "day"
	case model.ReportKindMonthly:
		return "month"
	case model.ReportKindWeekly:
		return "week"
	case model.ReportKindYearly:
		return "year"
	case model.ReportKindPeriod, model.ReportKindRange:
		return "period"
	default:
		return ""
	}
}

// Registry maps (ReportKind, Format) to a Formatter, populated once at
// startup from which report template paths the bundle actually declares.
type Registry struct {
	style      Style
	formatters map[Format]Formatter
	declared   map[Format]map[string]bool
}

// NewRegistry builds a Registry from b's declared report paths and the
// three built-in formatters.
func NewRegistry(b *bundle.Bundle, style Style, formatters map[Format]Formatter) *Registry {
	declared := map[Format]map[string]bool{}
	for _, f := range []Format{Markdown, LaTeX, Typst} {
		declared[f] = map[string]bool{}
		for _, kindKey := range []string{"day", "month", "period", "week", "year"} {
			if _, ok := b.TemplatePath(string(f), kindKey); ok {
				declared[f][kindKey] = true
			}
		}
	}
	return &Registry{style: style, formatters: formatters, declared: declared}
}

// FormatterMissing reports that (kind, format) was not declared in the
// bundle's report paths.
type FormatterMissing struct {
	Kind   model.ReportKind
	Format Format
}

func (e *FormatterMissing) Error() string {
	return fmt.Sprintf("FormatterMissing: no %s formatter registered for %s reports", e.Format, e.Kind)
}

// Render looks up the formatter for (data.Kind, format) and renders data,
// or returns a wrapped FormatterMissing if that pair was never declared.
func (r *Registry) Render(data model.ReportData, format Format) (string, error) {
	const op = "format.Render"

	kindKey := kindName(data.Kind)
	if kindKey == "" || !r.declared[format][kindKey] {
		return "", xerrors.Wrap(xerrors.KindFormatterMissing, op, "formatter not registered",
			&FormatterMissing{Kind: data.Kind, Format: format})
	}
	formatter, ok := r.formatters[format]
	if !ok {
		return "", xerrors.Wrap(xerrors.KindFormatterMissing, op, "formatter not registered",
			&FormatterMissing{Kind: data.Kind, Format: format})
	}
	return formatter.Render(data, r.style)
}

// FormatHM renders a duration in seconds as zero-padded "HH:MM", per spec.md's
// "03:00" style daily study-time example.
func FormatHM(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// SortedChildren returns t's children ordered by descending duration,
// ties broken by ascending name (P7), the order every formatter renders
// a project tree's siblings in.
func SortedChildren(t *model.ProjectTree) []*model.ProjectTree {
	out := make([]*model.ProjectTree, 0, len(t.Children))
	for _, c := range t.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DurationSeconds != out[j].DurationSeconds {
			return out[i].DurationSeconds > out[j].DurationSeconds
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// KeywordColor returns the configured color for a keyword in
// style.KeywordColors that appears in path, and whether one matched. When
// several keywords appear in path, which one's color is returned is not
// defined (KeywordColors is a map).
func KeywordColor(style Style, path string) (string, bool) {
	for kw, color := range style.KeywordColors {
		if strings.Contains(path, kw) {
			return color, true
		}
	}
	return "", false
}
