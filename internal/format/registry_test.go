package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/model"
)

type stubFormatter struct{ out string }

func (s stubFormatter) Render(data model.ReportData, style Style) (string, error) {
	return s.out, nil
}

func writeFixtureBundle(t *testing.T) *bundle.Bundle {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	write("interval.toml", "x")
	write("heatmap.toml", "x")
	write("reports/day.md.tmpl", "x")

	write("bundle.toml", `
schema_version = 1
profile = "default"
[file_list]
required = []
optional = []
[paths.converter]
interval_config = "interval.toml"
[paths.visualization]
heatmap = "heatmap.toml"
[paths.reports.markdown]
day = "reports/day.md.tmpl"
`)

	b, err := bundle.Load(filepath.Join(dir, "bundle.toml"))
	require.NoError(t, err)
	return b
}

func TestRegistryRendersDeclaredFormatterAndRejectsUndeclared(t *testing.T) {
	b := writeFixtureBundle(t)
	formatters := map[Format]Formatter{
		Markdown: stubFormatter{out: "rendered"},
		LaTeX:    stubFormatter{out: "latex"},
	}
	reg := NewRegistry(b, DefaultStyle(), formatters)

	out, err := reg.Render(model.ReportData{Kind: model.ReportKindDaily, Date: "2026-02-01"}, Markdown)
	require.NoError(t, err)
	assert.Equal(t, "rendered", out)

	_, err = reg.Render(model.ReportData{Kind: model.ReportKindDaily, Date: "2026-02-01"}, LaTeX)
	assert.Error(t, err)
	var missing *FormatterMissing
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, model.ReportKindDaily, missing.Kind)
}

func TestRegistryRejectsUndeclaredKind(t *testing.T) {
	b := writeFixtureBundle(t)
	formatters := map[Format]Formatter{Markdown: stubFormatter{out: "rendered"}}
	reg := NewRegistry(b, DefaultStyle(), formatters)

	_, err := reg.Render(model.ReportData{Kind: model.ReportKindMonthly, YearMonth: "2026-02"}, Markdown)
	assert.Error(t, err)
}
