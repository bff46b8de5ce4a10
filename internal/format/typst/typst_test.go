package typst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
)

func TestRenderEmitsTextSetHeader(t *testing.T) {
	f := NewFormatter()
	data := model.ReportData{Kind: model.ReportKindDaily, Date: "2026-02-01"}
	out, err := f.Render(data, format.DefaultStyle())
	require.NoError(t, err)
	assert.Contains(t, out, `#set text(font: "Latin Modern Roman"`)
	assert.Contains(t, out, format.DefaultStyle().NoRecordsSentence)
}

func TestRenderColorsKeywordMatches(t *testing.T) {
	f := NewFormatter()
	tree := model.NewProjectTree("root")
	tree.Add([]string{"study", "math"}, 100)
	data := model.ReportData{
		Kind: model.ReportKindDaily, Date: "2026-02-01",
		TotalDurationSeconds: 100,
		ProjectTree:          tree,
	}
	out, err := f.Render(data, format.DefaultStyle())
	require.NoError(t, err)
	assert.Contains(t, out, "#text(blue)[study]")
}
