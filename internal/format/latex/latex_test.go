package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
)

func TestEscapeHandlesAllSpecialCharacters(t *testing.T) {
	got := Escape(`50% & $5 #1 _a {b}`)
	assert.Equal(t, `50\% \& \$5 \#1 \_a \{b\}`, got)
}

func TestRenderWrapsDocumentAndEscapesRemarks(t *testing.T) {
	tree := model.NewProjectTree("root")
	tree.Add([]string{"study", "math"}, 100)
	data := model.ReportData{
		Kind: model.ReportKindDaily, Date: "2026-02-01",
		TotalDurationSeconds: 100,
		ProjectTree:          tree,
		DetailedRecords: []model.DetailedActivity{
			{StartStr: "09:00", EndStr: "09:01", ProjectPath: "study_math", DurationSeconds: 100, Remark: "50% done"},
		},
	}
	out, err := Formatter{}.Render(data, format.DefaultStyle())
	require.NoError(t, err)
	assert.Contains(t, out, `\documentclass`)
	assert.Contains(t, out, `\end{document}`)
	assert.Contains(t, out, `50\% done`)
	assert.Contains(t, out, `\textcolor{blue}{study}`)
}

func TestRenderInvalidAndEmptyStates(t *testing.T) {
	invalid := model.ReportData{Kind: model.ReportKindDaily, Date: model.InvalidIdentifier}
	out, err := Formatter{}.Render(invalid, format.DefaultStyle())
	require.NoError(t, err)
	assert.Contains(t, out, format.DefaultStyle().InvalidSentence)

	empty := model.ReportData{Kind: model.ReportKindDaily, Date: "2026-02-01"}
	out, err = Formatter{}.Render(empty, format.DefaultStyle())
	require.NoError(t, err)
	assert.Contains(t, out, format.DefaultStyle().NoRecordsSentence)
}
