package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
)

func TestRenderInvalidYieldsInvalidSentence(t *testing.T) {
	data := model.ReportData{Kind: model.ReportKindDaily, Date: model.InvalidIdentifier}
	out, err := Formatter{}.Render(data, format.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, format.DefaultStyle().InvalidSentence, out)
}

func TestRenderEmptyYieldsNoRecordsSentence(t *testing.T) {
	data := model.ReportData{Kind: model.ReportKindDaily, Date: "2026-02-01"}
	out, err := Formatter{}.Render(data, format.DefaultStyle())
	require.NoError(t, err)
	assert.Contains(t, out, format.DefaultStyle().NoRecordsSentence)
}

func TestRenderProjectTreeOrdersChildrenByDuration(t *testing.T) {
	tree := model.NewProjectTree("root")
	tree.Add([]string{"study", "math"}, 3600)
	tree.Add([]string{"sleep"}, 7200)

	data := model.ReportData{
		Kind: model.ReportKindDaily, Date: "2026-02-01",
		TotalDurationSeconds: 10800,
		ProjectTree:          tree,
	}
	out, err := Formatter{}.Render(data, format.DefaultStyle())
	require.NoError(t, err)

	sleepIdx := strings.Index(out, "- sleep:")
	studyIdx := strings.Index(out, "- study:")
	require.True(t, sleepIdx >= 0 && studyIdx >= 0)
	assert.Less(t, sleepIdx, studyIdx, "sleep (7200s) should render before study (3600s)")
	assert.Contains(t, out, "  - math: 01:00")
}

func TestRenderDailyDetailedActivities(t *testing.T) {
	data := model.ReportData{
		Kind: model.ReportKindDaily, Date: "2026-02-01",
		TotalDurationSeconds: 100,
		ProjectTree:          model.NewProjectTree("root"),
		DetailedRecords: []model.DetailedActivity{
			{StartStr: "09:00", EndStr: "09:01", ProjectPath: "study_math", DurationSeconds: 60, Remark: "derivatives"},
		},
	}
	out, err := Formatter{}.Render(data, format.DefaultStyle())
	require.NoError(t, err)
	assert.Contains(t, out, "09:00-09:01 study_math")
	assert.Contains(t, out, "derivatives")
}
