package jsonday

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/model"
)

func sampleDay() model.DailyLog {
	return model.DailyLog{
		Date:      "2026-02-01",
		GetupTime: "07:00",
		ProcessedActivities: []model.ProcessedActivity{
			{LogicalID: 1, StartTS: 100, EndTS: 11000, StartStr: "07:00", EndStr: "10:03", ProjectPath: "study_math", DurationSeconds: 10900, Remark: "derivatives"},
			{LogicalID: 2, StartTS: 11000, EndTS: 12000, StartStr: "10:03", EndStr: "10:20", ProjectPath: "meal", DurationSeconds: 1000},
		},
		ActivityCount:       2,
		HasStudyActivity:     true,
		Stats: model.DayStats{TotalStudyTime: 10900},
	}
}

func TestMarshalUnmarshalRoundTripsActivityFields(t *testing.T) {
	days := []model.DailyLog{sampleDay()}
	data, err := Marshal(days)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "2026-02-01", got[0].Date)
	assert.Equal(t, "07:00", got[0].GetupTime)
	assert.Equal(t, 2, got[0].ActivityCount)
	require.Len(t, got[0].ProcessedActivities, 2)
	assert.Equal(t, "study_math", got[0].ProcessedActivities[0].ProjectPath)
	assert.Equal(t, "derivatives", got[0].ProcessedActivities[0].Remark)
	assert.Equal(t, "", got[0].ProcessedActivities[1].Remark)
	assert.Equal(t, int64(10900), got[0].Stats.TotalStudyTime)
}

func TestMarshalRendersNullGetupAsSentinelString(t *testing.T) {
	day := sampleDay()
	day.GetupTime = ""
	data, err := Marshal([]model.DailyLog{day})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"getup": "Null"`))

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "", got[0].GetupTime)
}
