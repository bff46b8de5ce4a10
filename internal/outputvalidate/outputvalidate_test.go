package outputvalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/model"
)

func validDay(date string) model.DailyLog {
	acts := []model.ProcessedActivity{
		{LogicalID: 1, StartTS: 0, EndTS: 100, DurationSeconds: 100},
		{LogicalID: 2, StartTS: 100, EndTS: 200, DurationSeconds: 100},
	}
	return model.DailyLog{Date: date, ProcessedActivities: acts, ActivityCount: len(acts)}
}

func TestValidateAcceptsWellFormedDays(t *testing.T) {
	days := []model.DailyLog{validDay("2026-01-01"), validDay("2026-01-02")}
	r := Validate(days, DateCheckContinuity)
	require.True(t, r.OK, "%+v", r.Issues)
}

func TestValidateRejectsNonPositiveDuration(t *testing.T) {
	day := validDay("2026-01-01")
	day.ProcessedActivities[0].DurationSeconds = 0
	r := Validate([]model.DailyLog{day}, DateCheckNone)
	assert.False(t, r.OK)
}

func TestValidateRejectsOutOfSequenceLogicalID(t *testing.T) {
	day := validDay("2026-01-01")
	day.ProcessedActivities[1].LogicalID = 5
	r := Validate([]model.DailyLog{day}, DateCheckNone)
	assert.False(t, r.OK)
}

func TestValidateRejectsNonContiguousActivities(t *testing.T) {
	day := validDay("2026-01-01")
	day.ProcessedActivities[1].StartTS = 150 // should be 100
	r := Validate([]model.DailyLog{day}, DateCheckNone)
	assert.False(t, r.OK)
}

func TestValidateContinuityRejectsDateGap(t *testing.T) {
	days := []model.DailyLog{validDay("2026-01-01"), validDay("2026-01-03")}
	r := Validate(days, DateCheckContinuity)
	assert.False(t, r.OK)
}

func TestValidateFullRejectsDuplicateOrUnsortedDates(t *testing.T) {
	days := []model.DailyLog{validDay("2026-01-02"), validDay("2026-01-01")}
	r := Validate(days, DateCheckFull)
	assert.False(t, r.OK)
}

func TestValidateActivityCountMismatch(t *testing.T) {
	day := validDay("2026-01-01")
	day.ActivityCount = 99
	r := Validate([]model.DailyLog{day}, DateCheckNone)
	assert.False(t, r.OK)
}

func TestValidateLongActivityIsWarningOnly(t *testing.T) {
	day := validDay("2026-01-01")
	day.ProcessedActivities[0].EndTS = 17 * 3600
	day.ProcessedActivities[0].DurationSeconds = 17 * 3600
	day.ProcessedActivities[1].StartTS = 17 * 3600
	r := Validate([]model.DailyLog{day}, DateCheckNone)
	require.True(t, r.OK, "%+v", r.Issues)

	var sawWarning bool
	for _, iss := range r.Issues {
		if iss.Kind == IssueWarning {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning)
}
