// Package outputvalidate implements the output validator (C5):
// post-conversion structural checks on a batch of converted days.
package outputvalidate

import (
	"fmt"

	"github.com/chronotrace/timemaster/internal/calendar"
	"github.com/chronotrace/timemaster/internal/model"
)

// DateCheckMode controls how strictly consecutive days are checked.
type DateCheckMode string

const (
	DateCheckNone       DateCheckMode = "none"
	DateCheckContinuity DateCheckMode = "continuity"
	DateCheckFull       DateCheckMode = "full"
)

// maxSaneActivityHours is the sanity cap noted in spec.md §9: a single
// activity longer than this is flagged as a warning-level issue, never a
// hard failure, since long but legitimate activities (an all-nighter
// study session) do happen.
const maxSaneActivityHours = 16

// IssueKind classifies a single validation issue.
type IssueKind string

const (
	IssueStructural IssueKind = "structural"
	IssueLogical    IssueKind = "logical"
	IssueWarning    IssueKind = "warning"
)

// Issue is one accumulated validation issue.
type Issue struct {
	Date    string
	Message string
	Kind    IssueKind
}

// Result is the outcome of a validation run. OK reflects only
// non-warning issues; warnings never flip OK to false.
type Result struct {
	OK     bool
	Issues []Issue
}

func (r *Result) add(date string, kind IssueKind, msg string) {
	r.Issues = append(r.Issues, Issue{Date: date, Kind: kind, Message: msg})
	if kind != IssueWarning {
		r.OK = false
	}
}

// Validate checks days against invariants 1-3 (positive durations,
// contiguous coverage with monotonic ids, continuation stitching) plus the
// requested date continuity mode and the activity_count field consistency
// (spec.md §4.5). Continuation stitching is checked between consecutive
// days of the batch that both have activities.
func Validate(days []model.DailyLog, mode DateCheckMode) Result {
	result := Result{OK: true}

	var prevDate string
	havePrev := false
	var prevLastEnd int64
	havePrevLast := false

	for _, day := range days {
		validateInvariants(&result, day)

		acts := day.ProcessedActivities
		if day.IsContinuation && havePrevLast && len(acts) > 0 && acts[0].StartTS != prevLastEnd {
			result.add(day.Date, IssueLogical, "continuation day does not start where the previous day ended")
		}
		havePrevLast = len(acts) > 0
		if havePrevLast {
			prevLastEnd = acts[len(acts)-1].EndTS
		}

		switch mode {
		case DateCheckContinuity:
			if havePrev {
				expected, err := calendar.AddDays(prevDate, 1)
				if err == nil && expected != day.Date {
					result.add(day.Date, IssueStructural, "date gap: expected "+expected+" after "+prevDate)
				}
			}
		case DateCheckFull:
			if havePrev {
				cmp, err := calendar.Compare(prevDate, day.Date)
				if err != nil || cmp >= 0 {
					result.add(day.Date, IssueStructural, "dates must be sorted ascending with no duplicates: "+prevDate+" then "+day.Date)
				}
			}
		}
		prevDate = day.Date
		havePrev = true
	}

	return result
}

func validateInvariants(result *Result, day model.DailyLog) {
	acts := day.ProcessedActivities

	expectedID := 1
	var prevEnd int64
	havePrev := false

	for _, a := range acts {
		if a.DurationSeconds <= 0 {
			result.add(day.Date, IssueLogical, fmt.Sprintf("activity %d has non-positive duration", a.LogicalID))
		}
		if a.LogicalID != expectedID {
			result.add(day.Date, IssueLogical, fmt.Sprintf("logical_id out of sequence: expected %d, got %d", expectedID, a.LogicalID))
		}
		expectedID++

		if havePrev && a.StartTS != prevEnd {
			result.add(day.Date, IssueLogical, fmt.Sprintf("activity %d does not start where the previous one ended", a.LogicalID))
		}
		prevEnd = a.EndTS
		havePrev = true

		if a.DurationSeconds > maxSaneActivityHours*3600 {
			result.add(day.Date, IssueWarning, fmt.Sprintf("activity %d exceeds the %dh sanity cap", a.LogicalID, maxSaneActivityHours))
		}
	}

	if day.ActivityCount != len(acts) {
		result.add(day.Date, IssueStructural, "activity_count does not match the number of processed activities")
	}
}
