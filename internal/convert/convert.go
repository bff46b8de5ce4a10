// Package convert implements the converter (C4): turns a stream of raw,
// already-validated DailyLog days into fully materialized ProcessedActivity
// intervals, carrying the last unfinished activity of one day across the
// midnight boundary into the next.
package convert

import (
	"fmt"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/pkg/timeutil"
)

// InvalidLog reports a day the converter could not process — a
// programmer error in practice, since the source validator should have
// rejected the input first (spec.md §4.4 "Failure mode").
type InvalidLog struct {
	Day    string
	Reason string
}

func (e *InvalidLog) Error() string {
	return fmt.Sprintf("invalid log for day %s: %s", e.Day, e.Reason)
}

// Tail describes the last (possibly unfinished) activity of a day, used
// to stitch a continuation day's first segment.
type Tail struct {
	Valid       bool
	EndTS       int64
	ProjectPath string
}

// Convert processes days in order, threading a Tail across day
// boundaries. It returns the same days with ProcessedActivities, Stats,
// GetupTime, IsContinuation and the Has*Activity flags populated, plus
// the Tail of the final day (for a caller processing further months).
func Convert(days []model.DailyLog, cfg *bundle.IntervalConfig, startTail Tail) ([]model.DailyLog, Tail, error) {
	tail := startTail
	out := make([]model.DailyLog, 0, len(days))

	for i := range days {
		day := days[i]
		var err error
		day, tail, err = convertDay(day, cfg, tail)
		if err != nil {
			return nil, Tail{}, err
		}
		out = append(out, day)
	}

	out = collapseLeadingCrossYearPlaceholder(out)
	return out, tail, nil
}

func convertDay(day model.DailyLog, cfg *bundle.IntervalConfig, prevTail Tail) (model.DailyLog, Tail, error) {
	// Step 1: wake detection.
	day.GetupTime = ""
	wakeIdx := -1
	for i, ev := range day.RawEvents {
		if cfg.IsWakeKeyword(ev.Text) {
			wakeIdx = i
			day.GetupTime = ev.Time
			break
		}
	}
	if wakeIdx < 0 && len(day.RawEvents) > 0 {
		day.IsContinuation = true
	}

	if len(day.RawEvents) == 0 {
		day.ProcessedActivities = nil
		day.ActivityCount = 0
		day.Stats = model.DayStats{}
		return day, prevTail, nil
	}

	var activities []model.ProcessedActivity
	logicalID := 1

	firstTS, err := timeutil.ToEpochSeconds(day.Date, day.RawEvents[0].Time)
	if err != nil {
		return model.DailyLog{}, Tail{}, &InvalidLog{Day: day.Date, Reason: err.Error()}
	}

	// Step 2: continuation stitching.
	if day.IsContinuation && prevTail.Valid {
		activities = append(activities, model.ProcessedActivity{
			LogicalID:       logicalID,
			StartTS:         prevTail.EndTS,
			EndTS:           firstTS,
			StartStr:        timeutil.FromEpochSeconds(prevTail.EndTS),
			EndStr:          timeutil.FromEpochSeconds(firstTS),
			ProjectPath:     prevTail.ProjectPath,
			DurationSeconds: firstTS - prevTail.EndTS,
		})
		logicalID++
	}

	// Steps 3-5: interval materialization, midnight crossing, duration-rule keywords.
	cursor := firstTS
	n := len(day.RawEvents)
	for i := 0; i < n-1; i++ {
		ev := day.RawEvents[i]
		startTS := cursor

		projectPath := resolveProjectPath(cfg, ev.Text)

		var endTS int64
		if minutes, ok := cfg.DurationRule(ev.Text); ok {
			endTS = startTS + int64(minutes)*60
		} else {
			nextTS, err := timeutil.ToEpochSeconds(day.Date, day.RawEvents[i+1].Time)
			if err != nil {
				return model.DailyLog{}, Tail{}, &InvalidLog{Day: day.Date, Reason: err.Error()}
			}
			if nextTS < startTS {
				nextTS += timeutil.DaySeconds
			}
			endTS = nextTS
		}

		if endTS <= startTS {
			// Zero-length intervals are allowed internally but never
			// inserted (invariant 1); collapse the cursor and skip.
			cursor = endTS
			continue
		}

		activities = append(activities, model.ProcessedActivity{
			LogicalID:       logicalID,
			StartTS:         startTS,
			EndTS:           endTS,
			StartStr:        timeutil.FromEpochSeconds(startTS),
			EndStr:          timeutil.FromEpochSeconds(endTS),
			ProjectPath:     projectPath,
			DurationSeconds: endTS - startTS,
			Remark:          ev.Remark,
		})
		logicalID++
		cursor = endTS
	}

	// The last event starts an unfinished activity, carried forward as
	// the new Tail rather than materialized here.
	lastEvent := day.RawEvents[n-1]
	newTail := Tail{
		Valid:       true,
		EndTS:       cursor,
		ProjectPath: resolveProjectPath(cfg, lastEvent.Text),
	}

	day.ProcessedActivities = activities
	day.ActivityCount = len(activities)
	day.Stats = computeStats(activities)
	day.HasStudyActivity = day.Stats.TotalStudyTime > 0
	day.HasExerciseActivity = day.Stats.TotalExerciseTime > 0
	day.HasSleepActivity = day.Stats.SleepTotalTime > 0

	return day, newTail, nil
}

// resolveProjectPath maps event text to its project path: a declared
// alias if one exists, else the text verbatim (this covers wake keywords
// and any other bare activity text the bundle didn't alias).
func resolveProjectPath(cfg *bundle.IntervalConfig, text string) string {
	if path, ok := cfg.ResolveAlias(text); ok {
		return path
	}
	return text
}

// collapseLeadingCrossYearPlaceholder implements spec.md §4.4 step 7: a
// multi-day batch whose first day is an empty December placeholder
// immediately followed by a January day is a continuity seed, not a real
// day, and is dropped from the output.
func collapseLeadingCrossYearPlaceholder(days []model.DailyLog) []model.DailyLog {
	if len(days) < 2 {
		return days
	}
	first, second := days[0], days[1]
	if len(first.RawEvents) != 0 {
		return days
	}
	if len(first.Date) < 7 || len(second.Date) < 7 {
		return days
	}
	firstYear, firstMonth := first.Date[0:4], first.Date[5:7]
	secondYear, secondMonth := second.Date[0:4], second.Date[5:7]
	if firstMonth != "12" || secondMonth != "01" {
		return days
	}
	var fy, sy int
	if _, err := fmt.Sscanf(firstYear, "%d", &fy); err != nil {
		return days
	}
	if _, err := fmt.Sscanf(secondYear, "%d", &sy); err != nil {
		return days
	}
	if sy != fy+1 {
		return days
	}
	return days[1:]
}
