// Package jsonday implements the converted-day JSON file format
// (spec.md §6): the wire shape a month's worth of model.DailyLog values
// is serialized to by the pipeline's save_processed_output step and
// parsed back from by the import service's file-based entry point.
package jsonday

import (
	"encoding/json"
	"fmt"

	"github.com/chronotrace/timemaster/internal/model"
)

type wireDay struct {
	Headers        wireHeaders     `json:"headers"`
	Activities     []wireActivity  `json:"activities"`
	GeneratedStats wireStats       `json:"generated_stats"`
}

type wireHeaders struct {
	Date          string `json:"date"`
	Status        int    `json:"status"`
	Exercise      int    `json:"exercise"`
	Sleep         int    `json:"sleep"`
	Getup         string `json:"getup"` // "HH:MM" or "Null"
	ActivityCount int    `json:"activity_count"`
	Remark        string `json:"remark"`
}

type wireActivity struct {
	LogicalID       int            `json:"logical_id"`
	StartTimestamp  int64          `json:"start_timestamp"`
	EndTimestamp    int64          `json:"end_timestamp"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time"`
	DurationSeconds int64          `json:"duration_seconds"`
	ActivityRemark  *string        `json:"activity_remark"`
	Activity        wireActivityID `json:"activity"`
}

type wireActivityID struct {
	ProjectPath string `json:"project_path"`
}

type wireStats struct {
	SleepNightTime         int64 `json:"sleep_night_time"`
	SleepDayTime           int64 `json:"sleep_day_time"`
	SleepTotalTime         int64 `json:"sleep_total_time"`
	TotalExerciseTime      int64 `json:"total_exercise_time"`
	CardioTime             int64 `json:"cardio_time"`
	AnaerobicTime          int64 `json:"anaerobic_time"`
	ExerciseBothTime       int64 `json:"exercise_both_time"`
	GroomingTime           int64 `json:"grooming_time"`
	ToiletTime             int64 `json:"toilet_time"`
	GamingTime             int64 `json:"gaming_time"`
	RecreationTime         int64 `json:"recreation_time"`
	RecreationZhihuTime    int64 `json:"recreation_zhihu_time"`
	RecreationBilibiliTime int64 `json:"recreation_bilibili_time"`
	RecreationDouyinTime   int64 `json:"recreation_douyin_time"`
	TotalStudyTime         int64 `json:"total_study_time"`
}

// Marshal renders days as one month's converted-day JSON array.
func Marshal(days []model.DailyLog) ([]byte, error) {
	wire := make([]wireDay, len(days))
	for i, d := range days {
		wire[i] = toWire(d)
	}
	return json.MarshalIndent(wire, "", "  ")
}

// Unmarshal parses a converted-day JSON array back into DailyLog values.
// The round trip is lossy for fields the wire format never carries
// (raw_events, general_remarks, is_continuation) — callers that need
// those must re-derive them, not reload them.
func Unmarshal(data []byte) ([]model.DailyLog, error) {
	var wire []wireDay
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("jsonday: unmarshal: %w", err)
	}
	out := make([]model.DailyLog, len(wire))
	for i, w := range wire {
		out[i] = fromWire(w)
	}
	return out, nil
}

func toWire(d model.DailyLog) wireDay {
	getup := "Null"
	if d.GetupTime != "" {
		getup = d.GetupTime
	}
	status := 0
	if len(d.ProcessedActivities) > 0 {
		status = 1
	}

	w := wireDay{
		Headers: wireHeaders{
			Date:          d.Date,
			Status:        status,
			Exercise:      boolInt(d.HasExerciseActivity),
			Sleep:         boolInt(d.HasSleepActivity),
			Getup:         getup,
			ActivityCount: d.ActivityCount,
			Remark:        joinRemarks(d.GeneralRemarks),
		},
		GeneratedStats: wireStats{
			SleepNightTime:         d.Stats.SleepNightTime,
			SleepDayTime:           d.Stats.SleepDayTime,
			SleepTotalTime:         d.Stats.SleepTotalTime,
			TotalExerciseTime:      d.Stats.TotalExerciseTime,
			CardioTime:             d.Stats.CardioTime,
			AnaerobicTime:          d.Stats.AnaerobicTime,
			ExerciseBothTime:       d.Stats.ExerciseBothTime,
			GroomingTime:           d.Stats.GroomingTime,
			ToiletTime:             d.Stats.ToiletTime,
			GamingTime:             d.Stats.GamingTime,
			RecreationTime:         d.Stats.RecreationTime,
			RecreationZhihuTime:    d.Stats.RecreationZhihuTime,
			RecreationBilibiliTime: d.Stats.RecreationBilibiliTime,
			RecreationDouyinTime:   d.Stats.RecreationDouyinTime,
			TotalStudyTime:         d.Stats.TotalStudyTime,
		},
	}
	for _, a := range d.ProcessedActivities {
		var remark *string
		if a.Remark != "" {
			r := a.Remark
			remark = &r
		}
		w.Activities = append(w.Activities, wireActivity{
			LogicalID:       a.LogicalID,
			StartTimestamp:  a.StartTS,
			EndTimestamp:    a.EndTS,
			StartTime:       a.StartStr,
			EndTime:         a.EndStr,
			DurationSeconds: a.DurationSeconds,
			ActivityRemark:  remark,
			Activity:        wireActivityID{ProjectPath: a.ProjectPath},
		})
	}
	return w
}

func fromWire(w wireDay) model.DailyLog {
	getup := w.Headers.Getup
	if getup == "Null" {
		getup = ""
	}
	d := model.DailyLog{
		Date:      w.Headers.Date,
		GetupTime: getup,
		ActivityCount:       w.Headers.ActivityCount,
		HasExerciseActivity: w.Headers.Exercise == 1,
		HasSleepActivity:    w.Headers.Sleep == 1,
		Stats: model.DayStats{
			SleepNightTime:         w.GeneratedStats.SleepNightTime,
			SleepDayTime:           w.GeneratedStats.SleepDayTime,
			SleepTotalTime:         w.GeneratedStats.SleepTotalTime,
			TotalExerciseTime:      w.GeneratedStats.TotalExerciseTime,
			CardioTime:             w.GeneratedStats.CardioTime,
			AnaerobicTime:          w.GeneratedStats.AnaerobicTime,
			ExerciseBothTime:       w.GeneratedStats.ExerciseBothTime,
			GroomingTime:           w.GeneratedStats.GroomingTime,
			ToiletTime:             w.GeneratedStats.ToiletTime,
			GamingTime:             w.GeneratedStats.GamingTime,
			RecreationTime:         w.GeneratedStats.RecreationTime,
			RecreationZhihuTime:    w.GeneratedStats.RecreationZhihuTime,
			RecreationBilibiliTime: w.GeneratedStats.RecreationBilibiliTime,
			RecreationDouyinTime:   w.GeneratedStats.RecreationDouyinTime,
			TotalStudyTime:         w.GeneratedStats.TotalStudyTime,
		},
	}
	d.HasStudyActivity = d.Stats.TotalStudyTime > 0

	for _, a := range w.Activities {
		remark := ""
		if a.ActivityRemark != nil {
			remark = *a.ActivityRemark
		}
		d.ProcessedActivities = append(d.ProcessedActivities, model.ProcessedActivity{
			LogicalID:       a.LogicalID,
			StartTS:         a.StartTimestamp,
			EndTS:           a.EndTimestamp,
			StartStr:        a.StartTime,
			EndStr:          a.EndTime,
			ProjectPath:     a.Activity.ProjectPath,
			DurationSeconds: a.DurationSeconds,
			Remark:          remark,
		})
	}
	return d
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinRemarks(remarks []string) string {
	switch len(remarks) {
	case 0:
		return ""
	case 1:
		return remarks[0]
	default:
		out := remarks[0]
		for _, r := range remarks[1:] {
			out += "\n" + r
		}
		return out
	}
}
