package convert

import (
	"strings"

	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/projectpath"
)

// computeStats sums processed-activity durations by category, keyed off
// the root segment of each activity's project path (spec.md §3's Day
// category buckets, mirrored in the converted-day JSON's generated_stats
// object).
func computeStats(activities []model.ProcessedActivity) model.DayStats {
	var s model.DayStats
	for _, a := range activities {
		segs := strings.Split(a.ProjectPath, projectpath.Separator)
		if len(segs) == 0 {
			continue
		}
		root := segs[0]
		sub := ""
		if len(segs) > 1 {
			sub = segs[1]
		}
		d := a.DurationSeconds

		switch root {
		case "sleep":
			s.SleepTotalTime += d
			switch sub {
			case "night":
				s.SleepNightTime += d
			case "day":
				s.SleepDayTime += d
			}
		case "exercise":
			s.TotalExerciseTime += d
			switch sub {
			case "cardio":
				s.CardioTime += d
			case "anaerobic":
				s.AnaerobicTime += d
			default:
				s.ExerciseBothTime += d
			}
		case "grooming":
			s.GroomingTime += d
		case "toilet":
			s.ToiletTime += d
		case "gaming":
			s.GamingTime += d
		case "recreation":
			s.RecreationTime += d
			switch sub {
			case "zhihu":
				s.RecreationZhihuTime += d
			case "bilibili":
				s.RecreationBilibiliTime += d
			case "douyin":
				s.RecreationDouyinTime += d
			}
		case "study":
			s.TotalStudyTime += d
		}
	}
	return s
}
