// Package importsvc implements the import service (C7): the thin
// orchestration layer between a converted batch of days and the
// repository's transactional insert, tracked with the same
// duration/success-counter idiom the teacher's usecase managers return
// from their batch operations.
package importsvc

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chronotrace/timemaster/internal/jsonday"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/projectpath"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// Repository is the subset of internal/store's *DB the import service
// depends on, kept narrow so it can be faked in tests.
type Repository interface {
	IsOpen() bool
	ImportData(ctx context.Context, days []model.Day, records []model.TimeRecord) error
	ReplaceMonth(ctx context.Context, yearMonth string, days []model.Day, records []model.TimeRecord) error
}

// Stats is the result of one import run (spec.md §4.7).
type Stats struct {
	RunID           string // uuid, identifies this run across logs/errors
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	ParseDuration   time.Duration
	InsertDuration  time.Duration
	DBOpenSuccess   bool
	TxSuccess       bool
	ReplacedMonth   string // "" unless a single-month replace ran
	ErrorMessage    string
}

// Service ties a Repository and a projectpath.Cache together.
type Service struct {
	repo  Repository
	cache *projectpath.Cache
}

// New builds a Service over repo, resolving project paths through cache.
func New(repo Repository, cache *projectpath.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ImportFromFiles parses each path as a JSON-encoded month of
// model.DailyLog (the pipeline's save_processed_output shape),
// concatenates them, and imports in append mode, unless exactly one file
// is given and it names a single target month, in which case it
// replaces that month instead (spec.md §4.7).
func (s *Service) ImportFromFiles(ctx context.Context, paths []string) Stats {
	stats := Stats{RunID: uuid.NewString(), TotalFiles: len(paths), DBOpenSuccess: s.repo.IsOpen()}
	if !stats.DBOpenSuccess {
		stats.ErrorMessage = "database is not open"
		return stats
	}

	parseStart := time.Now()
	byMonth := make(map[string][]model.DailyLog)
	for _, p := range paths {
		days, err := loadMonthFile(p)
		if err != nil {
			stats.FailedFiles++
			stats.ErrorMessage = err.Error()
			continue
		}
		stats.SuccessfulFiles++
		for _, d := range days {
			month := monthOf(d.Date)
			byMonth[month] = append(byMonth[month], d)
		}
	}
	stats.ParseDuration = time.Since(parseStart)

	if stats.SuccessfulFiles == 0 {
		if stats.ErrorMessage == "" {
			stats.ErrorMessage = "no input files"
		}
		return stats
	}

	insertStart := time.Now()
	var replaced string
	if len(paths) == 1 && len(byMonth) == 1 {
		for month := range byMonth {
			replaced = month
		}
	}
	err := s.importBatch(ctx, byMonth, replaced)
	stats.InsertDuration = time.Since(insertStart)
	if err != nil {
		stats.ErrorMessage = err.Error()
		return stats
	}
	stats.TxSuccess = true
	stats.ReplacedMonth = replaced
	return stats
}

// ImportFromMemory flattens an in-memory map<YYYY-MM, []model.DailyLog>
// through the same days/records adapter ImportFromFiles uses, bypassing
// file IO entirely (the pipeline's memory-fast-path per spec.md §4.11).
func (s *Service) ImportFromMemory(ctx context.Context, byMonth map[string][]model.DailyLog) Stats {
	stats := Stats{RunID: uuid.NewString(), DBOpenSuccess: s.repo.IsOpen()}
	if !stats.DBOpenSuccess {
		stats.ErrorMessage = "database is not open"
		return stats
	}

	var replaced string
	if len(byMonth) == 1 {
		for month := range byMonth {
			replaced = month
		}
	}

	insertStart := time.Now()
	err := s.importBatch(ctx, byMonth, replaced)
	stats.InsertDuration = time.Since(insertStart)
	if err != nil {
		stats.ErrorMessage = err.Error()
		return stats
	}
	stats.TxSuccess = true
	stats.ReplacedMonth = replaced
	return stats
}

func (s *Service) importBatch(ctx context.Context, byMonth map[string][]model.DailyLog, replaceMonth string) error {
	const op = "importsvc.importBatch"

	var allDays []model.DailyLog
	for _, days := range byMonth {
		allDays = append(allDays, days...)
	}

	days, records, err := s.adapt(ctx, allDays)
	if err != nil {
		return xerrors.Wrap(xerrors.KindLogic, op, "adapt daily logs to rows", err)
	}

	if replaceMonth != "" {
		return s.repo.ReplaceMonth(ctx, replaceMonth, days, records)
	}
	return s.repo.ImportData(ctx, days, records)
}

// adapt resolves every processed activity's ProjectPath through the
// cache (autocommitting any new project row, per the transaction-
// boundary decision in DESIGN.md) and flattens each DailyLog into its
// persisted Day row plus its TimeRecord rows.
func (s *Service) adapt(ctx context.Context, logs []model.DailyLog) ([]model.Day, []model.TimeRecord, error) {
	var days []model.Day
	var records []model.TimeRecord

	for _, log := range logs {
		year, month, err := yearMonthOf(log.Date)
		if err != nil {
			return nil, nil, err
		}

		status := 0
		if len(log.ProcessedActivities) > 0 {
			status = 1
		}
		sleep := 0
		if log.HasSleepActivity {
			sleep = 1
		}
		exercise := 0
		if log.HasExerciseActivity {
			exercise = 1
		}

		days = append(days, model.Day{
			Date:              log.Date,
			Year:              year,
			Month:             month,
			Status:            status,
			Sleep:             sleep,
			Remark:            strings.Join(log.GeneralRemarks, "\n"),
			GetupTime:         log.GetupTime,
			Exercise:          exercise,
			TotalExerciseTime: log.Stats.TotalExerciseTime,
			CardioTime:        log.Stats.CardioTime,
			AnaerobicTime:     log.Stats.AnaerobicTime,
			ExerciseBothTime:  log.Stats.ExerciseBothTime,
			ActivityCount:     log.ActivityCount,
		})

		for _, a := range log.ProcessedActivities {
			projectID, err := s.cache.ResolveOrCreate(ctx, a.ProjectPath)
			if err != nil {
				return nil, nil, fmt.Errorf("resolve project path %q: %w", a.ProjectPath, err)
			}
			records = append(records, model.TimeRecord{
				Date:            log.Date,
				LogicalID:       a.LogicalID,
				StartTimestamp:  a.StartTS,
				EndTimestamp:    a.EndTS,
				Start:           a.StartStr,
				End:             a.EndStr,
				ProjectID:       projectID,
				DurationSeconds: a.DurationSeconds,
				ActivityRemark:  a.Remark,
			})
		}
	}
	return days, records, nil
}

func loadMonthFile(path string) ([]model.DailyLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	days, err := jsonday.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return days, nil
}

func monthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

func yearMonthOf(date string) (year, month int, err error) {
	if len(date) < 7 {
		return 0, 0, fmt.Errorf("malformed date %q", date)
	}
	if _, err := fmt.Sscanf(date[:7], "%04d-%02d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("malformed date %q: %w", date, err)
	}
	return year, month, nil
}
