// Package query implements the query service (C8): turns a (period
// kind, argument) pair into a fully populated model.ReportData by
// deriving the date predicate, fetching aggregates from the repository,
// and rolling them up into a ProjectTree via the project path cache.
package query

import (
	"context"

	"github.com/chronotrace/timemaster/internal/calendar"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/projectpath"
	"github.com/chronotrace/timemaster/internal/store"
)

// Repository is the subset of internal/store's *DB the query service
// reads from.
type Repository interface {
	QueryRange(ctx context.Context, startDate, endDate string) ([]store.AggregateRow, int, error)
	DetailedActivitiesForDay(ctx context.Context, date string) ([]model.TimeRecord, error)
	DayByDate(ctx context.Context, date string) (model.Day, bool, error)
}

// Service answers report queries.
type Service struct {
	repo  Repository
	cache *projectpath.Cache
	clock calendar.Clock
}

// New builds a Service. clock is consulted only by QueryPeriod, which
// needs "today" to compute its rolling window.
func New(repo Repository, cache *projectpath.Cache, clock calendar.Clock) *Service {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &Service{repo: repo, cache: cache, clock: clock}
}

func invalid(kind model.ReportKind) model.ReportData {
	d := model.ReportData{Kind: kind}
	switch kind {
	case model.ReportKindDaily:
		d.Date = model.InvalidIdentifier
	case model.ReportKindMonthly:
		d.YearMonth = model.InvalidIdentifier
	case model.ReportKindWeekly:
		d.ISOWeek = model.InvalidIdentifier
	case model.ReportKindYearly:
		d.Year = model.InvalidIdentifier
	default:
		d.StartDate = model.InvalidIdentifier
	}
	return d
}

// QueryDaily returns the report for the single day date ("YYYY-MM-DD").
func (s *Service) QueryDaily(ctx context.Context, date string) (model.ReportData, error) {
	if !calendar.IsValid(date) {
		return invalid(model.ReportKindDaily), nil
	}
	data, err := s.build(ctx, model.ReportKindDaily, date, date)
	if err != nil {
		return model.ReportData{}, err
	}
	data.Date = date

	records, err := s.repo.DetailedActivitiesForDay(ctx, date)
	if err != nil {
		return model.ReportData{}, err
	}
	for _, r := range records {
		segs, err := s.cache.PathFor(ctx, r.ProjectID)
		path := ""
		if err == nil {
			path = joinSegments(segs)
		}
		data.DetailedRecords = append(data.DetailedRecords, model.DetailedActivity{
			StartStr:        r.Start,
			EndStr:          r.End,
			DurationSeconds: r.DurationSeconds,
			ProjectPath:     path,
			Remark:          r.ActivityRemark,
		})
	}

	if day, ok, err := s.repo.DayByDate(ctx, date); err == nil && ok {
		data.Stats = model.DayStats{
			TotalExerciseTime: day.TotalExerciseTime,
			CardioTime:        day.CardioTime,
			AnaerobicTime:     day.AnaerobicTime,
			ExerciseBothTime:  day.ExerciseBothTime,
		}
	}
	return data, nil
}

// QueryMonthly returns the report for yearMonth ("YYYY-MM").
func (s *Service) QueryMonthly(ctx context.Context, yearMonth string) (model.ReportData, error) {
	start, end, err := monthBounds(yearMonth)
	if err != nil {
		return invalid(model.ReportKindMonthly), nil
	}
	data, err := s.build(ctx, model.ReportKindMonthly, start, end)
	if err != nil {
		return model.ReportData{}, err
	}
	data.YearMonth = yearMonth
	return data, nil
}

// QueryYearly returns the report for year ("YYYY").
func (s *Service) QueryYearly(ctx context.Context, year string) (model.ReportData, error) {
	start, end, err := yearBounds(year)
	if err != nil {
		return invalid(model.ReportKindYearly), nil
	}
	data, err := s.build(ctx, model.ReportKindYearly, start, end)
	if err != nil {
		return model.ReportData{}, err
	}
	data.Year = year
	return data, nil
}

// QueryWeekly returns the report for the ISO week isoWeek ("GGGG-Www").
func (s *Service) QueryWeekly(ctx context.Context, isoWeek string) (model.ReportData, error) {
	start, end, err := calendar.ISOWeekBounds(isoWeek)
	if err != nil {
		return invalid(model.ReportKindWeekly), nil
	}
	data, err := s.build(ctx, model.ReportKindWeekly, start, end)
	if err != nil {
		return model.ReportData{}, err
	}
	data.ISOWeek = isoWeek
	return data, nil
}

// QueryPeriod returns the report for the rolling window of the last n
// days ending today, as given by the service's clock.
func (s *Service) QueryPeriod(ctx context.Context, n int) (model.ReportData, error) {
	if n <= 0 {
		return invalid(model.ReportKindPeriod), nil
	}
	start, end := calendar.NDaysAgo(s.clock, n)
	data, err := s.build(ctx, model.ReportKindPeriod, start, end)
	if err != nil {
		return model.ReportData{}, err
	}
	data.DaysToQuery = n
	data.StartDate, data.EndDate = start, end
	return data, nil
}

// QueryRange returns the report for the explicit inclusive bounds
// [startDate, endDate].
func (s *Service) QueryRange(ctx context.Context, startDate, endDate string) (model.ReportData, error) {
	if !calendar.IsValid(startDate) || !calendar.IsValid(endDate) {
		return invalid(model.ReportKindRange), nil
	}
	if cmp, err := calendar.Compare(startDate, endDate); err != nil || cmp > 0 {
		return invalid(model.ReportKindRange), nil
	}
	data, err := s.build(ctx, model.ReportKindRange, startDate, endDate)
	if err != nil {
		return model.ReportData{}, err
	}
	data.StartDate, data.EndDate = startDate, endDate
	return data, nil
}

// build runs the shared aggregate-fetch + tree-rollup steps common to
// every period kind (spec.md §4.8 steps 2, 4, 5).
func (s *Service) build(ctx context.Context, kind model.ReportKind, start, end string) (model.ReportData, error) {
	rows, actualDays, err := s.repo.QueryRange(ctx, start, end)
	if err != nil {
		return model.ReportData{}, err
	}

	data := model.ReportData{Kind: kind, ActualDays: actualDays}
	tree := model.NewProjectTree("root")

	for _, row := range rows {
		segs, err := s.cache.PathFor(ctx, row.ProjectID)
		if err != nil {
			continue
		}
		path := joinSegments(segs)
		data.Records = append(data.Records, model.ProjectRecord{ProjectPath: path, DurationSeconds: row.DurationSeconds})
		data.TotalDurationSeconds += row.DurationSeconds
		tree.Add(segs, row.DurationSeconds)
	}
	data.ProjectTree = tree
	return data, nil
}

func joinSegments(segs []string) string {
	out := ""
	for i, seg := range segs {
		if i > 0 {
			out += projectpath.Separator
		}
		out += seg
	}
	return out
}

func monthBounds(yearMonth string) (start, end string, err error) {
	start = yearMonth + "-01"
	t, parseErr := calendar.Parse(start)
	if parseErr != nil {
		return "", "", parseErr
	}
	lastDay := t.AddDate(0, 1, -1)
	return start, calendar.Format(lastDay), nil
}

func yearBounds(year string) (start, end string, err error) {
	start = year + "-01-01"
	if _, parseErr := calendar.Parse(start); parseErr != nil {
		return "", "", parseErr
	}
	end = year + "-12-31"
	return start, end, nil
}
