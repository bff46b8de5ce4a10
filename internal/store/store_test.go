package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/projectpath"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timemaster.db")
	db, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timemaster.db")
	db, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	db.Close()

	db2, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	defer db2.Close()
	require.True(t, db2.IsOpen())
}

func TestProjectCacheRoundtripsThroughStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cache := projectpath.New(db)

	id, err := cache.ResolveOrCreate(ctx, "study_math_calculus")
	require.NoError(t, err)

	segs, err := cache.PathFor(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"study", "math", "calculus"}, segs)

	// A second cache instance backed by the same store rebuilds the same tree.
	cache2 := projectpath.New(db)
	id2, err := cache2.ResolveOrCreate(ctx, "study_math_calculus")
	require.NoError(t, err)
	require.Equal(t, id, id2)
}

func TestImportDataInsertsDayAndRecords(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cache := projectpath.New(db)

	projID, err := cache.ResolveOrCreate(ctx, "study_math")
	require.NoError(t, err)

	day := model.Day{Date: "2026-02-01", Year: 2026, Month: 2, Status: 1, ActivityCount: 1}
	rec := model.TimeRecord{
		Date: "2026-02-01", LogicalID: 1,
		StartTimestamp: 100, EndTimestamp: 200,
		Start: "09:00", End: "09:01",
		ProjectID: projID, DurationSeconds: 100,
	}

	require.NoError(t, db.ImportData(ctx, []model.Day{day}, []model.TimeRecord{rec}))

	got, ok, err := db.DayByDate(ctx, "2026-02-01")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, got.ActivityCount)

	activities, err := db.DetailedActivitiesForDay(ctx, "2026-02-01")
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, projID, activities[0].ProjectID)
}

func TestImportDataRejectsDuplicateDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	day := model.Day{Date: "2026-02-01", Year: 2026, Month: 2}
	require.NoError(t, db.ImportData(ctx, []model.Day{day}, nil))
	require.Error(t, db.ImportData(ctx, []model.Day{day}, nil))
}

func TestReplaceMonthDeletesOnlyThatMonth(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cache := projectpath.New(db)
	projID, err := cache.ResolveOrCreate(ctx, "study")
	require.NoError(t, err)

	jan := model.Day{Date: "2026-01-15", Year: 2026, Month: 1, ActivityCount: 1}
	feb := model.Day{Date: "2026-02-01", Year: 2026, Month: 2, ActivityCount: 1}
	janRec := model.TimeRecord{Date: "2026-01-15", LogicalID: 1, Start: "09:00", End: "10:00", ProjectID: projID, DurationSeconds: 3600}
	febRec := model.TimeRecord{Date: "2026-02-01", LogicalID: 1, Start: "09:00", End: "10:00", ProjectID: projID, DurationSeconds: 3600}
	require.NoError(t, db.ImportData(ctx, []model.Day{jan, feb}, []model.TimeRecord{janRec, febRec}))

	replacement := model.Day{Date: "2026-02-10", Year: 2026, Month: 2, ActivityCount: 1}
	replacementRec := model.TimeRecord{Date: "2026-02-10", LogicalID: 1, Start: "08:00", End: "09:00", ProjectID: projID, DurationSeconds: 3600}
	require.NoError(t, db.ReplaceMonth(ctx, "2026-02", []model.Day{replacement}, []model.TimeRecord{replacementRec}))

	_, stillJan, err := db.DayByDate(ctx, "2026-01-15")
	require.NoError(t, err)
	require.True(t, stillJan)

	_, goneFeb, err := db.DayByDate(ctx, "2026-02-01")
	require.NoError(t, err)
	require.False(t, goneFeb)

	_, newFeb, err := db.DayByDate(ctx, "2026-02-10")
	require.NoError(t, err)
	require.True(t, newFeb)
}

func TestLatestActivityTailBeforeReturnsPriorDayTail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cache := projectpath.New(db)
	projID, err := cache.ResolveOrCreate(ctx, "sleep_night")
	require.NoError(t, err)

	day := model.Day{Date: "2026-02-01", Year: 2026, Month: 2, ActivityCount: 1}
	rec := model.TimeRecord{Date: "2026-02-01", LogicalID: 1, StartTimestamp: 1000, EndTimestamp: 2000, Start: "00:16", End: "00:33", ProjectID: projID, DurationSeconds: 1000}
	require.NoError(t, db.ImportData(ctx, []model.Day{day}, []model.TimeRecord{rec}))

	endTS, path, ok, err := db.LatestActivityTailBefore(ctx, cache, "2026-02-02")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2000), endTS)
	require.Equal(t, "sleep_night", path)

	_, _, ok, err = db.LatestActivityTailBefore(ctx, cache, "2026-02-01")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestQueryRangeAggregatesByProjectAndCountsActualDays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cache := projectpath.New(db)
	study, err := cache.ResolveOrCreate(ctx, "study_math")
	require.NoError(t, err)
	sleep, err := cache.ResolveOrCreate(ctx, "sleep_night")
	require.NoError(t, err)

	days := []model.Day{
		{Date: "2026-01-30", Year: 2026, Month: 1, Status: 1, ActivityCount: 1},
		{Date: "2026-01-31", Year: 2026, Month: 1, Status: 1, ActivityCount: 1},
		{Date: "2026-02-01", Year: 2026, Month: 2, Status: 1, ActivityCount: 1},
		{Date: "2026-02-02", Year: 2026, Month: 2, Status: 1, ActivityCount: 1},
	}
	records := []model.TimeRecord{
		{Date: "2026-01-30", LogicalID: 1, Start: "09:00", End: "10:00", ProjectID: study, DurationSeconds: 3600},
		{Date: "2026-01-31", LogicalID: 1, Start: "00:00", End: "07:00", ProjectID: sleep, DurationSeconds: 25200},
		{Date: "2026-02-01", LogicalID: 1, Start: "09:00", End: "10:00", ProjectID: study, DurationSeconds: 3600},
		{Date: "2026-02-02", LogicalID: 1, Start: "00:00", End: "07:00", ProjectID: sleep, DurationSeconds: 25200},
	}
	require.NoError(t, db.ImportData(ctx, days, records))

	rows, actualDays, err := db.QueryRange(ctx, "2026-01-30", "2026-02-02")
	require.NoError(t, err)
	require.Equal(t, 4, actualDays)

	totals := map[int64]int64{}
	for _, r := range rows {
		totals[r.ProjectID] += r.DurationSeconds
	}
	require.Equal(t, int64(7200), totals[study])
	require.Equal(t, int64(50400), totals[sleep])
}

func TestKnownYearsMonthsAndDays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	days := []model.Day{
		{Date: "2025-12-31", Year: 2025, Month: 12},
		{Date: "2026-01-01", Year: 2026, Month: 1},
		{Date: "2026-01-15", Year: 2026, Month: 1},
	}
	require.NoError(t, db.ImportData(ctx, days, nil))

	years, err := db.KnownYears(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{2026, 2025}, years)

	months, err := db.KnownMonths(ctx, 2026)
	require.NoError(t, err)
	require.Equal(t, []int{1}, months)

	dates, err := db.KnownDays(ctx, "2026-01")
	require.NoError(t, err)
	require.Equal(t, []string{"2026-01-01", "2026-01-15"}, dates)
}
