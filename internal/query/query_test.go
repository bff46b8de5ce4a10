package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/projectpath"
	"github.com/chronotrace/timemaster/internal/store"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeRepo struct {
	rows        []store.AggregateRow
	actualDays  int
	activities  map[string][]model.TimeRecord
	days        map[string]model.Day
	rangeCalled []string
}

func (r *fakeRepo) QueryRange(ctx context.Context, start, end string) ([]store.AggregateRow, int, error) {
	r.rangeCalled = append(r.rangeCalled, start+".."+end)
	return r.rows, r.actualDays, nil
}

func (r *fakeRepo) DetailedActivitiesForDay(ctx context.Context, date string) ([]model.TimeRecord, error) {
	return r.activities[date], nil
}

func (r *fakeRepo) DayByDate(ctx context.Context, date string) (model.Day, bool, error) {
	d, ok := r.days[date]
	return d, ok, nil
}

type memProjectStore struct {
	rows   []projectpath.ProjectRow
	nextID int64
}

func (m *memProjectStore) LoadAllProjects(ctx context.Context) ([]projectpath.ProjectRow, error) {
	return m.rows, nil
}

func (m *memProjectStore) InsertProject(ctx context.Context, _ int64, name string, parentID *int64) (int64, error) {
	m.nextID++
	m.rows = append(m.rows, projectpath.ProjectRow{ID: m.nextID, Name: name, ParentID: parentID})
	return m.nextID, nil
}

func newCacheWithPath(t *testing.T, path string) (*projectpath.Cache, int64) {
	t.Helper()
	cache := projectpath.New(&memProjectStore{})
	id, err := cache.ResolveOrCreate(context.Background(), path)
	require.NoError(t, err)
	return cache, id
}

func TestQueryDailyBuildsTreeAndDetailedRecords(t *testing.T) {
	cache, projID := newCacheWithPath(t, "study_math")
	repo := &fakeRepo{
		rows:       []store.AggregateRow{{ProjectID: projID, DurationSeconds: 3600}},
		actualDays: 1,
		activities: map[string][]model.TimeRecord{
			"2026-02-01": {{Start: "09:00", End: "10:00", ProjectID: projID, DurationSeconds: 3600}},
		},
		days: map[string]model.Day{"2026-02-01": {Date: "2026-02-01", TotalExerciseTime: 0}},
	}
	svc := New(repo, cache, nil)

	data, err := svc.QueryDaily(context.Background(), "2026-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", data.Date)
	assert.Equal(t, int64(3600), data.TotalDurationSeconds)
	assert.Len(t, data.DetailedRecords, 1)
	assert.Equal(t, "study_math", data.DetailedRecords[0].ProjectPath)
	require.NotNil(t, data.ProjectTree)
	assert.Equal(t, int64(3600), data.ProjectTree.Children["study"].DurationSeconds)
	assert.Equal(t, int64(3600), data.ProjectTree.Children["study"].Children["math"].DurationSeconds)
}

func TestQueryDailyRejectsMalformedDate(t *testing.T) {
	cache := projectpath.New(&memProjectStore{})
	svc := New(&fakeRepo{}, cache, nil)
	data, err := svc.QueryDaily(context.Background(), "not-a-date")
	require.NoError(t, err)
	assert.True(t, data.IsInvalid())
}

func TestQueryMonthlyDerivesFullMonthBounds(t *testing.T) {
	cache := projectpath.New(&memProjectStore{})
	repo := &fakeRepo{}
	svc := New(repo, cache, nil)

	_, err := svc.QueryMonthly(context.Background(), "2026-02")
	require.NoError(t, err)
	require.Len(t, repo.rangeCalled, 1)
	assert.Equal(t, "2026-02-01..2026-02-28", repo.rangeCalled[0])
}

func TestQueryPeriodUsesInjectedClock(t *testing.T) {
	cache := projectpath.New(&memProjectStore{})
	repo := &fakeRepo{}
	clock := fixedClock{t: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)}
	svc := New(repo, cache, clock)

	data, err := svc.QueryPeriod(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-06", data.StartDate)
	assert.Equal(t, "2026-02-10", data.EndDate)
	assert.Equal(t, 5, data.DaysToQuery)
}

func TestQueryRangeRejectsInvertedBounds(t *testing.T) {
	cache := projectpath.New(&memProjectStore{})
	svc := New(&fakeRepo{}, cache, nil)
	data, err := svc.QueryRange(context.Background(), "2026-02-10", "2026-02-01")
	require.NoError(t, err)
	assert.True(t, data.IsInvalid())
}

func TestQueryWeeklyComputesMondaySundayBounds(t *testing.T) {
	cache := projectpath.New(&memProjectStore{})
	repo := &fakeRepo{}
	svc := New(repo, cache, nil)

	_, err := svc.QueryWeekly(context.Background(), "2026-W06")
	require.NoError(t, err)
	require.Len(t, repo.rangeCalled, 1)
	assert.Equal(t, "2026-02-02..2026-02-08", repo.rangeCalled[0])
}

func TestQueryEmptyRangeYieldsZeroTotal(t *testing.T) {
	cache := projectpath.New(&memProjectStore{})
	repo := &fakeRepo{actualDays: 0}
	svc := New(repo, cache, nil)

	data, err := svc.QueryRange(context.Background(), "2026-01-30", "2026-02-02")
	require.NoError(t, err)
	assert.True(t, data.IsEmpty())
	assert.Equal(t, 0, data.ActualDays)
}
