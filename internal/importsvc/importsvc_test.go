package importsvc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrace/timemaster/internal/jsonday"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/projectpath"
)

type fakeRepo struct {
	open           bool
	importCalls    int
	replaceCalls   int
	lastDays       []model.Day
	lastRecords    []model.TimeRecord
	lastMonth      string
	failNextImport bool
}

func (r *fakeRepo) IsOpen() bool { return r.open }

func (r *fakeRepo) ImportData(ctx context.Context, days []model.Day, records []model.TimeRecord) error {
	r.importCalls++
	if r.failNextImport {
		return assertError{"import failed"}
	}
	r.lastDays, r.lastRecords = days, records
	return nil
}

func (r *fakeRepo) ReplaceMonth(ctx context.Context, yearMonth string, days []model.Day, records []model.TimeRecord) error {
	r.replaceCalls++
	r.lastMonth = yearMonth
	r.lastDays, r.lastRecords = days, records
	return nil
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }

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

func sampleDay(date string) model.DailyLog {
	return model.DailyLog{
		Date:      date,
		GetupTime: "07:00",
		ProcessedActivities: []model.ProcessedActivity{
			{LogicalID: 1, StartTS: 100, EndTS: 200, StartStr: "07:00", EndStr: "07:01", ProjectPath: "study_math", DurationSeconds: 100},
		},
		ActivityCount:    1,
		HasStudyActivity: true,
	}
}

func TestImportFromMemoryAppendsAcrossMonths(t *testing.T) {
	repo := &fakeRepo{open: true}
	cache := projectpath.New(&memProjectStore{})
	svc := New(repo, cache)

	stats := svc.ImportFromMemory(context.Background(), map[string][]model.DailyLog{
		"2026-01": {sampleDay("2026-01-31")},
		"2026-02": {sampleDay("2026-02-01")},
	})

	require.Empty(t, stats.ErrorMessage)
	assert.True(t, stats.TxSuccess)
	assert.Equal(t, 1, repo.importCalls)
	assert.Equal(t, 0, repo.replaceCalls)
	assert.Len(t, repo.lastDays, 2)
	assert.Len(t, repo.lastRecords, 2)
}

func TestImportFromMemorySingleMonthReplaces(t *testing.T) {
	repo := &fakeRepo{open: true}
	cache := projectpath.New(&memProjectStore{})
	svc := New(repo, cache)

	stats := svc.ImportFromMemory(context.Background(), map[string][]model.DailyLog{
		"2026-02": {sampleDay("2026-02-01"), sampleDay("2026-02-02")},
	})

	require.Empty(t, stats.ErrorMessage)
	assert.Equal(t, 1, repo.replaceCalls)
	assert.Equal(t, "2026-02", stats.ReplacedMonth)
	assert.Equal(t, "2026-02", repo.lastMonth)
}

func TestImportFromMemoryReportsClosedDB(t *testing.T) {
	repo := &fakeRepo{open: false}
	cache := projectpath.New(&memProjectStore{})
	svc := New(repo, cache)

	stats := svc.ImportFromMemory(context.Background(), map[string][]model.DailyLog{"2026-02": {sampleDay("2026-02-01")}})
	assert.False(t, stats.DBOpenSuccess)
	assert.False(t, stats.TxSuccess)
	assert.NotEmpty(t, stats.ErrorMessage)
}

func TestImportFromFilesParsesJSONMonths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2026-02.json")
	data, err := jsonday.Marshal([]model.DailyLog{sampleDay("2026-02-01")})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	repo := &fakeRepo{open: true}
	cache := projectpath.New(&memProjectStore{})
	svc := New(repo, cache)

	stats := svc.ImportFromFiles(context.Background(), []string{path})
	require.Empty(t, stats.ErrorMessage)
	assert.Equal(t, 1, stats.SuccessfulFiles)
	assert.Equal(t, 0, stats.FailedFiles)
	assert.Equal(t, 1, repo.replaceCalls, "single file naming one month should replace")
}

func TestImportFromFilesCountsMissingFileAsFailure(t *testing.T) {
	repo := &fakeRepo{open: true}
	cache := projectpath.New(&memProjectStore{})
	svc := New(repo, cache)

	stats := svc.ImportFromFiles(context.Background(), []string{"/nonexistent/path.json"})
	assert.Equal(t, 1, stats.FailedFiles)
	assert.Equal(t, 0, stats.SuccessfulFiles)
	assert.NotEmpty(t, stats.ErrorMessage)
}
