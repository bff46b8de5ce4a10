package store

import (
	"context"
	"database/sql"

	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// AggregateRow is one (project_id, total duration) pair produced by a
// date-range aggregation query, before projectpath resolves project_id
// to its path.
type AggregateRow struct {
	ProjectID       int64
	DurationSeconds int64
}

// QueryRange aggregates every time_records row whose date is within
// [startDate, endDate] (inclusive) by project, and reports how many
// distinct dates in that range have at least one time_records row.
func (db *DB) QueryRange(ctx context.Context, startDate, endDate string) ([]AggregateRow, int, error) {
	const op = "store.QueryRange"

	rows, err := db.conn.QueryContext(ctx, `
		SELECT project_id, SUM(duration_seconds)
		FROM time_records
		WHERE date BETWEEN ? AND ?
		GROUP BY project_id`, startDate, endDate)
	if err != nil {
		return nil, 0, xerrors.Wrap(xerrors.KindDatabase, op, "aggregate time_records", err)
	}
	defer rows.Close()

	var out []AggregateRow
	for rows.Next() {
		var r AggregateRow
		if err := rows.Scan(&r.ProjectID, &r.DurationSeconds); err != nil {
			return nil, 0, xerrors.Wrap(xerrors.KindDatabase, op, "scan aggregate row", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, xerrors.Wrap(xerrors.KindDatabase, op, "iterate aggregate rows", err)
	}

	var actualDays int
	err = db.conn.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT date) FROM time_records WHERE date BETWEEN ? AND ?`,
		startDate, endDate).Scan(&actualDays)
	if err != nil {
		return nil, 0, xerrors.Wrap(xerrors.KindDatabase, op, "count actual days", err)
	}
	return out, actualDays, nil
}

// DetailedActivitiesForDay returns every time_records row for date in
// logical_id order, for the daily report's detailed-activities section.
func (db *DB) DetailedActivitiesForDay(ctx context.Context, date string) ([]model.TimeRecord, error) {
	const op = "store.DetailedActivitiesForDay"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT logical_id, start_timestamp, end_timestamp, date, "start", "end",
			project_id, duration_seconds, activity_remark
		FROM time_records
		WHERE date = ?
		ORDER BY logical_id ASC`, date)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "query day activities", err)
	}
	defer rows.Close()

	var out []model.TimeRecord
	for rows.Next() {
		var r model.TimeRecord
		var remark sql.NullString
		if err := rows.Scan(&r.LogicalID, &r.StartTimestamp, &r.EndTimestamp, &r.Date,
			&r.Start, &r.End, &r.ProjectID, &r.DurationSeconds, &remark); err != nil {
			return nil, xerrors.Wrap(xerrors.KindDatabase, op, "scan day activity", err)
		}
		r.ActivityRemark = remark.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "iterate day activities", err)
	}
	return out, nil
}

// DayByDate loads the persisted Day row for date, ok=false if absent.
func (db *DB) DayByDate(ctx context.Context, date string) (model.Day, bool, error) {
	const op = "store.DayByDate"
	row := db.conn.QueryRowContext(ctx, `
		SELECT date, year, month, status, sleep, remark, getup_time,
			exercise, total_exercise_time, cardio_time, anaerobic_time, exercise_both_time, activity_count
		FROM days WHERE date = ?`, date)

	var d model.Day
	var getup sql.NullString
	err := row.Scan(&d.Date, &d.Year, &d.Month, &d.Status, &d.Sleep, &d.Remark, &getup,
		&d.Exercise, &d.TotalExerciseTime, &d.CardioTime, &d.AnaerobicTime, &d.ExerciseBothTime, &d.ActivityCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Day{}, false, nil
		}
		return model.Day{}, false, xerrors.Wrap(xerrors.KindDatabase, op, "query day", err)
	}
	d.GetupTime = getup.String
	return d, true, nil
}

// KnownYears returns the distinct years that have at least one day row,
// descending, for RunDataQuery("years").
func (db *DB) KnownYears(ctx context.Context) ([]int, error) {
	return db.distinctInts(ctx, `SELECT DISTINCT year FROM days ORDER BY year DESC`)
}

// KnownMonths returns the distinct months (1-12) with a day row in year.
func (db *DB) KnownMonths(ctx context.Context, year int) ([]int, error) {
	const op = "store.KnownMonths"
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT month FROM days WHERE year = ? ORDER BY month ASC`, year)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "query months", err)
	}
	return scanInts(rows, op)
}

// KnownDays returns every date string (YYYY-MM-DD) recorded for yearMonth.
func (db *DB) KnownDays(ctx context.Context, yearMonth string) ([]string, error) {
	const op = "store.KnownDays"
	rows, err := db.conn.QueryContext(ctx,
		`SELECT date FROM days WHERE date LIKE ? ORDER BY date ASC`, yearMonth+"-%")
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "query days", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, xerrors.Wrap(xerrors.KindDatabase, op, "scan date", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (db *DB) distinctInts(ctx context.Context, query string) ([]int, error) {
	const op = "store.distinctInts"
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "query", err)
	}
	return scanInts(rows, op)
}

func scanInts(rows *sql.Rows, op string) ([]int, error) {
	defer rows.Close()
	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, xerrors.Wrap(xerrors.KindDatabase, op, "scan int", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "iterate ints", err)
	}
	return out, nil
}
