package store

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/projectpath"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// ImportData inserts days and their already-resolved time records (each
// record's ProjectID must already be set — the import service resolves
// ProcessedActivity.ProjectPath through the projectpath.Cache before
// calling this) in one transaction. Duplicate days are rejected by the
// days table's primary key.
func (db *DB) ImportData(ctx context.Context, days []model.Day, records []model.TimeRecord) error {
	const op = "store.ImportData"
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, d := range days {
			if err := insertDay(ctx, tx, d); err != nil {
				return xerrors.Wrap(xerrors.KindDatabase, op, "insert day "+d.Date, err)
			}
		}
		for i, r := range records {
			if err := insertRecord(ctx, tx, r); err != nil {
				return xerrors.Wrap(xerrors.KindDatabase, op, "insert record "+strconv.Itoa(i), err)
			}
		}
		return nil
	})
}

// ReplaceMonth deletes every day (and its records) whose date falls in
// yearMonth ("YYYY-MM"), then inserts the provided days/records, all in
// one transaction (spec.md §4.6, invariant 7 / P5). Like ImportData,
// each record's ProjectID must already be resolved by the caller.
func (db *DB) ReplaceMonth(ctx context.Context, yearMonth string, days []model.Day, records []model.TimeRecord) error {
	const op = "store.ReplaceMonth"
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		prefix := yearMonth + "-%"
		if _, err := tx.ExecContext(ctx, `DELETE FROM time_records WHERE date LIKE ?`, prefix); err != nil {
			return xerrors.Wrap(xerrors.KindDatabase, op, "delete time_records for month", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM days WHERE date LIKE ?`, prefix); err != nil {
			return xerrors.Wrap(xerrors.KindDatabase, op, "delete days for month", err)
		}
		for _, d := range days {
			if err := insertDay(ctx, tx, d); err != nil {
				return xerrors.Wrap(xerrors.KindDatabase, op, "insert day "+d.Date, err)
			}
		}
		for i, r := range records {
			if err := insertRecord(ctx, tx, r); err != nil {
				return xerrors.Wrap(xerrors.KindDatabase, op, "insert record "+strconv.Itoa(i), err)
			}
		}
		return nil
	})
}

func insertDay(ctx context.Context, tx *sql.Tx, d model.Day) error {
	var getup sql.NullString
	if d.GetupTime != "" {
		getup = sql.NullString{String: d.GetupTime, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO days (date, year, month, status, sleep, remark, getup_time,
			exercise, total_exercise_time, cardio_time, anaerobic_time, exercise_both_time, activity_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Date, d.Year, d.Month, d.Status, d.Sleep, d.Remark, getup,
		d.Exercise, d.TotalExerciseTime, d.CardioTime, d.AnaerobicTime, d.ExerciseBothTime, d.ActivityCount)
	return err
}

func insertRecord(ctx context.Context, tx *sql.Tx, r model.TimeRecord) error {
	var remark sql.NullString
	if r.ActivityRemark != "" {
		remark = sql.NullString{String: r.ActivityRemark, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO time_records (logical_id, start_timestamp, end_timestamp, date, "start", "end",
			project_id, duration_seconds, activity_remark)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.LogicalID, r.StartTimestamp, r.EndTimestamp, r.Date, r.Start, r.End,
		r.ProjectID, r.DurationSeconds, remark)
	return err
}

// LatestActivityTailBefore returns the last activity's (end_ts,
// project_path) whose date is strictly before date, or ok=false if the
// store has no such row. Used to carry a Tail across a prior import run
// (spec.md §4.4 continuation stitching).
func (db *DB) LatestActivityTailBefore(ctx context.Context, cache *projectpath.Cache, date string) (endTS int64, projectPath string, ok bool, err error) {
	const op = "store.LatestActivityTailBefore"
	row := db.conn.QueryRowContext(ctx, `
		SELECT end_timestamp, project_id FROM time_records
		WHERE date < ?
		ORDER BY date DESC, logical_id DESC
		LIMIT 1`, date)

	var projectID int64
	if err := row.Scan(&endTS, &projectID); err != nil {
		if err == sql.ErrNoRows {
			return 0, "", false, nil
		}
		return 0, "", false, xerrors.Wrap(xerrors.KindDatabase, op, "query latest activity", err)
	}

	segs, err := cache.PathFor(ctx, projectID)
	if err != nil {
		return 0, "", false, xerrors.Wrap(xerrors.KindDatabase, op, "resolve project path", err)
	}
	return endTS, joinPath(segs), true, nil
}

func joinPath(segs []string) string {
	var out string
	for i, s := range segs {
		if i > 0 {
			out += projectpath.Separator
		}
		out += s
	}
	return out
}
