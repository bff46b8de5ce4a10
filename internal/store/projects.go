package store

import (
	"context"
	"database/sql"

	"github.com/chronotrace/timemaster/internal/projectpath"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// LoadAllProjects implements projectpath.Store by streaming the whole
// projects table, the cache's one-time bulk load.
func (db *DB) LoadAllProjects(ctx context.Context) ([]projectpath.ProjectRow, error) {
	const op = "store.LoadAllProjects"
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, parent_id FROM projects`)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "query projects", err)
	}
	defer rows.Close()

	var out []projectpath.ProjectRow
	for rows.Next() {
		var r projectpath.ProjectRow
		var parentID sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Name, &parentID); err != nil {
			return nil, xerrors.Wrap(xerrors.KindDatabase, op, "scan project row", err)
		}
		if parentID.Valid {
			v := parentID.Int64
			r.ParentID = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "iterate project rows", err)
	}
	return out, nil
}

// InsertProject implements projectpath.Store, inserting a new project
// node outside of any caller-managed transaction. id is ignored; SQLite
// assigns it via AUTOINCREMENT.
func (db *DB) InsertProject(ctx context.Context, _ int64, name string, parentID *int64) (int64, error) {
	const op = "store.InsertProject"
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO projects (name, parent_id) VALUES (?, ?)`, name, parentID)
	if err != nil {
		return 0, xerrors.Wrap(xerrors.KindDatabase, op, "insert project", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, xerrors.Wrap(xerrors.KindDatabase, op, "read inserted project id", err)
	}
	return id, nil
}
