package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// DB reads observations straight from the claude-mem SQLite database.
// The connection is opened read-only; nothing here writes.
type DB struct {
	path string
	db   *sql.DB
}

// OpenDB opens the database at path read-only.
func OpenDB(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat db: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &DB{path: path, db: db}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close releases the connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping verifies the database answers a trivial query.
func (d *DB) Ping(ctx context.Context) error {
	var one int
	if err := d.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

const observationColumns = `
	o.id,
	COALESCE(o.sdk_session_id, ''),
	COALESCE(NULLIF(o.project, ''), s.project, ''),
	COALESCE(o.type, ''),
	COALESCE(o.title, ''),
	COALESCE(o.subtitle, ''),
	COALESCE(o.narrative, ''),
	COALESCE(o.facts, ''),
	COALESCE(o.concepts, ''),
	COALESCE(o.files_read, ''),
	COALESCE(o.files_modified, ''),
	o.prompt_number,
	COALESCE(o.created_at, ''),
	COALESCE(o.created_at_epoch, 0)`

// Observations returns observations whose created_at_epoch lies in q's range,
// oldest first.
func (d *DB) Observations(ctx context.Context, q Query) ([]Observation, error) {
	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(observationColumns)
	b.WriteString(`
	FROM observations o
	LEFT JOIN sdk_sessions s ON s.sdk_session_id = o.sdk_session_id
	WHERE o.created_at_epoch BETWEEN ? AND ?`)
	args := []any{q.Start.UnixMilli(), q.End.UnixMilli()}

	if q.Project != "" {
		b.WriteString(" AND COALESCE(NULLIF(o.project, ''), s.project) = ?")
		args = append(args, q.Project)
	}
	b.WriteString(" ORDER BY o.created_at_epoch ASC, o.id ASC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := d.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var (
			w                                        wireObservation
			facts, concepts, filesRead, filesWritten string
			prompt                                   sql.NullInt64
		)
		if err := rows.Scan(
			&w.ID, &w.SDKSessionIDSnake, &w.Project, &w.Type,
			&w.Title, &w.Subtitle, &w.Narrative,
			&facts, &concepts, &filesRead, &filesWritten,
			&prompt, &w.CreatedAtSnake, &w.CreatedAtEpochSnake,
		); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		w.Facts = parseListText(facts)
		w.Concepts = parseListText(concepts)
		w.FilesReadSnake = parseListText(filesRead)
		w.FilesModifiedSnake = parseListText(filesWritten)
		if prompt.Valid {
			n := int(prompt.Int64)
			w.PromptNumberSnake = &n
		}
		out = append(out, normalize(w))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return out, nil
}

// Projects lists distinct project names, alphabetically.
func (d *DB) Projects(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
	SELECT DISTINCT project FROM (
		SELECT project FROM observations WHERE project IS NOT NULL AND project != ''
		UNION
		SELECT project FROM sdk_sessions WHERE project IS NOT NULL AND project != ''
	) ORDER BY project`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
