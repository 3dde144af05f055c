// Package journal records stamp runs in a local SQLite database.
package journal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute

	// DefaultRecentLimit bounds Recent when no limit is given.
	DefaultRecentLimit = 20
	maxRecentLimit     = 500

	// fixed width so started_at sorts lexically
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Run is one orchestrator invocation.
type Run struct {
	ID           string        `db:"id" json:"id"`
	Path         string        `db:"path" json:"path"`
	Trigger      string        `db:"trigger" json:"trigger"`
	Outcome      string        `db:"outcome" json:"outcome"`
	RolledOver   int           `db:"rolled_over" json:"rolled_over"`
	Archived     int           `db:"archived" json:"archived"`
	StampedDone  int           `db:"stamped_done" json:"stamped_done"`
	StampedStart int           `db:"stamped_start" json:"stamped_start"`
	Issues       int           `db:"issues" json:"issues"`
	Error        string        `db:"error" json:"error,omitempty"`
	StartedAt    time.Time     `db:"-" json:"started_at"`
	Duration     time.Duration `db:"-" json:"duration"`
}

type runRow struct {
	Run
	StartedAtRaw string `db:"started_at"`
	DurationMS   int64  `db:"duration_ms"`
}

// Journal wraps the SQLite run log.
type Journal struct {
	db *sqlx.DB
}

// Open opens the journal database and applies pending migrations.
func Open(path string) (*Journal, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}
	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record stores run, assigning an ID when it has none.
func (j *Journal) Record(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	row := runRow{
		Run:          run,
		StartedAtRaw: run.StartedAt.UTC().Format(timeLayout),
		DurationMS:   run.Duration.Milliseconds(),
	}

	const query = `
		INSERT INTO runs (
			id, path, trigger, outcome,
			rolled_over, archived, stamped_done, stamped_start,
			issues, error, started_at, duration_ms
		) VALUES (
			:id, :path, :trigger, :outcome,
			:rolled_over, :archived, :stamped_done, :stamped_start,
			:issues, :error, :started_at, :duration_ms
		)`
	if _, err := j.db.NamedExecContext(ctx, query, row); err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// Recent returns the latest runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var rows []runRow
	const query = `
		SELECT id, path, trigger, outcome,
			rolled_over, archived, stamped_done, stamped_start,
			issues, error, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`
	if err := j.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		run := row.Run
		started, err := time.Parse(timeLayout, row.StartedAtRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at for run %s: %w", row.ID, err)
		}
		run.StartedAt = started
		run.Duration = time.Duration(row.DurationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, nil
}

func configureDB(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	return nil
}

func sqliteDSN(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("journal path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
