// Package storage owns the lancamentos table: schema lifecycle and raw CRUD.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lancamentos/internal/core"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const listByPeriodSQL = `
SELECT id, occurred_on, kind, label, amount_cents, period
FROM lancamentos
WHERE period = %s
ORDER BY occurred_on DESC, id DESC
`

// Repository is the durable store for ledger entries. It holds one shared
// connection pool for the process lifetime; callers own Close.
type Repository struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured database, verifies it is reachable and
// runs the schema migrations. Any failure here is a startup precondition
// failure and is returned to the caller rather than retried.
func Open(driverName, dsn string) (*Repository, error) {
	if driverName == "sqlite" {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(driverName, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, driver: driverName}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert persists a draft and returns the store-assigned id. The draft must
// already satisfy the entry invariants; validation lives in the service.
// One statement, one commit.
func (r *Repository) Insert(ctx context.Context, d core.Draft) (int64, error) {
	var id int64
	var err error

	switch r.driver {
	case "postgres":
		const q = `
INSERT INTO lancamentos (occurred_on, kind, label, amount_cents, period)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
		err = r.db.QueryRowContext(ctx, q,
			d.OccurredOn.ISO(), string(d.Kind), d.Label, d.Amount.Cents, d.Period.String(),
		).Scan(&id)
	default:
		const q = `
INSERT INTO lancamentos (occurred_on, kind, label, amount_cents, period)
VALUES (?, ?, ?, ?, ?)`
		var res sql.Result
		res, err = r.db.ExecContext(ctx, q,
			d.OccurredOn.ISO(), string(d.Kind), d.Label, d.Amount.Cents, d.Period.String(),
		)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", id,
		"kind", string(d.Kind),
		"label", d.Label,
		"amount_cents", d.Amount.Cents,
		"period", d.Period.String())

	return id, nil
}

// ListByPeriod returns the entries attributed to a period, newest first with
// ties broken by most-recently-created. No rows is an empty slice, not an error.
func (r *Repository) ListByPeriod(ctx context.Context, p core.Period) ([]core.Entry, error) {
	query := fmt.Sprintf(listByPeriodSQL, r.placeholder(1))
	rows, err := r.db.QueryContext(ctx, query, p.String())
	if err != nil {
		return nil, fmt.Errorf("list entries by period: %w", err)
	}
	defer rows.Close()

	entries := make([]core.Entry, 0)
	for rows.Next() {
		var (
			e          core.Entry
			occurredOn string
			kind       string
			period     string
		)
		if err := rows.Scan(&e.ID, &occurredOn, &kind, &e.Label, &e.Amount.Cents, &period); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.OccurredOn, err = core.ParseDate(occurredOn); err != nil {
			return nil, fmt.Errorf("parse occurred_on %q: %w", occurredOn, err)
		}
		if e.Period, err = core.ParsePeriod(period); err != nil {
			return nil, fmt.Errorf("parse period %q: %w", period, err)
		}
		e.Kind = core.EntryKind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// DeleteMany removes the given ids in a single statement. Ids that do not
// exist are silently skipped; deleting nothing is not an error. An empty set
// short-circuits without touching the store.
func (r *Repository) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = r.placeholder(i + 1)
		args[i] = id
	}

	query := "DELETE FROM lancamentos WHERE id IN (" + strings.Join(placeholders, ", ") + ")"
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	affected, _ := res.RowsAffected()
	slog.InfoContext(ctx, "Entries deleted", "requested", len(ids), "deleted", affected)

	return nil
}

// placeholder returns the n-th positional SQL placeholder for the active driver.
func (r *Repository) placeholder(n int) string {
	if r.driver == "postgres" {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
