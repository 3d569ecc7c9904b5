// Package sqlite archives extracted datasets in a SQLite database using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS warnings (
	year        INTEGER PRIMARY KEY,
	signals     TEXT NOT NULL,
	total_hours REAL NOT NULL,
	fetched_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS labor (
	month                TEXT PRIMARY KEY,
	labor_force          REAL NOT NULL,
	employed             REAL NOT NULL,
	unemployed           REAL NOT NULL,
	unemployment_rate    REAL NOT NULL,
	participation_rate   REAL NOT NULL,
	underemployment_rate REAL NOT NULL,
	breakdown            TEXT,
	fetched_at           TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tides (
	time       TEXT PRIMARY KEY,
	height     REAL NOT NULL,
	fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS indicators (
	name       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	fetched_at TEXT NOT NULL
);`

// Archive implements pipeline.Loader by upserting every record, keyed by
// its natural key, so reloading a dataset is idempotent.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warn("could not enable WAL mode", "path", path, "error", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}
	return &Archive{db: db, logger: logger}, nil
}

func (a *Archive) Name() string { return "sqlite" }

func (a *Archive) Close() error { return a.db.Close() }

// Load upserts ds in one transaction.
func (a *Archive) Load(ctx context.Context, ds domain.Dataset) (err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	fetched := ds.FetchedAt.UTC().Format(time.RFC3339)
	switch ds.Kind {
	case domain.KindWarnings:
		err = upsert(ctx, tx, `INSERT OR REPLACE INTO warnings(year, signals, total_hours, fetched_at) VALUES(?,?,?,?)`,
			ds.Warnings, func(w domain.WarningYear) ([]any, error) {
				signals, err := json.Marshal(w.Signals)
				return []any{w.Year, string(signals), w.TotalHours, fetched}, err
			})
	case domain.KindLabor:
		err = upsert(ctx, tx, `INSERT OR REPLACE INTO labor(month, labor_force, employed, unemployed,
			unemployment_rate, participation_rate, underemployment_rate, breakdown, fetched_at)
			VALUES(?,?,?,?,?,?,?,?,?)`,
			ds.Labor, func(r domain.LaborRecord) ([]any, error) {
				var breakdown sql.NullString
				if r.Enhanced != nil {
					b, err := json.Marshal(r.Enhanced)
					if err != nil {
						return nil, err
					}
					breakdown = sql.NullString{String: string(b), Valid: true}
				}
				return []any{r.Month.Format(domain.MonthLayout), r.LaborForce, r.Employed, r.Unemployed,
					r.UnemploymentRate, r.ParticipationRate, r.UnderemploymentRate, breakdown, fetched}, nil
			})
	case domain.KindTides:
		err = upsert(ctx, tx, `INSERT OR REPLACE INTO tides(time, height, fetched_at) VALUES(?,?,?)`,
			ds.Tides, func(t domain.TideReading) ([]any, error) {
				return []any{t.Time.UTC().Format(time.RFC3339), t.Height, fetched}, nil
			})
	case domain.KindIndicators:
		type kv struct{ name, value string }
		pairs := make([]kv, 0, len(ds.Indicators))
		for k, v := range ds.Indicators {
			pairs = append(pairs, kv{k, v})
		}
		err = upsert(ctx, tx, `INSERT OR REPLACE INTO indicators(name, value, fetched_at) VALUES(?,?,?)`,
			pairs, func(p kv) ([]any, error) { return []any{p.name, p.value, fetched}, nil })
	default:
		err = fmt.Errorf("archive: unknown dataset kind %q", ds.Kind)
	}
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	a.logger.Debug("dataset archived", "dataset", ds.Kind, "records", ds.Len())
	return nil
}

func upsert[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(T) ([]any, error)) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // closed with the tx

	for i, row := range rows {
		a, err := args(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, a...); err != nil {
			return fmt.Errorf("upsert row %d: %w", i, err)
		}
	}
	return nil
}

// Warnings returns the archived warning rows in year order.
func (a *Archive) Warnings(ctx context.Context) ([]domain.WarningYear, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT year, signals, total_hours FROM warnings ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only

	var out []domain.WarningYear
	for rows.Next() {
		var (
			w       domain.WarningYear
			signals string
		)
		if err := rows.Scan(&w.Year, &signals, &w.TotalHours); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		if err := json.Unmarshal([]byte(signals), &w.Signals); err != nil {
			return nil, fmt.Errorf("decode signals for %d: %w", w.Year, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Labor returns the archived labor rows in month order.
func (a *Archive) Labor(ctx context.Context) ([]domain.LaborRecord, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT month, labor_force, employed, unemployed,
		unemployment_rate, participation_rate, underemployment_rate, breakdown FROM labor ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("query labor: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only

	var out []domain.LaborRecord
	for rows.Next() {
		var (
			r         domain.LaborRecord
			month     string
			breakdown sql.NullString
		)
		if err := rows.Scan(&month, &r.LaborForce, &r.Employed, &r.Unemployed,
			&r.UnemploymentRate, &r.ParticipationRate, &r.UnderemploymentRate, &breakdown); err != nil {
			return nil, fmt.Errorf("scan labor: %w", err)
		}
		if r.Month, err = time.Parse(domain.MonthLayout, month); err != nil {
			return nil, fmt.Errorf("parse month %q: %w", month, err)
		}
		if breakdown.Valid {
			r.Enhanced = &domain.LaborBreakdown{}
			if err := json.Unmarshal([]byte(breakdown.String), r.Enhanced); err != nil {
				return nil, fmt.Errorf("decode breakdown for %s: %w", month, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
