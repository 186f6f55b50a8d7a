package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"toypal/domain/core"
	"toypal/domain/verdict"
	apperrors "toypal/internal/errors"
)

// ResultRepository persists battery result tables. Writes are full-replace
// per run, matching the overwrite semantics of the CSV artifacts.
type ResultRepository struct {
	db *sqlx.DB
}

// Connect opens and pings a Postgres connection.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, dbErr(err, "failed to connect to database")
	}
	return db, nil
}

func dbErr(err error, message string) error {
	if err == nil {
		return nil
	}
	e := apperrors.DatabaseError(message)
	e.Cause = err
	return e
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// EnsureSchema creates the results table if it does not exist.
func (r *ResultRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS statistical_results (
			run_id      TEXT NOT NULL,
			query_id    TEXT NOT NULL,
			query_group TEXT NOT NULL,
			query_label TEXT NOT NULL,
			stat        DOUBLE PRECISION NOT NULL,
			p_value     DOUBLE PRECISION,
			result      TEXT NOT NULL,
			PRIMARY KEY (run_id, query_id)
		)`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return dbErr(err, "failed to ensure results schema")
	}
	return nil
}

// Replace swaps in the given run's rows atomically: everything previously
// stored for the run is deleted and the new table inserted in one
// transaction. NaN p-values are stored as NULL.
func (r *ResultRepository) Replace(ctx context.Context, runID core.RunID, table verdict.Table) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbErr(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM statistical_results WHERE run_id = $1`, string(runID)); err != nil {
		return dbErr(err, "failed to clear previous results")
	}

	insert := `
		INSERT INTO statistical_results (
			run_id, query_id, query_group, query_label, stat, p_value, result
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, row := range table.Rows {
		var p sql.NullFloat64
		if !math.IsNaN(row.PValue) {
			p = sql.NullFloat64{Float64: row.PValue, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insert,
			string(runID),
			string(row.ID),
			string(row.Group),
			row.Query,
			row.Stat,
			p,
			row.Result,
		); err != nil {
			return dbErr(err, fmt.Sprintf("failed to insert result %s", row.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return dbErr(err, "failed to commit results")
	}
	return nil
}

// LoadRun reads back a stored run's result table in query-ID order.
func (r *ResultRepository) LoadRun(ctx context.Context, runID core.RunID) (verdict.Table, error) {
	query := `
		SELECT query_id, query_group, query_label, stat, p_value, result
		FROM statistical_results
		WHERE run_id = $1
		ORDER BY query_id`

	rows, err := r.db.QueryContext(ctx, query, string(runID))
	if err != nil {
		return verdict.Table{}, dbErr(err, "failed to query results")
	}
	defer rows.Close()

	var table verdict.Table
	for rows.Next() {
		var (
			row verdict.ResultRow
			p   sql.NullFloat64
		)
		if err := rows.Scan(&row.ID, &row.Group, &row.Query, &row.Stat, &p, &row.Result); err != nil {
			return verdict.Table{}, dbErr(err, "failed to scan result row")
		}
		if p.Valid {
			row.PValue = p.Float64
		} else {
			row.PValue = math.NaN()
		}
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}
