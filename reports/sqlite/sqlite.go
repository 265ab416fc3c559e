// Package sqlite implements reports.ReportDatabase on an embedded SQLite
// database, the default backend for local and single-node deployments.
package sqlite

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"

	"ecomreports/reports"
	"ecomreports/schema"
)

type SQLiteDB struct {
	db     *sqlx.DB
	schema *schema.Schema
}

func NewSQLiteDB(path string, reportSchema *schema.Schema) (SQLiteDB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return SQLiteDB{}, wrap.Error(err, "failed to open SQLite database")
	}

	// The driver is not safe for concurrent writes over multiple connections.
	db.SetMaxOpenConns(1)

	return SQLiteDB{db: db, schema: reportSchema}, nil
}

func (sqlite SQLiteDB) Close() error {
	return sqlite.db.Close()
}

func (sqlite SQLiteDB) RunReportQuery(
	ctx context.Context,
	interpretation reports.Interpretation,
) (reports.ReportResult, error) {
	plan, err := reports.AssembleQuery(sqlite.schema, interpretation, Dialect{})
	if err != nil {
		return reports.ReportResult{}, err
	}

	log.Debug(
		"generated report query", slog.String("sql", plan.SQL), slog.Any("args", plan.Args),
	)

	rows, err := sqlite.db.QueryxContext(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return reports.ReportResult{}, wrap.Error(err, "report query failed")
	}
	defer rows.Close()

	serialized := make([]reports.Row, 0)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return reports.ReportResult{}, wrap.Error(err, "failed to scan report row")
		}
		serialized = append(serialized, reports.SerializeRow(plan.Columns, values))
	}
	if err := rows.Err(); err != nil {
		return reports.ReportResult{}, wrap.Error(err, "failed to read report rows")
	}

	return reports.ReportResult{
		Rows:    serialized,
		Columns: plan.Columns,
		Grouped: plan.Grouped,
		Dropped: plan.Dropped,
	}, nil
}
