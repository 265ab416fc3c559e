// Package clickhouse implements reports.ReportDatabase for ClickHouse, for
// deployments where reports run against an analytical replica instead of the
// transactional store.
package clickhouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"

	"ecomreports/config"
	"ecomreports/reports"
	"ecomreports/schema"
)

type ClickHouseDB struct {
	conn   driver.Conn
	schema *schema.Schema
}

func NewClickHouseDB(
	config config.ClickHouse,
	reportSchema *schema.Schema,
) (ClickHouseDB, error) {
	// Options docs: https://clickhouse.com/docs/en/integrations/go#connection-settings
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{config.Address},
		Auth: clickhouse.Auth{
			Database: config.DatabaseName,
			Username: config.Username,
			Password: config.Password,
		},
		Debug: config.Debug,
		Debugf: func(format string, v ...any) {
			fmt.Printf(format+"\n", v...)
		},
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})
	if err != nil {
		return ClickHouseDB{}, wrap.Error(err, "failed to connect to ClickHouse")
	}

	return ClickHouseDB{conn: conn, schema: reportSchema}, nil
}

func (clickhouse ClickHouseDB) RunReportQuery(
	ctx context.Context,
	interpretation reports.Interpretation,
) (reports.ReportResult, error) {
	plan, err := reports.AssembleQuery(clickhouse.schema, interpretation, Dialect{})
	if err != nil {
		return reports.ReportResult{}, err
	}

	log.Debug(
		"generated report query", slog.String("sql", plan.SQL), slog.Any("args", plan.Args),
	)

	rows, err := clickhouse.conn.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return reports.ReportResult{}, wrap.Error(err, "report query failed")
	}
	defer rows.Close()

	serialized := make([]reports.Row, 0)
	for rows.Next() {
		scanValues := make([]scanValue, len(plan.Columns))
		pointers := make([]any, len(plan.Columns))
		for i, column := range plan.Columns {
			scanValues[i] = newScanValue(column.DataType)
			pointers[i] = scanValues[i].Pointer()
		}

		if err := rows.Scan(pointers...); err != nil {
			return reports.ReportResult{}, wrap.Error(err, "failed to scan report row")
		}

		values := make([]any, len(scanValues))
		for i, scanned := range scanValues {
			values[i] = scanned.Value()
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
