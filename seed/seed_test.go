package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomreports/reports"
	"ecomreports/reports/sqlite"
	"ecomreports/schema"
	"ecomreports/seed"
)

func TestSeededDatabaseServesReports(t *testing.T) {
	ctx := context.Background()
	reportSchema := schema.Ecommerce()

	db, err := sqlite.NewSQLiteDB(":memory:", reportSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, seed.Database(ctx, db, reportSchema))

	result, err := db.RunReportQuery(ctx, reports.DefaultInterpretation())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Rows)

	// Every row exposes the products allowlist, with the brand join resolved.
	for _, row := range result.Rows {
		assert.Contains(t, row, "brand_name")
		assert.Contains(t, row, "cash_price")
	}

	// Fixtures must support the aggregate path too.
	interpretation := reports.DefaultInterpretation()
	interpretation.ReportType = reports.ReportSales
	interpretation.GroupBy = []string{"product__name"}
	interpretation.Aggregations["units_sold"] = "Sum('quantity')"

	result, err = db.RunReportQuery(ctx, interpretation)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Rows)
}
