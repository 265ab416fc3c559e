package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomreports/reports"
	"ecomreports/reports/sqlite"
	"ecomreports/schema"
)

func setupTestDB(t *testing.T) (sqlite.SQLiteDB, context.Context) {
	t.Helper()

	ctx := context.Background()

	db, err := sqlite.NewSQLiteDB(":memory:", schema.Ecommerce())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.CreateTables(ctx))

	require.NoError(t, db.InsertRows(ctx, "brands", []map[string]any{
		{"id": 1, "name": "Samsung", "is_active": true},
		{"id": 2, "name": "Lenovo", "is_active": true},
	}))
	require.NoError(t, db.InsertRows(ctx, "products", []map[string]any{
		{
			"id": 1, "name": "Galaxy A54", "cash_price": 2890.0, "stock": 25,
			"registered_at": "2026-01-10", "is_active": true, "brand_id": 1,
		},
		{
			"id": 2, "name": "Galaxy S24", "cash_price": 6450.0, "stock": 8,
			"registered_at": "2026-02-15", "is_active": true, "brand_id": 1,
		},
		{
			"id": 3, "name": "ThinkPad E14", "cash_price": 6890.0, "stock": 0,
			"registered_at": "2026-03-01", "is_active": false, "brand_id": 2,
		},
	}))
	require.NoError(t, db.InsertRows(ctx, "orders", []map[string]any{
		{"id": 1, "date": "2026-03-02", "total": 2890.0, "status": "paid", "is_active": true},
		{"id": 2, "date": "2026-03-05", "total": 12900.0, "status": "paid", "is_active": true},
		{"id": 3, "date": "2026-03-07", "total": 6890.0, "status": "pending", "is_active": true},
	}))
	require.NoError(t, db.InsertRows(ctx, "order_items", []map[string]any{
		{"id": 1, "quantity": 1, "unit_price": 2890.0, "subtotal": 2890.0, "order_id": 1, "product_id": 1},
		{"id": 2, "quantity": 2, "unit_price": 6450.0, "subtotal": 12900.0, "order_id": 2, "product_id": 2},
		{"id": 3, "quantity": 3, "unit_price": 2890.0, "subtotal": 8670.0, "order_id": 2, "product_id": 1},
		{"id": 4, "quantity": 1, "unit_price": 6890.0, "subtotal": 6890.0, "order_id": 3, "product_id": 3},
	}))

	return db, ctx
}

func TestBrandFilteredListing(t *testing.T) {
	db, ctx := setupTestDB(t)

	interpretation := reports.DefaultInterpretation()
	interpretation.Filters["brand__name__iexact"] = "samsung"

	result, err := db.RunReportQuery(ctx, interpretation)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	// Default products ordering is newest first.
	assert.Equal(t, "Galaxy S24", result.Rows[0]["name"])
	assert.Equal(t, "Galaxy A54", result.Rows[1]["name"])
	assert.Equal(t, "Samsung", result.Rows[0]["brand_name"])
	assert.Equal(t, true, result.Rows[0]["is_active"])
	assert.Empty(t, result.Dropped)
}

func TestBestSellersAggregate(t *testing.T) {
	db, ctx := setupTestDB(t)

	interpretation := reports.DefaultInterpretation()
	interpretation.ReportType = reports.ReportSales
	interpretation.Filters["order__status__iexact"] = "paid"
	interpretation.GroupBy = []string{"product__id", "product__name"}
	interpretation.Aggregations["units_sold"] = "Sum('quantity')"
	interpretation.OrderBy = []string{"-units_sold"}

	result, err := db.RunReportQuery(ctx, interpretation)
	require.NoError(t, err)

	// The pending order's item must not count.
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Galaxy A54", result.Rows[0]["product_name"])
	assert.Equal(t, int64(4), result.Rows[0]["units_sold"])
	assert.Equal(t, "Galaxy S24", result.Rows[1]["product_name"])
	assert.Equal(t, int64(2), result.Rows[1]["units_sold"])
	assert.True(t, result.Grouped)
}

func TestDatePartFilter(t *testing.T) {
	db, ctx := setupTestDB(t)

	interpretation := reports.DefaultInterpretation()
	interpretation.Filters["registered_at__month"] = float64(2)

	result, err := db.RunReportQuery(ctx, interpretation)
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Galaxy S24", result.Rows[0]["name"])
}

func TestInvalidFilterIsReportedAsDropped(t *testing.T) {
	db, ctx := setupTestDB(t)

	interpretation := reports.DefaultInterpretation()
	interpretation.Filters["warehouse__name"] = "central"

	result, err := db.RunReportQuery(ctx, interpretation)
	require.NoError(t, err)

	assert.Len(t, result.Rows, 3)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, "warehouse__name", result.Dropped[0].Expression)
}

func TestCountPerBrand(t *testing.T) {
	db, ctx := setupTestDB(t)

	interpretation := reports.DefaultInterpretation()
	interpretation.GroupBy = []string{"brand__name"}
	interpretation.Aggregations["product_count"] = "Count('id')"
	interpretation.OrderBy = []string{"-product_count"}

	result, err := db.RunReportQuery(ctx, interpretation)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Samsung", result.Rows[0]["brand_name"])
	assert.Equal(t, int64(2), result.Rows[0]["product_count"])
	assert.Equal(t, "Lenovo", result.Rows[1]["brand_name"])
	assert.Equal(t, int64(1), result.Rows[1]["product_count"])
}
