package reports_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ecomreports/reports"
	"ecomreports/schema"
)

func TestSerializeRow(t *testing.T) {
	columns := []reports.OutputColumn{
		{Alias: "id", Name: "id", DataType: schema.DataTypeInt},
		{Alias: "brand__name", Name: "brand_name", DataType: schema.DataTypeText},
		{Alias: "cash_price", Name: "cash_price", DataType: schema.DataTypeDecimal},
		{Alias: "is_active", Name: "is_active", DataType: schema.DataTypeBool},
		{Alias: "registered_at", Name: "registered_at", DataType: schema.DataTypeDate},
		{Alias: "date_joined", Name: "date_joined", DataType: schema.DataTypeDateTime},
	}
	values := []any{
		int64(7),
		[]byte("Samsung"),
		float64(2890.5),
		int64(1),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 14, 30, 0, 0, time.UTC),
	}

	row := reports.SerializeRow(columns, values)

	assert.Equal(t, reports.Row{
		"id":            int64(7),
		"brand_name":    "Samsung",
		"cash_price":    2890.5,
		"is_active":     true,
		"registered_at": "2026-03-08",
		"date_joined":   "2026-03-08T14:30:00",
	}, row)
}

func TestSerializeRowNulls(t *testing.T) {
	columns := []reports.OutputColumn{
		{Alias: "name", Name: "name", DataType: schema.DataTypeText},
		{Alias: "stock", Name: "stock", DataType: schema.DataTypeInt},
	}

	row := reports.SerializeRow(columns, []any{nil, nil})

	assert.Equal(t, reports.Row{"name": nil, "stock": nil}, row)
}

func TestCollapseFieldPath(t *testing.T) {
	assert.Equal(t, "brand_name", reports.CollapseFieldPath("brand__name"))
	assert.Equal(t, "subcategory_category_name",
		reports.CollapseFieldPath("subcategory__category__name"))
	assert.Equal(t, "stock", reports.CollapseFieldPath("stock"))
}
