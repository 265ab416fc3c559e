package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecomreports/reports"
)

func TestBuilderStockThreshold(t *testing.T) {
	interpretation := TranslateBuilderRequest(BuilderRequest{
		Type: "products",
		Filters: BuilderFilters{
			StockOp:    "lt",
			StockValue: float64(5),
		},
	})

	assert.Equal(t, reports.ReportProducts, interpretation.ReportType)
	assert.Equal(t, float64(5), interpretation.Filters["stock__lt"])
}

func TestBuilderStatusTranslation(t *testing.T) {
	// For products, status means active/inactive.
	interpretation := TranslateBuilderRequest(BuilderRequest{
		Type:    "products",
		Filters: BuilderFilters{Status: "active"},
	})
	assert.Equal(t, true, interpretation.Filters["is_active"])

	interpretation = TranslateBuilderRequest(BuilderRequest{
		Type:    "products",
		Filters: BuilderFilters{Status: "inactive"},
	})
	assert.Equal(t, false, interpretation.Filters["is_active"])

	// For orders, status is the order state, matched case-insensitively.
	interpretation = TranslateBuilderRequest(BuilderRequest{
		Type:    "orders",
		Filters: BuilderFilters{Status: "Paid"},
	})
	assert.Equal(t, "Paid", interpretation.Filters["status__iexact"])
}

func TestBuilderDateRanges(t *testing.T) {
	interpretation := TranslateBuilderRequest(BuilderRequest{
		Type:    "orders",
		Filters: BuilderFilters{DateFrom: "2026-01-01", DateTo: "2026-03-31"},
	})
	assert.Equal(t, []any{"2026-01-01", "2026-03-31"}, interpretation.Filters["date__range"])

	interpretation = TranslateBuilderRequest(BuilderRequest{
		Type:    "payments",
		Filters: BuilderFilters{DateFrom: "2026-01-01"},
	})
	assert.Equal(t, "2026-01-01", interpretation.Filters["paid_at__gte"])

	interpretation = TranslateBuilderRequest(BuilderRequest{
		Type:    "customers",
		Filters: BuilderFilters{DateTo: "2026-03-31"},
	})
	assert.Equal(t, "2026-03-31", interpretation.Filters["date_joined__lte"])

	// Report types without a date field ignore date filters.
	interpretation = TranslateBuilderRequest(BuilderRequest{
		Type:    "brands",
		Filters: BuilderFilters{DateFrom: "2026-01-01"},
	})
	assert.Empty(t, interpretation.Filters)
}

func TestBuilderUnknownTypeDefaults(t *testing.T) {
	interpretation := TranslateBuilderRequest(BuilderRequest{Type: "warehouses"})
	assert.Equal(t, reports.ReportProducts, interpretation.ReportType)
}

func TestBuilderPriceFilterOnlyForProducts(t *testing.T) {
	interpretation := TranslateBuilderRequest(BuilderRequest{
		Type:    "orders",
		Filters: BuilderFilters{PriceOp: "gte", PriceValue: float64(100)},
	})
	assert.Empty(t, interpretation.Filters)

	interpretation = TranslateBuilderRequest(BuilderRequest{
		Type:    "inventory",
		Filters: BuilderFilters{PriceOp: "gte", PriceValue: float64(100)},
	})
	assert.Equal(t, float64(100), interpretation.Filters["cash_price__gte"])
}
