package interpret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"ecomreports/reports"
)

func TestKeywordReportTypes(t *testing.T) {
	tests := []struct {
		prompt   string
		expected reports.ReportType
	}{
		{"list all orders from march", reports.ReportOrders},
		{"reporte de pedidos", reports.ReportOrders},
		{"ventas del mes", reports.ReportOrders},
		{"pending payments", reports.ReportPayments},
		{"clientes registrados", reports.ReportCustomers},
		{"abandoned carts", reports.ReportCarts},
		{"categorias activas", reports.ReportCategories},
		{"brands we carry", reports.ReportBrands},
		{"inventario actual", reports.ReportInventory},
		{"something unintelligible", reports.ReportProducts},
		{"", reports.ReportProducts},
	}

	interpreter := KeywordInterpreter{}
	for _, test := range tests {
		interpretation := interpreter.InterpretPrompt(context.Background(), test.prompt)
		assert.Equal(t, test.expected, interpretation.ReportType, "prompt '%s'", test.prompt)
	}
}

func TestKeywordFilters(t *testing.T) {
	interpreter := KeywordInterpreter{}

	interpretation := interpreter.InterpretPrompt(
		context.Background(), "Active products with low stock",
	)
	assert.Equal(t, true, interpretation.Filters["is_active"])
	assert.Equal(t, 5, interpretation.Filters["stock__lt"])

	interpretation = interpreter.InterpretPrompt(context.Background(), "productos sin stock")
	assert.Equal(t, 0, interpretation.Filters["stock"])
	assert.Equal(t, reports.ReportInventory, interpretation.ReportType)

	interpretation = interpreter.InterpretPrompt(context.Background(), "paid orders")
	assert.Equal(t, "paid", interpretation.Filters["status__iexact"])

	// "inactive" contains "active"; the inactive match must win.
	interpretation = interpreter.InterpretPrompt(context.Background(), "inactive brands")
	assert.Equal(t, false, interpretation.Filters["is_active"])
}

func TestKeywordBestSellers(t *testing.T) {
	interpreter := KeywordInterpreter{}

	interpretation := interpreter.InterpretPrompt(
		context.Background(), "best selling products this year",
	)

	assert.Equal(t, reports.ReportSales, interpretation.ReportType)
	assert.Equal(t, "paid", interpretation.Filters["order__status__iexact"])
	assert.Equal(t, []string{"product__id", "product__name"}, interpretation.GroupBy)
	assert.Equal(t, "Sum('quantity')", interpretation.Aggregations["units_sold"])
	assert.Equal(t, []string{"-units_sold"}, interpretation.OrderBy)
}

func TestGarbagePromptNeverErrors(t *testing.T) {
	interpreter := KeywordInterpreter{}

	interpretation := interpreter.InterpretPrompt(
		context.Background(), ";;; DROP TABLE products; --",
	)

	assert.Equal(t, reports.ReportProducts, interpretation.ReportType)
	assert.Empty(t, interpretation.Filters)
}
