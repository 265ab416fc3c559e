package reports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecomreports/reports"
)

func TestNormalizeInterpretationDefaults(t *testing.T) {
	interpretation := reports.NormalizeInterpretation(nil)

	assert.Equal(t, reports.ReportProducts, interpretation.ReportType)
	assert.Empty(t, interpretation.Filters)
	assert.Empty(t, interpretation.GroupBy)
	assert.Empty(t, interpretation.Aggregations)
	assert.Empty(t, interpretation.OrderBy)
	assert.Zero(t, interpretation.Limit)
}

func TestNormalizeInterpretationReportType(t *testing.T) {
	tests := []struct {
		raw      any
		expected reports.ReportType
	}{
		{"orders", reports.ReportOrders},
		{"  Payment_Plans  ", reports.ReportPaymentPlans},
		{"nonexistent", reports.ReportProducts},
		{42, reports.ReportProducts},
		{nil, reports.ReportProducts},
	}

	for _, test := range tests {
		interpretation := reports.NormalizeInterpretation(map[string]any{
			"report_type": test.raw,
		})
		assert.Equal(t, test.expected, interpretation.ReportType, "raw type %v", test.raw)
	}
}

func TestNormalizeInterpretationDiscardsWrongTypes(t *testing.T) {
	interpretation := reports.NormalizeInterpretation(map[string]any{
		"filters":      "not a map",
		"group_by":     "not a list",
		"aggregations": []any{"not", "a", "map"},
		"order_by":     map[string]any{},
		"limit":        "not a number",
	})

	assert.Empty(t, interpretation.Filters)
	assert.Empty(t, interpretation.GroupBy)
	assert.Empty(t, interpretation.Aggregations)
	assert.Empty(t, interpretation.OrderBy)
	assert.Zero(t, interpretation.Limit)
}

func TestNormalizeInterpretationKeepsValidEntries(t *testing.T) {
	interpretation := reports.NormalizeInterpretation(map[string]any{
		"report_type":  "sales",
		"filters":      map[string]any{"order__status__iexact": "paid"},
		"group_by":     []any{"product__name"},
		"aggregations": map[string]any{"units_sold": "Sum('quantity')"},
		"order_by":     []any{"-units_sold"},
		"limit":        float64(10),
		"error":        "minor quibble",
	})

	assert.Equal(t, reports.ReportSales, interpretation.ReportType)
	assert.Equal(t, map[string]any{"order__status__iexact": "paid"}, interpretation.Filters)
	assert.Equal(t, []string{"product__name"}, interpretation.GroupBy)
	assert.Equal(t, []string{"-units_sold"}, interpretation.OrderBy)
	assert.Equal(t, 10, interpretation.Limit)
	assert.Equal(t, "minor quibble", interpretation.Error)
}

func TestGroupByListWithNonStringIsDiscarded(t *testing.T) {
	interpretation := reports.NormalizeInterpretation(map[string]any{
		"group_by": []any{"is_active", 42},
	})
	assert.Empty(t, interpretation.GroupBy)
}
