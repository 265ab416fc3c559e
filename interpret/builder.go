package interpret

import (
	"strings"

	"ecomreports/reports"
)

// BuilderRequest is the structured report-builder form the frontend sends to
// the direct report endpoint. No LLM involved; translation is deterministic.
type BuilderRequest struct {
	Type    string         `json:"type"`
	Filters BuilderFilters `json:"filters"`
}

type BuilderFilters struct {
	Status     string `json:"status,omitempty"`
	DateFrom   string `json:"dateFrom,omitempty"`
	DateTo     string `json:"dateTo,omitempty"`
	StockOp    string `json:"stockOp,omitempty"`
	StockValue any    `json:"stockValue,omitempty"`
	PriceOp    string `json:"priceOp,omitempty"`
	PriceValue any    `json:"priceValue,omitempty"`
}

// Date field each report type's date range filters apply to.
var builderDateFields = map[reports.ReportType]string{
	reports.ReportProducts:     "registered_at",
	reports.ReportOrders:       "date",
	reports.ReportPayments:     "paid_at",
	reports.ReportCarts:        "date",
	reports.ReportCustomers:    "date_joined",
	reports.ReportPaymentPlans: "due_date",
}

// TranslateBuilderRequest converts a builder form into a report interpretation.
// Unknown operators or misdated values are not rejected here; query assembly
// validates them and reports them in the dropped list.
func TranslateBuilderRequest(request BuilderRequest) reports.Interpretation {
	interpretation := reports.DefaultInterpretation()
	if reportType, ok := reports.ReportTypeFromName(
		strings.ToLower(strings.TrimSpace(request.Type)),
	); ok {
		interpretation.ReportType = reportType
	}

	filters := request.Filters

	if filters.Status != "" {
		switch interpretation.ReportType {
		case reports.ReportProducts, reports.ReportInventory:
			interpretation.Filters["is_active"] = filters.Status == "active"
		default:
			interpretation.Filters["status__iexact"] = filters.Status
		}
	}

	if dateField, ok := builderDateFields[interpretation.ReportType]; ok {
		switch {
		case filters.DateFrom != "" && filters.DateTo != "":
			interpretation.Filters[dateField+"__range"] = []any{filters.DateFrom, filters.DateTo}
		case filters.DateFrom != "":
			interpretation.Filters[dateField+"__gte"] = filters.DateFrom
		case filters.DateTo != "":
			interpretation.Filters[dateField+"__lte"] = filters.DateTo
		}
	}

	stockable := interpretation.ReportType == reports.ReportProducts ||
		interpretation.ReportType == reports.ReportInventory
	if stockable && filters.StockOp != "" && filters.StockValue != nil {
		interpretation.Filters["stock__"+filters.StockOp] = filters.StockValue
	}
	if stockable && filters.PriceOp != "" && filters.PriceValue != nil {
		interpretation.Filters["cash_price__"+filters.PriceOp] = filters.PriceValue
	}

	return interpretation
}
