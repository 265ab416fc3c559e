package reports

import (
	"hermannm.dev/enumnames"
)

// ReportType selects which base collection a report query targets. The set is
// closed: adding a type means extending every exhaustive switch below, which the
// compiler will point out.
type ReportType uint8

const (
	ReportProducts ReportType = iota + 1
	ReportCategories
	ReportBrands
	ReportCarts
	ReportOrders
	ReportPayments
	ReportCustomers
	ReportSales
	ReportInventory
	ReportPaymentPlans
)

// DefaultReportType is substituted when an interpretation carries an absent or
// unrecognized report type.
const DefaultReportType = ReportProducts

var reportTypeNames = enumnames.NewMap(map[ReportType]string{
	ReportProducts:     "products",
	ReportCategories:   "categories",
	ReportBrands:       "brands",
	ReportCarts:        "carts",
	ReportOrders:       "orders",
	ReportPayments:     "payments",
	ReportCustomers:    "customers",
	ReportSales:        "sales",
	ReportInventory:    "inventory",
	ReportPaymentPlans: "payment_plans",
})

func ReportTypeFromName(name string) (ReportType, bool) {
	return reportTypeNames.EnumValueFromName(name)
}

func ReportTypeNames() []string {
	return reportTypeNames.Names()
}

func (reportType ReportType) IsValid() bool {
	return reportTypeNames.ContainsEnumValue(reportType)
}

func (reportType ReportType) String() string {
	return reportTypeNames.GetNameOrFallback(reportType, "INVALID_REPORT_TYPE")
}

func (reportType ReportType) MarshalJSON() ([]byte, error) {
	return reportTypeNames.MarshalToNameJSON(reportType)
}

func (reportType *ReportType) UnmarshalJSON(bytes []byte) error {
	return reportTypeNames.UnmarshalFromNameJSON(bytes, reportType)
}

// ModelName is the schema model the report type reads from. Sales reports read
// order line items; inventory is a stock-centric view over products.
func (reportType ReportType) ModelName() string {
	switch reportType {
	case ReportProducts, ReportInventory:
		return "products"
	case ReportCategories:
		return "categories"
	case ReportBrands:
		return "brands"
	case ReportCarts:
		return "carts"
	case ReportOrders:
		return "orders"
	case ReportPayments:
		return "payments"
	case ReportCustomers:
		return "customers"
	case ReportSales:
		return "order_items"
	case ReportPaymentPlans:
		return "payment_plans"
	default:
		return ""
	}
}

// DefaultOrderBy is applied to ungrouped reports when the interpretation's
// ordering is empty or entirely invalid: newest first for dated collections,
// alphabetical for the small catalog tables.
func (reportType ReportType) DefaultOrderBy() []string {
	switch reportType {
	case ReportProducts:
		return []string{"-registered_at"}
	case ReportCategories, ReportBrands:
		return []string{"name"}
	case ReportCarts, ReportOrders:
		return []string{"-date"}
	case ReportPayments:
		return []string{"-paid_at"}
	case ReportCustomers:
		return []string{"-date_joined"}
	case ReportSales:
		return []string{"-order__date"}
	case ReportInventory:
		return []string{"-stock"}
	case ReportPaymentPlans:
		return []string{"-due_date"}
	default:
		return []string{"-id"}
	}
}

// OutputFields is the allowlist of columns an ungrouped report exposes. Fields
// not listed here never reach the response, whatever the underlying table holds.
func (reportType ReportType) OutputFields() []string {
	switch reportType {
	case ReportProducts:
		return []string{"id", "name", "brand__name", "cash_price", "stock", "is_active"}
	case ReportCategories:
		return []string{"id", "name", "description", "is_active"}
	case ReportBrands:
		return []string{"id", "name", "is_active"}
	case ReportCarts:
		return []string{"id", "customer__username", "total", "date", "is_active"}
	case ReportOrders:
		return []string{"id", "customer__username", "total", "status", "date"}
	case ReportPayments:
		return []string{"id", "amount", "paid_at", "payment_method__name", "payment_plan__installment_number"}
	case ReportCustomers:
		return []string{"id", "username", "email", "id_number", "phone", "date_joined"}
	case ReportSales:
		return []string{"id", "product__name", "quantity", "unit_price", "subtotal"}
	case ReportInventory:
		return []string{"id", "name", "brand__name", "stock", "cash_price"}
	case ReportPaymentPlans:
		return []string{"id", "installment_number", "amount", "due_date", "status"}
	default:
		return nil
	}
}
