package interpret

import (
	"context"
	"strings"

	"ecomreports/reports"
)

// KeywordInterpreter is the deterministic fallback strategy: it matches known
// keywords (English and Spanish, since the storefront serves both) against the
// prompt. Always available, never errors.
type KeywordInterpreter struct{}

func (KeywordInterpreter) InterpretPrompt(
	ctx context.Context,
	prompt string,
) reports.Interpretation {
	prompt = strings.ToLower(strings.TrimSpace(prompt))
	interpretation := reports.DefaultInterpretation()

	if containsAny(prompt, "best sell", "top sell", "most sold", "más vendido", "mas vendido") {
		return bestSellersInterpretation()
	}

	switch {
	// Inventory goes first: "venta" would otherwise match inside "inventario".
	case containsAny(prompt, "inventory", "inventario", "stock"):
		interpretation.ReportType = reports.ReportInventory
	case containsAny(prompt, "order", "pedido", "sale", "venta"):
		interpretation.ReportType = reports.ReportOrders
	case containsAny(prompt, "payment", "pago", "installment", "cuota"):
		interpretation.ReportType = reports.ReportPayments
	case containsAny(prompt, "customer", "cliente", "user", "usuario"):
		interpretation.ReportType = reports.ReportCustomers
	case containsAny(prompt, "cart", "carrito"):
		interpretation.ReportType = reports.ReportCarts
	case containsAny(prompt, "categor"): // category/categories/categoria
		interpretation.ReportType = reports.ReportCategories
	case containsAny(prompt, "brand", "marca"):
		interpretation.ReportType = reports.ReportBrands
	}

	if containsAny(prompt, "active", "activo") {
		interpretation.Filters["is_active"] = true
	}
	if containsAny(prompt, "inactive", "inactivo") {
		interpretation.Filters["is_active"] = false
	}
	if containsAny(prompt, "low stock", "stock bajo") {
		interpretation.Filters["stock__lt"] = 5
	}
	if containsAny(prompt, "out of stock", "sin stock") {
		interpretation.Filters["stock"] = 0
	}
	if containsAny(prompt, "paid", "pagado") {
		interpretation.Filters["status__iexact"] = "paid"
	}
	if containsAny(prompt, "pending", "pendiente") {
		interpretation.Filters["status__iexact"] = "pending"
	}

	return interpretation
}

// bestSellersInterpretation is the canned aggregate for "best-selling products"
// prompts: units sold per product over paid orders, most sold first.
func bestSellersInterpretation() reports.Interpretation {
	interpretation := reports.DefaultInterpretation()
	interpretation.ReportType = reports.ReportSales
	interpretation.Filters["order__status__iexact"] = "paid"
	interpretation.GroupBy = []string{"product__id", "product__name"}
	interpretation.Aggregations["units_sold"] = "Sum('quantity')"
	interpretation.OrderBy = []string{"-units_sold"}
	return interpretation
}

func containsAny(prompt string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(prompt, keyword) {
			return true
		}
	}
	return false
}
