// Package reports holds the core of the reporting service: the Interpretation of
// a report request, its normalization, and the assembly of a validated,
// injection-safe aggregate query from it.
package reports

import (
	"strings"
)

// Interpretation is the normalized description of a report request. It is built
// once per request (from a prompt interpreter or the report builder), used for
// exactly one query, and discarded.
type Interpretation struct {
	ReportType ReportType `json:"report_type"`
	// Filters maps field paths (optionally with a trailing lookup operator) to
	// raw values, e.g. {"brand__name__iexact": "Samsung"}.
	Filters map[string]any `json:"filters"`
	GroupBy []string       `json:"group_by"`
	// Aggregations maps result column names to aggregation expressions, e.g.
	// {"units_sold": "Sum('quantity')"}.
	Aggregations map[string]any `json:"aggregations"`
	OrderBy      []string       `json:"order_by"`
	Limit        int            `json:"limit,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// DefaultInterpretation is an ungrouped, unfiltered listing of the default
// report type. It is the universal fallback: assembling it cannot fail.
func DefaultInterpretation() Interpretation {
	return NormalizeInterpretation(nil)
}

// NormalizeInterpretation turns a raw, untrusted mapping (typically parsed LLM
// output) into a well-typed Interpretation. It never fails: wrongly-typed
// entries are replaced by empty defaults, and an absent or unrecognized report
// type falls back to DefaultReportType.
func NormalizeInterpretation(raw map[string]any) Interpretation {
	interpretation := Interpretation{
		ReportType:   DefaultReportType,
		Filters:      make(map[string]any),
		GroupBy:      []string{},
		Aggregations: make(map[string]any),
		OrderBy:      []string{},
	}
	if raw == nil {
		return interpretation
	}

	if name, ok := raw["report_type"].(string); ok {
		name = strings.ToLower(strings.TrimSpace(name))
		if reportType, ok := ReportTypeFromName(name); ok {
			interpretation.ReportType = reportType
		}
	}

	if filters, ok := raw["filters"].(map[string]any); ok {
		interpretation.Filters = filters
	}
	if groupBy, ok := toStringList(raw["group_by"]); ok {
		interpretation.GroupBy = groupBy
	}
	if aggregations, ok := raw["aggregations"].(map[string]any); ok {
		interpretation.Aggregations = aggregations
	}
	if orderBy, ok := toStringList(raw["order_by"]); ok {
		interpretation.OrderBy = orderBy
	}

	switch limit := raw["limit"].(type) {
	case float64:
		interpretation.Limit = int(limit)
	case int:
		interpretation.Limit = limit
	}

	if errMessage, ok := raw["error"].(string); ok {
		interpretation.Error = errMessage
	}

	return interpretation
}

func toStringList(value any) ([]string, bool) {
	switch value := value.(type) {
	case []string:
		return value, true
	case []any:
		strs := make([]string, 0, len(value))
		for _, element := range value {
			str, ok := element.(string)
			if !ok {
				return nil, false
			}
			strs = append(strs, str)
		}
		return strs, true
	default:
		return nil, false
	}
}
