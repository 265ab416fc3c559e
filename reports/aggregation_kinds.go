package reports

import (
	"strings"

	"hermannm.dev/enumnames"
	"hermannm.dev/wrap"

	"ecomreports/schema"
)

type AggregationKind uint8

const (
	AggregationSum AggregationKind = iota + 1
	AggregationCount
	AggregationAverage
	AggregationMax
	AggregationMin
)

var aggregationKindNames = enumnames.NewMap(map[AggregationKind]string{
	AggregationSum:     "Sum",
	AggregationCount:   "Count",
	AggregationAverage: "Avg",
	AggregationMax:     "Max",
	AggregationMin:     "Min",
})

func AggregationKindFromName(name string) (AggregationKind, bool) {
	return aggregationKindNames.EnumValueFromName(name)
}

func (kind AggregationKind) IsValid() bool {
	return aggregationKindNames.ContainsEnumValue(kind)
}

func (kind AggregationKind) String() string {
	return aggregationKindNames.GetNameOrFallback(kind, "INVALID_AGGREGATION")
}

func (kind AggregationKind) MarshalJSON() ([]byte, error) {
	return aggregationKindNames.MarshalToNameJSON(kind)
}

func (kind *AggregationKind) UnmarshalJSON(bytes []byte) error {
	return aggregationKindNames.UnmarshalFromNameJSON(bytes, kind)
}

// ResultDataType is the type of the aggregated column: counting always yields an
// integer, averaging always a decimal, the rest keep the field's own type.
func (kind AggregationKind) ResultDataType(fieldType schema.DataType) schema.DataType {
	switch kind {
	case AggregationCount:
		return schema.DataTypeInt
	case AggregationAverage:
		return schema.DataTypeDecimal
	default:
		return fieldType
	}
}

// AggregationWildcard targets the whole row rather than a field, as in
// "Count('*')". Validated against the id field.
const AggregationWildcard = "*"

// ParseAggregationExpression accepts the two wire forms of an aggregation:
// a call-style string like "Sum('quantity')", or an object like
// {"function": "Sum", "field": "quantity"}.
func ParseAggregationExpression(expression any) (AggregationKind, string, error) {
	var kindName, fieldPath string

	switch expression := expression.(type) {
	case string:
		openParen := strings.IndexRune(expression, '(')
		closeParen := strings.LastIndexByte(expression, ')')
		if openParen == -1 || closeParen == -1 || closeParen < openParen {
			return 0, "", wrap.Errorf(
				ErrInvalidAggregation, "could not parse expression '%s'", expression,
			)
		}
		kindName = strings.TrimSpace(expression[:openParen])
		fieldPath = strings.Trim(expression[openParen+1:closeParen], "'\" ")
	case map[string]any:
		kindName, _ = expression["function"].(string)
		fieldPath, _ = expression["field"].(string)
	default:
		return 0, "", wrap.Errorf(ErrInvalidAggregation, "unrecognized expression '%v'", expression)
	}

	if kindName == "" || fieldPath == "" {
		return 0, "", wrap.Errorf(
			ErrInvalidAggregation, "expression '%v' is missing function or field", expression,
		)
	}

	kind, ok := AggregationKindFromName(kindName)
	if !ok {
		return 0, "", wrap.Errorf(
			ErrInvalidAggregation, "'%s' is not an allowed aggregation function", kindName,
		)
	}

	return kind, fieldPath, nil
}
