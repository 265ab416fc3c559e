package schema

import (
	"hermannm.dev/enumnames"
)

// LookupOperator is a trailing field-path token selecting the comparison applied
// to a filter value, e.g. the "iexact" in "brand__name__iexact".
type LookupOperator uint8

const (
	LookupExact LookupOperator = iota + 1
	LookupIExact
	LookupContains
	LookupIContains
	LookupIn
	LookupGreaterThan
	LookupGreaterOrEqual
	LookupLessThan
	LookupLessOrEqual
	LookupIsNull
	LookupRange
	LookupYear
	LookupMonth
	LookupDay
	LookupWeekDay
	LookupStartsWith
	LookupIStartsWith
	LookupEndsWith
	LookupIEndsWith
)

var lookupOperatorNames = enumnames.NewMap(map[LookupOperator]string{
	LookupExact:          "exact",
	LookupIExact:         "iexact",
	LookupContains:       "contains",
	LookupIContains:      "icontains",
	LookupIn:             "in",
	LookupGreaterThan:    "gt",
	LookupGreaterOrEqual: "gte",
	LookupLessThan:       "lt",
	LookupLessOrEqual:    "lte",
	LookupIsNull:         "isnull",
	LookupRange:          "range",
	LookupYear:           "year",
	LookupMonth:          "month",
	LookupDay:            "day",
	LookupWeekDay:        "week_day",
	LookupStartsWith:     "startswith",
	LookupIStartsWith:    "istartswith",
	LookupEndsWith:       "endswith",
	LookupIEndsWith:      "iendswith",
})

func LookupOperatorFromName(name string) (LookupOperator, bool) {
	return lookupOperatorNames.EnumValueFromName(name)
}

func (lookup LookupOperator) IsValid() bool {
	return lookupOperatorNames.ContainsEnumValue(lookup)
}

func (lookup LookupOperator) String() string {
	return lookupOperatorNames.GetNameOrFallback(lookup, "INVALID_LOOKUP")
}

func (lookup LookupOperator) MarshalJSON() ([]byte, error) {
	return lookupOperatorNames.MarshalToNameJSON(lookup)
}

func (lookup *LookupOperator) UnmarshalJSON(bytes []byte) error {
	return lookupOperatorNames.UnmarshalFromNameJSON(bytes, lookup)
}

// IsDatePart reports whether the lookup extracts a date component, which takes an
// integer value regardless of the field's own data type.
func (lookup LookupOperator) IsDatePart() bool {
	switch lookup {
	case LookupYear, LookupMonth, LookupDay, LookupWeekDay:
		return true
	default:
		return false
	}
}

// IsTextPattern reports whether the lookup compares against a LIKE pattern.
func (lookup LookupOperator) IsTextPattern() bool {
	switch lookup {
	case LookupContains, LookupIContains, LookupStartsWith, LookupIStartsWith,
		LookupEndsWith, LookupIEndsWith:
		return true
	default:
		return false
	}
}

// IsCaseInsensitive reports whether the lookup folds case before comparing.
func (lookup LookupOperator) IsCaseInsensitive() bool {
	switch lookup {
	case LookupIExact, LookupIContains, LookupIStartsWith, LookupIEndsWith:
		return true
	default:
		return false
	}
}
