package reports

import (
	"errors"

	"hermannm.dev/enumnames"

	"ecomreports/schema"
)

// MaxReportRows is the hard ceiling on result cardinality. A caller-supplied
// limit may lower it, never raise it.
const MaxReportRows = 1000

// ErrNoValidGroupingField is the one hard failure of query assembly: grouping
// was requested (or aggregations given) but no valid grouping field remained.
// An aggregation with no groups is meaningless, so there is nothing to degrade
// to. Callers typically retry with DefaultInterpretation.
var ErrNoValidGroupingField = errors.New("no valid grouping field")

var ErrInvalidAggregation = errors.New("invalid aggregation")

// Plan is an assembled, executable report query: parameterized SQL, its
// arguments, the typed output columns in selection order, and the conditions
// that were dropped during validation.
type Plan struct {
	SQL     string
	Args    []any
	Columns []OutputColumn
	Grouped bool
	Dropped []DroppedCondition
}

type OutputColumn struct {
	// Alias is the SQL result column name (a field path or aggregation name).
	Alias string
	// Name is the transport key: the alias with foreign-key chains collapsed.
	Name     string
	DataType schema.DataType
}

// DroppedCondition records a filter, grouping, aggregation or ordering entry
// that validation discarded, so callers can see what the executed query does
// NOT include instead of having to trust a log line.
type DroppedCondition struct {
	Kind       DroppedKind `json:"kind"`
	Expression string      `json:"expression"`
	Reason     string      `json:"reason"`
}

type DroppedKind uint8

const (
	DroppedFilter DroppedKind = iota + 1
	DroppedGrouping
	DroppedAggregation
	DroppedOrdering
)

var droppedKindNames = enumnames.NewMap(map[DroppedKind]string{
	DroppedFilter:      "filter",
	DroppedGrouping:    "grouping",
	DroppedAggregation: "aggregation",
	DroppedOrdering:    "ordering",
})

func (kind DroppedKind) IsValid() bool {
	return droppedKindNames.ContainsEnumValue(kind)
}

func (kind DroppedKind) String() string {
	return droppedKindNames.GetNameOrFallback(kind, "INVALID_DROPPED_KIND")
}

func (kind DroppedKind) MarshalJSON() ([]byte, error) {
	return droppedKindNames.MarshalToNameJSON(kind)
}

func (kind *DroppedKind) UnmarshalJSON(bytes []byte) error {
	return droppedKindNames.UnmarshalFromNameJSON(bytes, kind)
}

// Dialect covers the few places where the two storage backends' SQL diverges.
type Dialect interface {
	// DatePart renders extraction of a date component from a column expression,
	// returning an integer expression. week_day follows the 1=Sunday..7=Saturday
	// convention on both backends.
	DatePart(lookup schema.LookupOperator, columnExpr string) string
	// Count renders a count aggregation over columnExpr (possibly "*"),
	// returning a signed 64-bit integer expression.
	Count(columnExpr string) string
	// LikeEscape is the clause appended after a LIKE pattern argument to make
	// backslash the escape character, or empty if backslash already is.
	LikeEscape() string
}
