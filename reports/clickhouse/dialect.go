package clickhouse

import (
	"fmt"

	"ecomreports/schema"
)

// Dialect implements reports.Dialect for ClickHouse.
type Dialect struct{}

func (Dialect) DatePart(lookup schema.LookupOperator, columnExpr string) string {
	switch lookup {
	case schema.LookupYear:
		return fmt.Sprintf("toYear(%s)", columnExpr)
	case schema.LookupMonth:
		return fmt.Sprintf("toMonth(%s)", columnExpr)
	case schema.LookupDay:
		return fmt.Sprintf("toDayOfMonth(%s)", columnExpr)
	case schema.LookupWeekDay:
		// toDayOfWeek gives 1=Monday..7=Sunday; shift to 1=Sunday..7=Saturday to
		// match the SQLite backend.
		return fmt.Sprintf("(toDayOfWeek(%s) %% 7) + 1", columnExpr)
	default:
		return columnExpr
	}
}

// count() returns UInt64 in ClickHouse; cast so both backends agree on
// signedness.
func (Dialect) Count(columnExpr string) string {
	return fmt.Sprintf("toInt64(count(%s))", columnExpr)
}

// Backslash already escapes wildcards in ClickHouse LIKE, and the ESCAPE
// clause is not supported.
func (Dialect) LikeEscape() string {
	return ""
}
