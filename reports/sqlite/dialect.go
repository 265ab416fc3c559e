package sqlite

import (
	"fmt"

	"ecomreports/schema"
)

// Dialect implements reports.Dialect for SQLite, where dates are stored as
// canonical text and components are extracted with strftime.
type Dialect struct{}

func (Dialect) DatePart(lookup schema.LookupOperator, columnExpr string) string {
	switch lookup {
	case schema.LookupYear:
		return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", columnExpr)
	case schema.LookupMonth:
		return fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", columnExpr)
	case schema.LookupDay:
		return fmt.Sprintf("CAST(strftime('%%d', %s) AS INTEGER)", columnExpr)
	case schema.LookupWeekDay:
		// strftime %w gives 0=Sunday..6=Saturday; shift to 1=Sunday..7=Saturday.
		return fmt.Sprintf("CAST(strftime('%%w', %s) AS INTEGER) + 1", columnExpr)
	default:
		return columnExpr
	}
}

func (Dialect) Count(columnExpr string) string {
	return fmt.Sprintf("COUNT(%s)", columnExpr)
}

// SQLite's LIKE has no escape character unless one is declared.
func (Dialect) LikeEscape() string {
	return ` ESCAPE '\'`
}
