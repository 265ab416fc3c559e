package reports

import (
	"time"

	"ecomreports/schema"
)

// SerializeRow converts one scanned result row to its transport form, keyed by
// the columns' collapsed names and holding only JSON-safe primitives. Backends
// call this with raw driver values in selection order.
func SerializeRow(columns []OutputColumn, values []any) Row {
	row := make(Row, len(columns))
	for i, column := range columns {
		row[column.Name] = serializeValue(values[i], column.DataType)
	}
	return row
}

func serializeValue(value any, dataType schema.DataType) any {
	switch value := value.(type) {
	case nil:
		return nil
	case time.Time:
		if dataType == schema.DataTypeDate {
			return value.Format("2006-01-02")
		}
		return value.Format("2006-01-02T15:04:05")
	case []byte:
		// SQLite's driver hands TEXT columns back as byte slices in some paths.
		return string(value)
	case int64:
		// Booleans are stored as 0/1 integers on both backends.
		if dataType == schema.DataTypeBool {
			return value != 0
		}
		return value
	case uint64:
		if dataType == schema.DataTypeBool {
			return value != 0
		}
		return int64(value)
	case bool:
		return value
	case float32:
		return float64(value)
	case float64:
		return value
	default:
		return value
	}
}
