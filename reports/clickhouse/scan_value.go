package clickhouse

import (
	"time"

	"ecomreports/schema"
)

// scanValue is a typed scan target for one result column. The ClickHouse driver
// requires exact Go types when scanning, unlike database/sql, so targets are
// picked from the column's declared data type.
type scanValue interface {
	// Pointer returns a double pointer, so that scanning a Nullable column can
	// set it to nil.
	Pointer() any
	Value() any
}

func newScanValue(dataType schema.DataType) scanValue {
	switch dataType {
	case schema.DataTypeInt:
		return &dbValue[int64]{}
	case schema.DataTypeDecimal:
		return &dbValue[float64]{}
	case schema.DataTypeBool:
		return &dbValue[bool]{}
	case schema.DataTypeDate, schema.DataTypeDateTime:
		return &dbValue[time.Time]{}
	default:
		return &dbValue[string]{}
	}
}

type dbValue[T any] struct {
	value *T
}

func (value *dbValue[T]) Pointer() any {
	return &value.value
}

func (value *dbValue[T]) Value() any {
	if value.value == nil {
		return nil
	}
	return *value.value
}
