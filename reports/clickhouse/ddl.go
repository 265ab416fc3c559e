package clickhouse

import (
	"context"

	"hermannm.dev/wrap"

	"ecomreports/reports"
	"ecomreports/schema"
)

// CreateTables creates a MergeTree table for every model in the schema, if not
// already present. All columns except the primary key are Nullable, since the
// transactional source allows nulls throughout.
func (clickhouse ClickHouseDB) CreateTables(ctx context.Context) error {
	for _, model := range clickhouse.schema.Models() {
		var builder reports.QueryBuilder
		builder.WriteString("CREATE TABLE IF NOT EXISTS ")
		builder.WriteIdentifier(model.Table)
		builder.WriteString(" (")
		builder.WriteIdentifier("id")
		builder.WriteString(" Int64")

		for _, field := range model.Fields {
			if field.Name == "id" {
				continue
			}
			builder.WriteString(", ")
			builder.WriteIdentifier(field.Name)
			builder.WriteString(" Nullable(")
			builder.WriteString(clickhouseColumnType(field.DataType))
			builder.WriteString(")")
		}
		for _, relation := range model.Relations() {
			builder.WriteString(", ")
			builder.WriteIdentifier(relation.ForeignKeyColumn)
			builder.WriteString(" Nullable(Int64)")
		}

		builder.WriteString(") ENGINE = MergeTree ORDER BY ")
		builder.WriteIdentifier("id")

		if err := clickhouse.conn.Exec(ctx, builder.String()); err != nil {
			return wrap.Errorf(err, "failed to create table '%s'", model.Table)
		}
	}

	return nil
}

func clickhouseColumnType(dataType schema.DataType) string {
	switch dataType {
	case schema.DataTypeInt:
		return "Int64"
	case schema.DataTypeDecimal:
		return "Float64"
	case schema.DataTypeBool:
		return "Bool"
	case schema.DataTypeDate:
		return "Date"
	case schema.DataTypeDateTime:
		return "DateTime"
	default:
		return "String"
	}
}
