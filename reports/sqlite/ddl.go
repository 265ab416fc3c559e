package sqlite

import (
	"context"

	"hermannm.dev/wrap"

	"ecomreports/reports"
	"ecomreports/schema"
)

// CreateTables creates a table for every model in the schema, if not already
// present. Foreign keys may reference tables created later in the loop, which
// SQLite resolves lazily.
func (sqlite SQLiteDB) CreateTables(ctx context.Context) error {
	for _, model := range sqlite.schema.Models() {
		var builder reports.QueryBuilder
		builder.WriteString("CREATE TABLE IF NOT EXISTS ")
		builder.WriteIdentifier(model.Table)
		builder.WriteString(" (")
		builder.WriteIdentifier("id")
		builder.WriteString(" INTEGER PRIMARY KEY")

		for _, field := range model.Fields {
			if field.Name == "id" {
				continue
			}
			builder.WriteString(", ")
			builder.WriteIdentifier(field.Name)
			builder.WriteString(" ")
			builder.WriteString(sqliteColumnType(field.DataType))
		}
		for _, relation := range model.Relations() {
			builder.WriteString(", ")
			builder.WriteIdentifier(relation.ForeignKeyColumn)
			builder.WriteString(" INTEGER")
		}
		builder.WriteString(")")

		if _, err := sqlite.db.ExecContext(ctx, builder.String()); err != nil {
			return wrap.Errorf(err, "failed to create table '%s'", model.Table)
		}
	}

	return nil
}

func sqliteColumnType(dataType schema.DataType) string {
	switch dataType {
	case schema.DataTypeInt, schema.DataTypeBool:
		return "INTEGER"
	case schema.DataTypeDecimal:
		return "REAL"
	default:
		// Text, dates and datetimes are all stored as canonical text.
		return "TEXT"
	}
}

// InsertRows bulk-inserts rows into the given model's table, with row values
// keyed by column name. Used by database seeding.
func (sqlite SQLiteDB) InsertRows(
	ctx context.Context,
	modelName string,
	rows []map[string]any,
) error {
	if len(rows) == 0 {
		return nil
	}

	model, ok := sqlite.schema.Model(modelName)
	if !ok {
		return wrap.Errorf(schema.ErrUnknownField, "no model '%s' in schema", modelName)
	}

	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		if err := reports.ValidateIdentifier(column); err != nil {
			return wrap.Errorf(err, "invalid column name for table '%s'", model.Table)
		}
		columns = append(columns, column)
	}

	var builder reports.QueryBuilder
	builder.WriteString("INSERT INTO ")
	builder.WriteIdentifier(model.Table)
	builder.WriteString(" (")
	for i, column := range columns {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteIdentifier(column)
	}
	builder.WriteString(") VALUES (")
	for i := range columns {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("?")
	}
	builder.WriteString(")")

	transaction, err := sqlite.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap.Error(err, "failed to begin insert transaction")
	}
	defer transaction.Rollback()

	statement, err := transaction.PreparexContext(ctx, builder.String())
	if err != nil {
		return wrap.Errorf(err, "failed to prepare insert for table '%s'", model.Table)
	}
	defer statement.Close()

	for _, row := range rows {
		values := make([]any, len(columns))
		for i, column := range columns {
			values[i] = row[column]
		}
		if _, err := statement.ExecContext(ctx, values...); err != nil {
			return wrap.Errorf(err, "failed to insert row into table '%s'", model.Table)
		}
	}

	if err := transaction.Commit(); err != nil {
		return wrap.Error(err, "failed to commit insert transaction")
	}

	return nil
}
