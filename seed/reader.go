package seed

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"hermannm.dev/wrap"

	"ecomreports/schema"
)

type fixtureReader struct {
	inner      *csv.Reader
	currentRow int
}

func newFixtureReader(file io.Reader) *fixtureReader {
	inner := csv.NewReader(file)
	inner.ReuseRecord = true
	return &fixtureReader{inner: inner}
}

func (reader *fixtureReader) readRow() (row []string, rowNumber int, done bool, err error) {
	reader.currentRow++

	row, err = reader.inner.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, true, nil
		}
		return nil, 0, false, err
	}

	return row, reader.currentRow, false, nil
}

func (reader *fixtureReader) readHeaderRow() ([]string, error) {
	row, rowNumber, done, err := reader.readRow()
	if rowNumber != 1 {
		return nil, errors.New("tried to read header row after reading previous rows")
	}
	if done {
		return nil, errors.New("fixture file ended before header row")
	}
	if err != nil {
		return nil, err
	}

	header := make([]string, len(row))
	copy(header, row)
	return header, nil
}

// readFixture parses a CSV fixture into typed rows for the given model. The
// header row names the columns; each must be a field or foreign-key column on
// the model. Blank cells become nulls.
func readFixture(file io.Reader, model *schema.Model) ([]map[string]any, error) {
	reader := newFixtureReader(file)

	header, err := reader.readHeaderRow()
	if err != nil {
		return nil, err
	}

	columnTypes := make([]schema.DataType, len(header))
	for i, column := range header {
		dataType, ok := columnDataType(model, column)
		if !ok {
			return nil, wrap.Errorf(
				schema.ErrUnknownField, "fixture column '%s' not on model %s", column, model.Name,
			)
		}
		columnTypes[i] = dataType
	}

	var rows []map[string]any
	for {
		row, rowNumber, done, err := reader.readRow()
		if err != nil {
			return nil, wrap.Errorf(err, "failed to read fixture row %d", rowNumber)
		}
		if done {
			return rows, nil
		}
		if len(row) != len(header) {
			return nil, wrap.Errorf(
				schema.ErrInvalidValue, "fixture row %d has %d cells, header has %d",
				rowNumber, len(row), len(header),
			)
		}

		values := make(map[string]any, len(header))
		for i, cell := range row {
			value, err := parseFixtureValue(cell, columnTypes[i])
			if err != nil {
				return nil, wrap.Errorf(
					err, "column '%s' on fixture row %d", header[i], rowNumber,
				)
			}
			values[header[i]] = value
		}
		rows = append(rows, values)
	}
}

func columnDataType(model *schema.Model, column string) (schema.DataType, bool) {
	if field, ok := model.Field(column); ok {
		return field.DataType, true
	}
	for _, relation := range model.Relations() {
		if relation.ForeignKeyColumn == column {
			return schema.DataTypeInt, true
		}
	}
	return 0, false
}

func parseFixtureValue(cell string, dataType schema.DataType) (any, error) {
	if cell == "" {
		return nil, nil
	}

	switch dataType {
	case schema.DataTypeInt:
		parsed, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, wrap.Errorf(schema.ErrInvalidValue, "'%s' is not an integer", cell)
		}
		return parsed, nil
	case schema.DataTypeDecimal:
		parsed, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, wrap.Errorf(schema.ErrInvalidValue, "'%s' is not a decimal", cell)
		}
		return parsed, nil
	case schema.DataTypeBool:
		switch strings.ToLower(cell) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		default:
			return nil, wrap.Errorf(schema.ErrInvalidValue, "'%s' is not a boolean", cell)
		}
	default:
		// Dates and datetimes are stored in their canonical text form.
		return cell, nil
	}
}
