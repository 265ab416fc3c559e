package reports

import (
	"fmt"
	"strconv"
	"strings"
)

type QueryBuilder struct {
	strings.Builder
	args []any
}

func (builder *QueryBuilder) WriteInt(i int) {
	builder.WriteString(strconv.Itoa(i))
}

// Must only be called after calling ValidateIdentifier/ValidateIdentifiers on the given identifier.
func (builder *QueryBuilder) WriteIdentifier(identifier string) {
	builder.WriteRune('`')
	builder.WriteString(identifier)
	builder.WriteRune('`')
}

// WriteColumn writes a column reference qualified by its table alias.
func (builder *QueryBuilder) WriteColumn(tableAlias string, column string) {
	builder.WriteIdentifier(tableAlias)
	builder.WriteRune('.')
	builder.WriteIdentifier(column)
}

// WriteArg writes a parameter placeholder and registers its value.
func (builder *QueryBuilder) WriteArg(value any) {
	builder.WriteRune('?')
	builder.args = append(builder.args, value)
}

func (builder *QueryBuilder) Args() []any {
	return builder.args
}

func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("blank identifier")
	}
	if strings.ContainsRune(identifier, '`') {
		return fmt.Errorf("'%s' contains `, which is incompatible with database", identifier)
	}

	return nil
}

func ValidateIdentifiers(identifiers ...string) error {
	for _, identifier := range identifiers {
		if err := ValidateIdentifier(identifier); err != nil {
			return err
		}
	}

	return nil
}
