package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hermannm.dev/wrap"
)

// The two failure classes of field-path validation. Callers are expected to match
// with errors.Is and drop the offending condition rather than fail the report.
var (
	ErrUnknownField = errors.New("unknown field or relation")
	ErrInvalidValue = errors.New("invalid value for field")
)

const PathSeparator = "__"

// ResolvedPath is the result of walking a field path through the schema's
// relation graph: the joins required to reach the field, the field itself, and
// the trailing lookup operator (LookupExact when none was given).
type ResolvedPath struct {
	Path       string
	Joins      []Join
	TableAlias string // Alias holding the field; blank means the base table.
	Field      Field
	Lookup     LookupOperator
	// ExplicitLookup is set when the path spelled out a trailing operator, as
	// opposed to the implied exact match.
	ExplicitLookup bool
}

// Join is one relation hop: ForeignKeyColumn on ParentAlias references the id
// column of Table, exposed under Alias.
type Join struct {
	Alias            string
	ParentAlias      string // Blank means the base table.
	Table            string
	ForeignKeyColumn string
}

// ResolveFieldPath walks each __-separated segment of path through model's
// relation graph. Every non-terminal segment must be a relation; the final
// segment may be a field, a relation (resolving to its foreign-key column), or a
// lookup operator following a field. Unknown segments fail with ErrUnknownField.
func ResolveFieldPath(schema *Schema, model *Model, path string) (ResolvedPath, error) {
	resolved := ResolvedPath{Path: path, Lookup: LookupExact}

	current := model
	alias := ""
	parts := strings.Split(path, PathSeparator)

	for i, part := range parts {
		isLast := i == len(parts)-1

		if field, ok := current.Field(part); ok {
			if isLast {
				resolved.TableAlias = alias
				resolved.Field = field
				return resolved, nil
			}

			// Only a single trailing lookup operator may follow a field.
			if i == len(parts)-2 {
				if lookup, ok := LookupOperatorFromName(parts[i+1]); ok {
					resolved.TableAlias = alias
					resolved.Field = field
					resolved.Lookup = lookup
					resolved.ExplicitLookup = true
					return resolved, nil
				}
			}
			return ResolvedPath{}, wrap.Errorf(
				ErrUnknownField, "'%s' in '%s': '%s' is not a relation on %s",
				parts[i+1], path, part, current.Name,
			)
		}

		relation, ok := current.Relation(part)
		if !ok {
			return ResolvedPath{}, wrap.Errorf(
				ErrUnknownField, "'%s' in '%s' on model %s", part, path, current.Name,
			)
		}

		if isLast {
			// A path ending at a relation addresses its foreign-key column.
			resolved.TableAlias = alias
			resolved.Field = Field{Name: relation.ForeignKeyColumn, DataType: DataTypeInt}
			return resolved, nil
		}

		target, ok := schema.Model(relation.Target)
		if !ok {
			return ResolvedPath{}, wrap.Errorf(
				ErrUnknownField, "relation '%s' in '%s' targets unknown model '%s'",
				part, path, relation.Target,
			)
		}

		// A trailing lookup operator directly after a relation addresses its
		// foreign-key column, like a path ending at the relation itself. Fields
		// and relations on the target model take precedence over lookup names.
		if i == len(parts)-2 {
			next := parts[i+1]
			if _, isField := target.Field(next); !isField {
				if _, isRelation := target.Relation(next); !isRelation {
					if lookup, ok := LookupOperatorFromName(next); ok {
						resolved.TableAlias = alias
						resolved.Field = Field{
							Name: relation.ForeignKeyColumn, DataType: DataTypeInt,
						}
						resolved.Lookup = lookup
						resolved.ExplicitLookup = true
						return resolved, nil
					}
				}
			}
		}

		childAlias := part
		if alias != "" {
			childAlias = alias + PathSeparator + part
		}
		resolved.Joins = append(resolved.Joins, Join{
			Alias:            childAlias,
			ParentAlias:      alias,
			Table:            target.Table,
			ForeignKeyColumn: relation.ForeignKeyColumn,
		})

		current = target
		alias = childAlias
	}

	// Unreachable: the loop always returns on the last segment.
	return ResolvedPath{}, wrap.Errorf(ErrUnknownField, "could not resolve '%s'", path)
}

// CoerceValue converts a raw filter value to the semantic type demanded by the
// resolved field and lookup operator. Failures wrap ErrInvalidValue.
func (resolved ResolvedPath) CoerceValue(value any) (any, error) {
	if value == nil {
		switch resolved.Lookup {
		case LookupIsNull:
			return false, nil
		case LookupExact:
			// Rendered as an explicit null check.
			return nil, nil
		default:
			return nil, wrap.Errorf(
				ErrInvalidValue, "'%s' lookup on '%s' does not accept null",
				resolved.Lookup, resolved.Path,
			)
		}
	}

	switch {
	case resolved.Lookup == LookupIsNull:
		coerced, err := coerceBool(value)
		if err != nil {
			return nil, wrap.Errorf(err, "isnull lookup on '%s'", resolved.Path)
		}
		return coerced, nil

	case resolved.Lookup == LookupIn:
		list, ok := value.([]any)
		if !ok {
			return nil, wrap.Errorf(
				ErrInvalidValue, "value for 'in' lookup on '%s' must be a list", resolved.Path,
			)
		}
		coerced := make([]any, 0, len(list))
		for _, element := range list {
			converted, err := resolved.coerceScalar(element)
			if err != nil {
				return nil, wrap.Errorf(err, "element of 'in' list for '%s'", resolved.Path)
			}
			coerced = append(coerced, converted)
		}
		return coerced, nil

	case resolved.Lookup == LookupRange:
		list, ok := value.([]any)
		if !ok || len(list) != 2 {
			return nil, wrap.Errorf(
				ErrInvalidValue,
				"value for 'range' lookup on '%s' must be a [from, to] pair", resolved.Path,
			)
		}
		from, err := resolved.coerceScalar(list[0])
		if err != nil {
			return nil, wrap.Errorf(err, "'from' bound of range on '%s'", resolved.Path)
		}
		to, err := resolved.coerceScalar(list[1])
		if err != nil {
			return nil, wrap.Errorf(err, "'to' bound of range on '%s'", resolved.Path)
		}
		return []any{from, to}, nil

	case resolved.Lookup.IsDatePart():
		coerced, err := coerceInt(value)
		if err != nil {
			return nil, wrap.Errorf(err, "%s lookup on '%s'", resolved.Lookup, resolved.Path)
		}
		return coerced, nil

	default:
		return resolved.coerceScalar(value)
	}
}

func (resolved ResolvedPath) coerceScalar(value any) (any, error) {
	switch resolved.Field.DataType {
	case DataTypeDecimal:
		return coerceDecimal(value)
	case DataTypeInt:
		return coerceInt(value)
	case DataTypeDate, DataTypeDateTime:
		return coerceDate(value, resolved.Field.DataType)
	case DataTypeBool:
		return coerceBool(value)
	case DataTypeText:
		if str, ok := value.(string); ok {
			return str, nil
		}
		return fmt.Sprintf("%v", value), nil
	default:
		return nil, wrap.Errorf(
			ErrInvalidValue, "field '%s' has unrecognized data type", resolved.Field.Name,
		)
	}
}

func coerceDecimal(value any) (float64, error) {
	switch value := value.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, wrap.Errorf(ErrInvalidValue, "could not convert '%s' to decimal", value)
		}
		return parsed, nil
	default:
		return 0, wrap.Errorf(ErrInvalidValue, "could not convert '%v' to decimal", value)
	}
}

func coerceInt(value any) (int64, error) {
	switch value := value.(type) {
	case int:
		return int64(value), nil
	case int64:
		return value, nil
	case float64:
		if value != float64(int64(value)) {
			return 0, wrap.Errorf(ErrInvalidValue, "'%v' is not an integer", value)
		}
		return int64(value), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, wrap.Errorf(ErrInvalidValue, "could not convert '%s' to integer", value)
		}
		return parsed, nil
	default:
		return 0, wrap.Errorf(ErrInvalidValue, "could not convert '%v' to integer", value)
	}
}

// Boolean string tokens, matching what the report builder frontend has
// historically sent (including Spanish yes/no).
var (
	truthyTokens = []string{"true", "1", "t", "yes", "y", "si", "sí"}
	falsyTokens  = []string{"false", "0", "f", "no", "n"}
)

func coerceBool(value any) (bool, error) {
	switch value := value.(type) {
	case bool:
		return value, nil
	case string:
		lowered := strings.ToLower(strings.TrimSpace(value))
		for _, token := range truthyTokens {
			if lowered == token {
				return true, nil
			}
		}
		for _, token := range falsyTokens {
			if lowered == token {
				return false, nil
			}
		}
		return false, wrap.Errorf(ErrInvalidValue, "invalid boolean string '%s'", value)
	case float64:
		return value != 0, nil
	case int:
		return value != 0, nil
	case int64:
		return value != 0, nil
	default:
		return false, wrap.Errorf(ErrInvalidValue, "could not convert '%v' to boolean", value)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// coerceDate parses the accepted date formats and normalizes to the canonical
// string form both backends store and compare: YYYY-MM-DD for dates, ISO-8601
// YYYY-MM-DDTHH:MM:SS for datetimes.
func coerceDate(value any, dataType DataType) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", wrap.Errorf(ErrInvalidValue, "expected date string, got '%v'", value)
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, strings.TrimSpace(str))
		if err != nil {
			continue
		}
		if dataType == DataTypeDate {
			return parsed.Format("2006-01-02"), nil
		}
		return parsed.Format("2006-01-02T15:04:05"), nil
	}

	return "", wrap.Errorf(
		ErrInvalidValue, "unrecognized date format '%s', use YYYY-MM-DD", str,
	)
}
