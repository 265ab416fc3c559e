package reports

import (
	"fmt"
	"sort"
	"strings"

	"hermannm.dev/devlog/log"

	"ecomreports/schema"
)

// AssembleQuery builds the executable plan for an interpretation: a single-pass,
// fail-soft pipeline where every invalid filter, grouping field, aggregation or
// ordering entry is dropped (and recorded) instead of failing the report. The
// one hard failure is ErrNoValidGroupingField, since an aggregate query without
// groups has no meaningful result.
func AssembleQuery(
	sch *schema.Schema,
	interpretation Interpretation,
	dialect Dialect,
) (Plan, error) {
	model, ok := sch.Model(interpretation.ReportType.ModelName())
	if !ok {
		return Plan{}, fmt.Errorf(
			"report type '%v' has no model in schema", interpretation.ReportType,
		)
	}

	asm := &assembler{
		schema:      sch,
		dialect:     dialect,
		model:       model,
		joinAliases: make(map[string]bool),
	}

	filters := asm.collectFilters(interpretation.Filters)
	groups := asm.collectGroups(interpretation.GroupBy)

	if len(interpretation.GroupBy) > 0 && len(groups) == 0 {
		return Plan{}, ErrNoValidGroupingField
	}
	grouped := len(groups) > 0
	if !grouped && len(interpretation.Aggregations) > 0 {
		return Plan{}, ErrNoValidGroupingField
	}

	var aggregations []aggregationColumn
	if grouped {
		aggregations = asm.collectAggregations(interpretation.Aggregations, groups)
	}

	requestedOrder := interpretation.OrderBy
	if grouped && len(requestedOrder) == 0 {
		// Mirror the grouping as the default ordering for aggregate results.
		for _, group := range groups {
			requestedOrder = append(requestedOrder, group.resolved.Path)
		}
	}
	ordering := asm.collectOrdering(
		requestedOrder, groups, aggregations, grouped, interpretation.ReportType,
	)

	var outputs []outputField
	if !grouped {
		outputs = asm.collectOutputFields(interpretation.ReportType)
	}

	limit := MaxReportRows
	if interpretation.Limit > 0 && interpretation.Limit < MaxReportRows {
		limit = interpretation.Limit
	}

	return asm.render(filters, groups, aggregations, ordering, outputs, grouped, limit), nil
}

type assembler struct {
	schema  *schema.Schema
	dialect Dialect
	model   *schema.Model

	joins       []schema.Join
	joinAliases map[string]bool
	dropped     []DroppedCondition
}

type filterCondition struct {
	resolved schema.ResolvedPath
	value    any
}

type groupColumn struct {
	resolved schema.ResolvedPath
}

type aggregationColumn struct {
	name     string
	kind     AggregationKind
	resolved schema.ResolvedPath
	wildcard bool
	dataType schema.DataType
}

type orderColumn struct {
	// alias references a projected group/aggregation column; when blank,
	// resolved addresses a plain model field instead.
	alias      string
	resolved   schema.ResolvedPath
	descending bool
}

type outputField struct {
	resolved schema.ResolvedPath
}

// registerJoins must only be called once a condition has fully validated, so
// that dropped conditions do not leave stray joins in the query.
func (asm *assembler) registerJoins(joins []schema.Join) {
	for _, join := range joins {
		if !asm.joinAliases[join.Alias] {
			asm.joinAliases[join.Alias] = true
			asm.joins = append(asm.joins, join)
		}
	}
}

func (asm *assembler) drop(kind DroppedKind, expression string, reason error) {
	log.Warnf("skipping invalid report %v '%s': %v", kind, expression, reason)
	asm.dropped = append(asm.dropped, DroppedCondition{
		Kind:       kind,
		Expression: expression,
		Reason:     reason.Error(),
	})
}

func (asm *assembler) collectFilters(rawFilters map[string]any) []filterCondition {
	// Map order is random; sort for deterministic SQL.
	paths := make([]string, 0, len(rawFilters))
	for path := range rawFilters {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	conditions := make([]filterCondition, 0, len(paths))
	for _, path := range paths {
		resolved, err := schema.ResolveFieldPath(asm.schema, asm.model, path)
		if err != nil {
			asm.drop(DroppedFilter, path, err)
			continue
		}

		value, err := resolved.CoerceValue(rawFilters[path])
		if err != nil {
			asm.drop(DroppedFilter, path, err)
			continue
		}

		asm.registerJoins(resolved.Joins)
		conditions = append(conditions, filterCondition{resolved: resolved, value: value})
	}

	return conditions
}

func (asm *assembler) collectGroups(groupBy []string) []groupColumn {
	groups := make([]groupColumn, 0, len(groupBy))
	seen := make(map[string]bool)

	for _, path := range groupBy {
		if seen[path] {
			continue
		}
		seen[path] = true

		resolved, err := schema.ResolveFieldPath(asm.schema, asm.model, path)
		if err != nil {
			asm.drop(DroppedGrouping, path, err)
			continue
		}
		if resolved.ExplicitLookup {
			asm.drop(DroppedGrouping, path, fmt.Errorf(
				"grouping field may not carry a lookup operator",
			))
			continue
		}

		asm.registerJoins(resolved.Joins)
		groups = append(groups, groupColumn{resolved: resolved})
	}

	return groups
}

func (asm *assembler) collectAggregations(
	rawAggregations map[string]any,
	groups []groupColumn,
) []aggregationColumn {
	names := make([]string, 0, len(rawAggregations))
	for name := range rawAggregations {
		names = append(names, name)
	}
	sort.Strings(names)

	groupAliases := make(map[string]bool, len(groups))
	for _, group := range groups {
		groupAliases[group.resolved.Path] = true
	}

	aggregations := make([]aggregationColumn, 0, len(names))
	for _, name := range names {
		expression := rawAggregations[name]

		if err := ValidateIdentifier(name); err != nil {
			asm.drop(DroppedAggregation, name, err)
			continue
		}
		if groupAliases[name] {
			asm.drop(DroppedAggregation, name, fmt.Errorf(
				"aggregation name collides with grouping field",
			))
			continue
		}

		kind, fieldPath, err := ParseAggregationExpression(expression)
		if err != nil {
			asm.drop(DroppedAggregation, name, err)
			continue
		}

		wildcard := fieldPath == AggregationWildcard
		if wildcard && kind != AggregationCount {
			asm.drop(DroppedAggregation, name, fmt.Errorf(
				"'%v' cannot aggregate over '*'", kind,
			))
			continue
		}

		validationPath := fieldPath
		if wildcard {
			validationPath = "id"
		}
		resolved, err := schema.ResolveFieldPath(asm.schema, asm.model, validationPath)
		if err != nil {
			asm.drop(DroppedAggregation, name, err)
			continue
		}
		if resolved.ExplicitLookup {
			asm.drop(DroppedAggregation, name, fmt.Errorf(
				"aggregation field may not carry a lookup operator",
			))
			continue
		}

		asm.registerJoins(resolved.Joins)
		aggregations = append(aggregations, aggregationColumn{
			name:     name,
			kind:     kind,
			resolved: resolved,
			wildcard: wildcard,
			dataType: kind.ResultDataType(resolved.Field.DataType),
		})
	}

	return aggregations
}

func (asm *assembler) collectOrdering(
	requestedOrder []string,
	groups []groupColumn,
	aggregations []aggregationColumn,
	grouped bool,
	reportType ReportType,
) []orderColumn {
	groupAliases := make(map[string]bool, len(groups))
	for _, group := range groups {
		groupAliases[group.resolved.Path] = true
	}
	aggregationNames := make(map[string]bool, len(aggregations))
	for _, aggregation := range aggregations {
		aggregationNames[aggregation.name] = true
	}

	var ordering []orderColumn
	for _, entry := range requestedOrder {
		descending := strings.HasPrefix(entry, "-")
		name := strings.TrimPrefix(entry, "-")

		if groupAliases[name] || aggregationNames[name] {
			ordering = append(ordering, orderColumn{alias: name, descending: descending})
			continue
		}
		if grouped {
			asm.drop(DroppedOrdering, entry, fmt.Errorf(
				"ordering on a grouped report must reference a grouping field or aggregation name",
			))
			continue
		}

		resolved, err := schema.ResolveFieldPath(asm.schema, asm.model, name)
		if err != nil {
			asm.drop(DroppedOrdering, entry, err)
			continue
		}
		if resolved.ExplicitLookup {
			asm.drop(DroppedOrdering, entry, fmt.Errorf(
				"ordering field may not carry a lookup operator",
			))
			continue
		}

		asm.registerJoins(resolved.Joins)
		ordering = append(ordering, orderColumn{resolved: resolved, descending: descending})
	}

	if len(ordering) == 0 && !grouped {
		for _, entry := range reportType.DefaultOrderBy() {
			descending := strings.HasPrefix(entry, "-")
			name := strings.TrimPrefix(entry, "-")

			// Default orderings are declared against the schema, so resolution
			// only fails if the two have drifted apart.
			resolved, err := schema.ResolveFieldPath(asm.schema, asm.model, name)
			if err != nil {
				log.Warnf("default ordering '%s' for %v reports no longer resolves: %v",
					entry, reportType, err)
				continue
			}

			asm.registerJoins(resolved.Joins)
			ordering = append(ordering, orderColumn{resolved: resolved, descending: descending})
		}
	}

	return ordering
}

func (asm *assembler) collectOutputFields(reportType ReportType) []outputField {
	fields := reportType.OutputFields()

	outputs := make([]outputField, 0, len(fields))
	for _, path := range fields {
		resolved, err := schema.ResolveFieldPath(asm.schema, asm.model, path)
		if err != nil {
			log.Warnf("output field '%s' for %v reports no longer resolves: %v",
				path, reportType, err)
			continue
		}

		asm.registerJoins(resolved.Joins)
		outputs = append(outputs, outputField{resolved: resolved})
	}

	return outputs
}

func (asm *assembler) render(
	filters []filterCondition,
	groups []groupColumn,
	aggregations []aggregationColumn,
	ordering []orderColumn,
	outputs []outputField,
	grouped bool,
	limit int,
) Plan {
	var builder QueryBuilder
	var columns []OutputColumn

	builder.WriteString("SELECT ")
	if grouped {
		for i, group := range groups {
			if i > 0 {
				builder.WriteString(", ")
			}
			asm.writeColumnRef(&builder, group.resolved)
			builder.WriteString(" AS ")
			builder.WriteIdentifier(group.resolved.Path)

			columns = append(columns, OutputColumn{
				Alias:    group.resolved.Path,
				Name:     CollapseFieldPath(group.resolved.Path),
				DataType: group.resolved.Field.DataType,
			})
		}
		for _, aggregation := range aggregations {
			builder.WriteString(", ")
			asm.writeAggregation(&builder, aggregation)
			builder.WriteString(" AS ")
			builder.WriteIdentifier(aggregation.name)

			columns = append(columns, OutputColumn{
				Alias:    aggregation.name,
				Name:     aggregation.name,
				DataType: aggregation.dataType,
			})
		}
	} else {
		for i, output := range outputs {
			if i > 0 {
				builder.WriteString(", ")
			}
			asm.writeColumnRef(&builder, output.resolved)
			builder.WriteString(" AS ")
			builder.WriteIdentifier(output.resolved.Path)

			columns = append(columns, OutputColumn{
				Alias:    output.resolved.Path,
				Name:     CollapseFieldPath(output.resolved.Path),
				DataType: output.resolved.Field.DataType,
			})
		}
	}

	builder.WriteString(" FROM ")
	builder.WriteIdentifier(asm.model.Table)

	for _, join := range asm.joins {
		parentAlias := join.ParentAlias
		if parentAlias == "" {
			parentAlias = asm.model.Table
		}

		builder.WriteString(" LEFT JOIN ")
		builder.WriteIdentifier(join.Table)
		builder.WriteString(" AS ")
		builder.WriteIdentifier(join.Alias)
		builder.WriteString(" ON ")
		builder.WriteColumn(parentAlias, join.ForeignKeyColumn)
		builder.WriteString(" = ")
		builder.WriteColumn(join.Alias, "id")
	}

	for i, filter := range filters {
		if i == 0 {
			builder.WriteString(" WHERE ")
		} else {
			builder.WriteString(" AND ")
		}
		asm.writeFilterCondition(&builder, filter)
	}

	if grouped {
		builder.WriteString(" GROUP BY ")
		for i, group := range groups {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteIdentifier(group.resolved.Path)
		}
	}

	for i, order := range ordering {
		if i == 0 {
			builder.WriteString(" ORDER BY ")
		} else {
			builder.WriteString(", ")
		}
		if order.alias != "" {
			builder.WriteIdentifier(order.alias)
		} else {
			asm.writeColumnRef(&builder, order.resolved)
		}
		if order.descending {
			builder.WriteString(" DESC")
		} else {
			builder.WriteString(" ASC")
		}
	}

	builder.WriteString(" LIMIT ")
	builder.WriteInt(limit)

	return Plan{
		SQL:     builder.String(),
		Args:    builder.Args(),
		Columns: columns,
		Grouped: grouped,
		Dropped: asm.dropped,
	}
}

func (asm *assembler) writeColumnRef(builder *QueryBuilder, resolved schema.ResolvedPath) {
	tableAlias := resolved.TableAlias
	if tableAlias == "" {
		tableAlias = asm.model.Table
	}
	builder.WriteColumn(tableAlias, resolved.Field.Name)
}

func (asm *assembler) columnRef(resolved schema.ResolvedPath) string {
	var ref QueryBuilder
	asm.writeColumnRef(&ref, resolved)
	return ref.String()
}

func (asm *assembler) writeAggregation(builder *QueryBuilder, aggregation aggregationColumn) {
	if aggregation.kind == AggregationCount {
		target := "*"
		if !aggregation.wildcard {
			target = asm.columnRef(aggregation.resolved)
		}
		builder.WriteString(asm.dialect.Count(target))
		return
	}

	switch aggregation.kind {
	case AggregationSum:
		builder.WriteString("SUM(")
	case AggregationAverage:
		builder.WriteString("AVG(")
	case AggregationMax:
		builder.WriteString("MAX(")
	case AggregationMin:
		builder.WriteString("MIN(")
	}
	asm.writeColumnRef(builder, aggregation.resolved)
	builder.WriteString(")")
}

func (asm *assembler) writeFilterCondition(builder *QueryBuilder, filter filterCondition) {
	resolved := filter.resolved
	value := filter.value

	switch lookup := resolved.Lookup; {
	case lookup == schema.LookupIsNull:
		asm.writeColumnRef(builder, resolved)
		if value == true {
			builder.WriteString(" IS NULL")
		} else {
			builder.WriteString(" IS NOT NULL")
		}

	case lookup == schema.LookupIn:
		elements, _ := value.([]any)
		if len(elements) == 0 {
			// An empty set matches nothing.
			builder.WriteString("1 = 0")
			return
		}
		asm.writeColumnRef(builder, resolved)
		builder.WriteString(" IN (")
		for i, element := range elements {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteArg(element)
		}
		builder.WriteString(")")

	case lookup == schema.LookupRange:
		bounds, _ := value.([]any)
		asm.writeColumnRef(builder, resolved)
		builder.WriteString(" BETWEEN ")
		builder.WriteArg(bounds[0])
		builder.WriteString(" AND ")
		builder.WriteArg(bounds[1])

	case lookup.IsDatePart():
		builder.WriteString(asm.dialect.DatePart(lookup, asm.columnRef(resolved)))
		builder.WriteString(" = ")
		builder.WriteArg(value)

	case lookup.IsTextPattern():
		pattern := likePattern(lookup, value)
		if lookup.IsCaseInsensitive() {
			builder.WriteString("LOWER(")
			asm.writeColumnRef(builder, resolved)
			builder.WriteString(") LIKE ")
			builder.WriteArg(strings.ToLower(pattern))
		} else {
			asm.writeColumnRef(builder, resolved)
			builder.WriteString(" LIKE ")
			builder.WriteArg(pattern)
		}
		builder.WriteString(asm.dialect.LikeEscape())

	case lookup == schema.LookupIExact:
		builder.WriteString("LOWER(")
		asm.writeColumnRef(builder, resolved)
		builder.WriteString(") = LOWER(")
		builder.WriteArg(value)
		builder.WriteString(")")

	case lookup == schema.LookupGreaterThan:
		asm.writeComparison(builder, resolved, " > ", value)
	case lookup == schema.LookupGreaterOrEqual:
		asm.writeComparison(builder, resolved, " >= ", value)
	case lookup == schema.LookupLessThan:
		asm.writeComparison(builder, resolved, " < ", value)
	case lookup == schema.LookupLessOrEqual:
		asm.writeComparison(builder, resolved, " <= ", value)

	default:
		// Exact match; a nil value means an explicit null filter.
		if value == nil {
			asm.writeColumnRef(builder, resolved)
			builder.WriteString(" IS NULL")
			return
		}
		asm.writeComparison(builder, resolved, " = ", value)
	}
}

func (asm *assembler) writeComparison(
	builder *QueryBuilder,
	resolved schema.ResolvedPath,
	operator string,
	value any,
) {
	asm.writeColumnRef(builder, resolved)
	builder.WriteString(operator)
	builder.WriteArg(value)
}

// likeWildcardEscaper escapes SQL LIKE wildcards in user-supplied values, so a
// filter on "100%" matches that literal text and nothing more.
var likeWildcardEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(lookup schema.LookupOperator, value any) string {
	text := likeWildcardEscaper.Replace(fmt.Sprintf("%v", value))
	switch lookup {
	case schema.LookupContains, schema.LookupIContains:
		return "%" + text + "%"
	case schema.LookupStartsWith, schema.LookupIStartsWith:
		return text + "%"
	case schema.LookupEndsWith, schema.LookupIEndsWith:
		return "%" + text
	default:
		return text
	}
}

// CollapseFieldPath turns a foreign-key chain into a flat transport key:
// "brand__name" becomes "brand_name".
func CollapseFieldPath(path string) string {
	return strings.ReplaceAll(path, schema.PathSeparator, "_")
}
