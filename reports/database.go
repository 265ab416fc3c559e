package reports

import (
	"context"
)

// ReportDatabase is implemented by each storage backend. RunReportQuery
// assembles and executes the query for the given interpretation, returning
// serialized rows ready for transport.
type ReportDatabase interface {
	RunReportQuery(ctx context.Context, interpretation Interpretation) (ReportResult, error)
}

type Row map[string]any

type ReportResult struct {
	Rows    []Row
	Columns []OutputColumn
	Grouped bool
	Dropped []DroppedCondition
}
