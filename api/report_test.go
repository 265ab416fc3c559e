package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomreports/config"
	"ecomreports/interpret"
	"ecomreports/reports"
	"ecomreports/schema"
)

// stubDatabase records the interpretations it was asked to run and returns
// canned results.
type stubDatabase struct {
	interpretations []reports.Interpretation
	result          reports.ReportResult
	err             error
	failUntilRetry  bool
}

func (stub *stubDatabase) RunReportQuery(
	ctx context.Context,
	interpretation reports.Interpretation,
) (reports.ReportResult, error) {
	stub.interpretations = append(stub.interpretations, interpretation)

	if stub.failUntilRetry && len(stub.interpretations) == 1 {
		return reports.ReportResult{}, reports.ErrNoValidGroupingField
	}
	return stub.result, stub.err
}

func setupTestAPI(t *testing.T, db *stubDatabase) ReportAPI {
	t.Helper()

	return NewReportAPI(
		db,
		interpret.KeywordInterpreter{},
		schema.Ecommerce(),
		http.NewServeMux(),
		config.API{Port: "0"},
	)
}

func TestGenerateReport(t *testing.T) {
	db := &stubDatabase{result: reports.ReportResult{
		Rows: []reports.Row{{"name": "Galaxy A54", "stock": int64(25)}},
	}}
	api := setupTestAPI(t, db)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost, "/reports/generate", strings.NewReader(`{"prompt": "paid orders"}`),
	)
	api.GenerateReport(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, db.interpretations, 1)
	assert.Equal(t, reports.ReportOrders, db.interpretations[0].ReportType)

	var response ReportResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
	require.Len(t, response.Rows, 1)
	assert.Equal(t, "Galaxy A54", response.Rows[0]["name"])
	// The dropped list is always present, even when empty.
	assert.NotNil(t, response.Dropped)
	assert.Contains(t, res.Body.String(), `"dropped":[]`)
}

func TestGenerateReportFallsBackOnInvalidGrouping(t *testing.T) {
	db := &stubDatabase{failUntilRetry: true, result: reports.ReportResult{
		Rows: []reports.Row{{"name": "Galaxy A54"}},
	}}
	api := setupTestAPI(t, db)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost, "/reports/generate", strings.NewReader(`{"prompt": "best sellers"}`),
	)
	api.GenerateReport(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, db.interpretations, 2)
	// The retry runs the default ungrouped interpretation.
	assert.Equal(t, reports.DefaultInterpretation(), db.interpretations[1])
}

func TestGenerateReportRejectsMalformedBody(t *testing.T) {
	api := setupTestAPI(t, &stubDatabase{})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reports/generate", strings.NewReader("{broken"))
	api.GenerateReport(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDirectReport(t *testing.T) {
	db := &stubDatabase{result: reports.ReportResult{Rows: []reports.Row{}}}
	api := setupTestAPI(t, db)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost, "/reports/direct",
		strings.NewReader(`{"type": "products", "filters": {"stockOp": "lt", "stockValue": 5}}`),
	)
	api.DirectReport(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, db.interpretations, 1)
	assert.Equal(t, float64(5), db.interpretations[0].Filters["stock__lt"])
}

func TestDirectReportDoesNotFallBack(t *testing.T) {
	db := &stubDatabase{failUntilRetry: true}
	api := setupTestAPI(t, db)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost, "/reports/direct", strings.NewReader(`{"type": "products"}`),
	)
	api.DirectReport(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Len(t, db.interpretations, 1)
}

func TestGetSchema(t *testing.T) {
	api := setupTestAPI(t, &stubDatabase{})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/schema", nil)
	api.GetSchema(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var response SchemaResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
	assert.Contains(t, response.ReportTypes, "sales")
	require.NotEmpty(t, response.Models)

	var products *ModelRef
	for i := range response.Models {
		if response.Models[i].Name == "products" {
			products = &response.Models[i]
		}
	}
	require.NotNil(t, products)
	assert.NotEmpty(t, products.Fields)
	assert.Len(t, products.Relations, 2)
}
