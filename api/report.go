package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hermannm.dev/devlog/log"

	"ecomreports/interpret"
	"ecomreports/reports"
)

type GenerateReportRequest struct {
	Prompt string `json:"prompt"`
}

type ReportResponse struct {
	Rows    []reports.Row              `json:"rows"`
	Dropped []reports.DroppedCondition `json:"dropped"`
}

// GenerateReport is the free-text endpoint. The prompt is interpreted (LLM or
// keyword matching), and the resulting query executed. A garbage prompt never
// fails the request; the worst case is a default products listing.
//
// Expects:
//   - body: JSON-encoded GenerateReportRequest
//
// Returns:
//   - JSON-encoded ReportResponse
func (api ReportAPI) GenerateReport(res http.ResponseWriter, req *http.Request) {
	id := requestID()

	var body GenerateReportRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		sendClientError(res, err, "failed to parse report request body")
		return
	}

	interpretation := api.interpreter.InterpretPrompt(req.Context(), body.Prompt)
	log.Debug("interpreted report prompt", slog.Any("interpretation", interpretation), id)

	api.runReport(res, req, interpretation, true, id)
}

// DirectReport is the structured report-builder endpoint; translation to an
// interpretation is deterministic, with no LLM involved.
//
// Expects:
//   - body: JSON-encoded interpret.BuilderRequest
//
// Returns:
//   - JSON-encoded ReportResponse
func (api ReportAPI) DirectReport(res http.ResponseWriter, req *http.Request) {
	id := requestID()

	var body interpret.BuilderRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		sendClientError(res, err, "failed to parse report builder request body")
		return
	}

	interpretation := interpret.TranslateBuilderRequest(body)
	api.runReport(res, req, interpretation, false, id)
}

func (api ReportAPI) runReport(
	res http.ResponseWriter,
	req *http.Request,
	interpretation reports.Interpretation,
	fallbackToDefault bool,
	id slog.Attr,
) {
	result, err := api.db.RunReportQuery(req.Context(), interpretation)

	// An interpretation whose grouping fully failed validation degrades to the
	// default listing on the prompt path, where the interpretation was guessed
	// anyway. Builder requests are explicit, so they get the error instead.
	if errors.Is(err, reports.ErrNoValidGroupingField) {
		if !fallbackToDefault {
			sendClientError(res, err, "invalid report grouping")
			return
		}

		log.Warnf("falling back to default report: %v", err)
		result, err = api.db.RunReportQuery(req.Context(), reports.DefaultInterpretation())
	}
	if err != nil {
		sendServerError(res, err, "failed to run report query", id)
		return
	}

	sendJSON(res, ReportResponse{Rows: result.Rows, Dropped: dropped(result)})
}

// dropped never returns nil, so the response always carries a "dropped" list.
func dropped(result reports.ReportResult) []reports.DroppedCondition {
	if result.Dropped == nil {
		return []reports.DroppedCondition{}
	}
	return result.Dropped
}
