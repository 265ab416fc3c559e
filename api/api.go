// Package api exposes the reporting service over HTTP.
package api

import (
	"fmt"
	"net/http"

	"ecomreports/config"
	"ecomreports/interpret"
	"ecomreports/reports"
	"ecomreports/schema"
)

type ReportAPI struct {
	db          reports.ReportDatabase
	interpreter interpret.Interpreter
	schema      *schema.Schema
	router      *http.ServeMux
	config      config.API
}

func NewReportAPI(
	db reports.ReportDatabase,
	interpreter interpret.Interpreter,
	reportSchema *schema.Schema,
	router *http.ServeMux,
	config config.API,
) ReportAPI {
	api := ReportAPI{
		db:          db,
		interpreter: interpreter,
		schema:      reportSchema,
		router:      router,
		config:      config,
	}

	api.router.HandleFunc("/reports/generate", api.GenerateReport)
	api.router.HandleFunc("/reports/direct", api.DirectReport)
	api.router.HandleFunc("/reports/schema", api.GetSchema)

	return api
}

func (api ReportAPI) ListenAndServe() error {
	return http.ListenAndServe(fmt.Sprintf(":%s", api.config.Port), api.router)
}
