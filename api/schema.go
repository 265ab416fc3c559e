package api

import (
	"net/http"

	"ecomreports/reports"
)

type SchemaResponse struct {
	ReportTypes []string   `json:"reportTypes"`
	Models      []ModelRef `json:"models"`
}

type ModelRef struct {
	Name      string        `json:"name"`
	Fields    []FieldRef    `json:"fields"`
	Relations []RelationRef `json:"relations"`
}

type FieldRef struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

type RelationRef struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// GetSchema returns the model graph report requests are validated against, so
// clients can build filters and groupings from real field names.
func (api ReportAPI) GetSchema(res http.ResponseWriter, req *http.Request) {
	response := SchemaResponse{ReportTypes: reports.ReportTypeNames(), Models: []ModelRef{}}

	for _, model := range api.schema.Models() {
		ref := ModelRef{Name: model.Name, Fields: []FieldRef{}, Relations: []RelationRef{}}
		for _, field := range model.Fields {
			ref.Fields = append(ref.Fields, FieldRef{
				Name:     field.Name,
				DataType: field.DataType.String(),
			})
		}
		for _, relation := range model.Relations() {
			ref.Relations = append(ref.Relations, RelationRef{
				Name:   relation.Name,
				Target: relation.Target,
			})
		}
		response.Models = append(response.Models, ref)
	}

	sendJSON(res, response)
}
