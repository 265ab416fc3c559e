// Package schema declares the e-commerce data model that report queries are
// validated against: tables, typed fields and forward foreign-key relations.
package schema

import (
	"errors"
	"fmt"
	"sort"

	"hermannm.dev/wrap"
)

type Schema struct {
	models map[string]*Model
}

type Model struct {
	// Name is how the model is addressed in field paths and relations.
	Name   string  `json:"name"`
	Table  string  `json:"table"`
	Fields []Field `json:"fields"`

	fieldsByName map[string]Field
	relations    map[string]Relation
	// relationList keeps declaration order for deterministic DDL and API output.
	relationList []Relation
}

type Field struct {
	Name     string   `json:"name"`
	DataType DataType `json:"dataType"`
}

// Relation is a forward foreign key: ForeignKeyColumn on the owning model's table
// references the primary key of Target.
type Relation struct {
	Name             string `json:"name"`
	Target           string `json:"target"`
	ForeignKeyColumn string `json:"foreignKeyColumn"`
}

func NewSchema(models ...*Model) (*Schema, error) {
	schema := &Schema{models: make(map[string]*Model, len(models))}

	for _, model := range models {
		if _, exists := schema.models[model.Name]; exists {
			return nil, fmt.Errorf("duplicate model name '%s' in schema", model.Name)
		}
		schema.models[model.Name] = model
	}

	var errs []error
	for _, model := range models {
		for _, relation := range model.relations {
			if _, ok := schema.models[relation.Target]; !ok {
				errs = append(errs, fmt.Errorf(
					"relation '%s' on model '%s' targets unknown model '%s'",
					relation.Name, model.Name, relation.Target,
				))
			}
		}
	}
	if len(errs) != 0 {
		return nil, wrap.Errors("invalid schema", errs...)
	}

	return schema, nil
}

func NewModel(name string, table string, fields []Field, relations []Relation) *Model {
	model := &Model{
		Name:         name,
		Table:        table,
		Fields:       fields,
		fieldsByName: make(map[string]Field, len(fields)),
		relations:    make(map[string]Relation, len(relations)),
	}

	for _, field := range fields {
		model.fieldsByName[field.Name] = field
	}
	for _, relation := range relations {
		model.relations[relation.Name] = relation
	}
	model.relationList = relations

	return model
}

func (schema *Schema) Model(name string) (*Model, bool) {
	model, ok := schema.models[name]
	return model, ok
}

func (model *Model) Field(name string) (Field, bool) {
	field, ok := model.fieldsByName[name]
	return field, ok
}

func (model *Model) Relation(name string) (Relation, bool) {
	relation, ok := model.relations[name]
	return relation, ok
}

func (model *Model) Relations() []Relation {
	return model.relationList
}

// Models returns every model in the schema, sorted by name.
func (schema *Schema) Models() []*Model {
	models := make([]*Model, 0, len(schema.models))
	for _, model := range schema.models {
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models
}

func (schema *Schema) Validate() []error {
	var errs []error

	for name, model := range schema.models {
		if name == "" {
			errs = append(errs, errors.New("model with blank name in schema"))
		}
		for _, field := range model.Fields {
			if !field.DataType.IsValid() {
				errs = append(errs, fmt.Errorf(
					"invalid data type on field '%s' of model '%s'", field.Name, name,
				))
			}
		}
	}

	return errs
}
