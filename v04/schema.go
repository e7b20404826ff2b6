package v04

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// multiscalesSchema is the JSON Schema for the version 0.4 multiscales
// document stored in a group's attribute slot.  Transforms carrying a
// "path" reference are schema-legal; the decode path rejects them later.
const multiscalesSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["multiscales"],
	"properties": {
		"multiscales": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["axes", "datasets"],
				"properties": {
					"version": {"type": "string"},
					"name": {},
					"type": {"type": "string"},
					"metadata": {"type": "object"},
					"axes": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["name"],
							"properties": {
								"name": {"type": "string"},
								"type": {"type": "string"},
								"unit": {"type": "string"}
							}
						}
					},
					"datasets": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["path", "coordinateTransformations"],
							"properties": {
								"path": {"type": "string"},
								"coordinateTransformations": {"$ref": "#/$defs/transformList"}
							}
						}
					},
					"coordinateTransformations": {"$ref": "#/$defs/transformList"}
				}
			}
		}
	},
	"$defs": {
		"transformList": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["type"],
				"properties": {
					"type": {"enum": ["scale", "translation", "identity"]},
					"scale": {"type": "array", "items": {"type": "number"}},
					"translation": {"type": "array", "items": {"type": "number"}},
					"path": {"type": "string"}
				}
			}
		}
	}
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaOnce sync.Once
)

func schema() *jsonschema.Schema {
	compiledSchemaOnce.Do(func() {
		compiledSchema = jsonschema.MustCompileString("multiscales.schema.json", multiscalesSchema)
	})
	return compiledSchema
}

// ParseGroupAttrs validates a group attribute document against the
// multiscales schema and unmarshals it.  Malformed or non-conforming
// documents fail with SchemaValidationError.
func ParseGroupAttrs(raw json.RawMessage) (*GroupAttrs, error) {
	if len(raw) == 0 {
		return nil, ngff.SchemaValidationError{Err: fmt.Errorf("no attribute document present")}
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ngff.SchemaValidationError{Err: err}
	}
	if err := schema().Validate(doc); err != nil {
		return nil, ngff.SchemaValidationError{Err: err}
	}
	var attrs GroupAttrs
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, ngff.SchemaValidationError{Err: err}
	}
	return &attrs, nil
}

// SerializeGroupAttrs marshals a multiscales document for persistence in a
// group's attribute slot.
func SerializeGroupAttrs(attrs *GroupAttrs) (json.RawMessage, error) {
	return json.Marshal(attrs)
}
