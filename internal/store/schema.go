package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchemaURL = "https://taskflow.invalid/schemas/document.schema.json"

// documentSchema describes the persisted board document.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["boards"],
  "properties": {
    "boards": {
      "type": "object",
      "propertyNames": {"minLength": 1},
      "additionalProperties": {"$ref": "#/$defs/board"}
    },
    "current_board": {"type": ["string", "null"]}
  },
  "$defs": {
    "board": {
      "type": "object",
      "required": ["lists"],
      "properties": {
        "lists": {
          "type": "object",
          "propertyNames": {"minLength": 1},
          "additionalProperties": {"$ref": "#/$defs/list"}
        }
      }
    },
    "list": {
      "type": "object",
      "required": ["cards"],
      "properties": {
        "cards": {"type": "array", "items": {"$ref": "#/$defs/card"}}
      }
    },
    "card": {
      "type": "object",
      "required": ["title", "created"],
      "properties": {
        "title": {"type": "string"},
        "created": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}$"},
        "width": {"type": "number"},
        "height": {"type": "number"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func documentValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(documentSchemaURL, strings.NewReader(documentSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile(documentSchemaURL)
	})
	return compiledSchema, schemaErr
}

func validateDocument(b []byte) error {
	sch, err := documentValidator()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("parse document: trailing data after top-level value")
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
