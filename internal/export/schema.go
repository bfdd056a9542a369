package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/a3tai/mcp-label-reader/internal/label"
)

// recordSchema is the contract for every exported record
const recordSchema = `{
  "type": "object",
  "required": ["brand_name", "courier_name", "products", "order_number", "customer_name"],
  "properties": {
    "brand_name":    {"type": "string"},
    "courier_name":  {"type": "string"},
    "order_number":  {"type": "string"},
    "customer_name": {"type": "string"},
    "products": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["product_name", "quantity", "price"],
        "properties": {
          "product_name": {"type": "string", "minLength": 1},
          "quantity":     {"type": "integer", "minimum": 1},
          "price":        {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("label_record.json", bytes.NewReader([]byte(recordSchema))); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("label_record.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateJSON checks a single encoded record against the record schema
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

// Validate encodes rec and validates it
func Validate(rec label.LabelRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return ValidateJSON(data)
}
