package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// assembled record as a generic map. Callers use it to validate records at
// system boundaries before persisting or returning them.
func BuildRecordJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"aadhaar_number": map[string]any{"type": "string", "pattern": `^([2-9]\d{3} \d{4} \d{4})?$`},
			"full_name":      map[string]any{"type": "string"},
			"gender":         map[string]any{"type": "string", "enum": []string{"", "Male", "Female"}},
			"dob":            map[string]any{"type": "string", "pattern": `^(\d{1,2}/\d{1,2}/\d{4})?$`},
			"mobile_number":  map[string]any{"type": "string", "pattern": `^([6-9]\d{9})?$`},
			"pincode":        map[string]any{"type": "string", "pattern": `^(\d{6})?$`},
		},
		"required": []string{"aadhaar_number", "full_name", "gender", "dob", "mobile_number", "pincode"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
