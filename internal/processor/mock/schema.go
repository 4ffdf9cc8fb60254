package mock

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("schema.json")
})

// ValidateFixture checks that data has the shape of a processing result:
// a status, a document type, an inference result and an explainability
// tree whose leaves carry a confidence in [0, 1].
func ValidateFixture(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal fixture: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("fixture does not match schema: %w", err)
	}
	return nil
}
