package testsynth

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/speakeasy-api/oastool/ir"
)

// CompileBodySchema compiles the schema at id into a jsonschema/v6 validator
// that ValidateBody can run a response body against. Each call compiles a
// fresh schema since a generated test calls this once per operation and the
// cost isn't worth caching across a whole test binary.
func CompileBodySchema(doc *ir.Document, id ir.SchemaID) (*jsValidator.Schema, error) {
	raw := toRawSchema(doc, id)

	// UnmarshalJSON wants an io.Reader of JSON text, not a Go map, even
	// though the map is itself a valid *value* to validate against it
	// elsewhere; round-trip through the JSON encoder to get the form the
	// compiler expects the same way the upstream validator construction does.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	resource, err := jsValidator.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema for compiler: %w", err)
	}

	c := jsValidator.NewCompiler()
	const resourceURL = "response-body.json"
	if err := c.AddResource(resourceURL, resource); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	return c.Compile(resourceURL)
}

// ValidateBody parses body as JSON and validates it against schema, returning
// the jsonschema/v6 validation error (which may carry nested Causes) if it
// doesn't conform.
func ValidateBody(schema *jsValidator.Schema, body []byte) error {
	inst, err := jsValidator.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("response body is not valid JSON: %w", err)
	}
	return schema.Validate(inst)
}
