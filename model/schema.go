package model

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ResponseFormat describes a JSON Schema constrained response. Providers
// translate it into their native structured output mechanism (OpenAI
// json_schema response format, Anthropic forced tool use).
type ResponseFormat struct {
	// Name identifies the schema to the provider.
	Name string `json:"name"`
	// Description explains the expected payload to the model.
	Description string `json:"description,omitempty"`
	// Schema is a JSON Schema object.
	Schema map[string]any `json:"schema"`
	// Strict asks the provider to enforce the schema exactly where supported.
	Strict bool `json:"strict"`
}

// SchemaFor reflects a Go struct type into a ResponseFormat using its json
// and jsonschema struct tags.
func SchemaFor[T any](name, description string) (*ResponseFormat, error) {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}

	var v T

	raw, err := json.Marshal(reflector.Reflect(&v))
	if err != nil {
		return nil, NewError(ErrKindSchema, err, "failed to reflect schema for %q", name)
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, NewError(ErrKindSchema, err, "failed to decode reflected schema for %q", name)
	}

	// The $schema marker is metadata for schema tooling, not for providers.
	delete(schema, "$schema")

	return &ResponseFormat{
		Name:        name,
		Description: description,
		Schema:      schema,
		Strict:      true,
	}, nil
}

// MustSchemaFor is like SchemaFor but panics on reflection failure. Intended
// for package-level schema variables.
func MustSchemaFor[T any](name, description string) *ResponseFormat {
	rf, err := SchemaFor[T](name, description)
	if err != nil {
		panic(err)
	}

	return rf
}

// DecodeStructured unmarshals a structured response payload into T. A missing
// or malformed payload surfaces as a schema violation capability error.
func DecodeStructured[T any](resp *Response) (T, error) {
	var out T

	if resp == nil || len(resp.Structured) == 0 {
		return out, NewError(ErrKindSchema, nil, "response carries no structured payload")
	}

	if err := json.Unmarshal(resp.Structured, &out); err != nil {
		return out, NewError(ErrKindSchema, err, "structured payload does not match the requested schema")
	}

	return out, nil
}
