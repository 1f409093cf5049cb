package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

// GenerateSchema derives the JSON schema for a tool's input struct, so the
// schema the model sees and the struct the handler decodes into cannot drift
// apart. Schemas are inlined (no $ref) and closed to extra properties.
func GenerateSchema[T any]() openai.FunctionParameters {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	data, err := json.Marshal(schema)
	if err != nil {
		panic(err) // reflection of a static struct type cannot fail at runtime
	}
	var params openai.FunctionParameters
	if err := json.Unmarshal(data, &params); err != nil {
		panic(err)
	}
	delete(params, "$schema")
	return params
}
