package tools

import (
	"context"
	"encoding/json"
)

type AddInput struct {
	A float64 `json:"a" jsonschema_description:"First addend."`
	B float64 `json:"b" jsonschema_description:"Second addend."`
}

// Add is the minimal tool shape: input struct, derived schema, handler.
// New tools follow this file's layout.
var Add = Spec{
	Name:        "add",
	Description: "Add two numbers and return the sum.",
	Params:      GenerateSchema[AddInput](),
	Handler: func(_ context.Context, args json.RawMessage) (string, error) {
		var in AddInput
		if err := json.Unmarshal(args, &in); err != nil {
			return "", err
		}
		return jsonResult(map[string]any{"sum": in.A + in.B}), nil
	},
}
