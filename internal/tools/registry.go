// Package tools declares the host functions the model may call and the
// registry that dispatches calls to them. Each tool lives in its own file
// with its input struct, schema, and handler together.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
)

// Handler executes one tool call. args is the raw JSON argument object from
// the model. The returned string must be JSON-serializable content for a
// tool-role message; validation faults the handler detects itself (unsafe
// paths, bad modes) are reported inside that content, not as an error.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Spec is the static declaration of one tool.
type Spec struct {
	Name        string
	Description string
	Params      openai.FunctionParameters
	Handler     Handler
}

// Registry maps tool names to handlers and renders their schemas for
// outgoing requests. Registration happens at startup on one goroutine;
// lookups afterwards are read-only.
type Registry struct {
	order []string
	specs map[string]Spec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds a tool. Names are unique; re-registering is a programmer
// error surfaced as ErrDuplicateTool.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return ErrEmptyName
	}
	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, spec.Name)
	}
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// MustRegister is Register for startup wiring, where a duplicate is fatal.
func (r *Registry) MustRegister(specs ...Spec) {
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Schemas returns the tool definitions for inclusion in a chat request, in
// registration order. Pure; reflects exactly the registered tools.
func (r *Registry) Schemas() []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(r.order))
	for _, name := range r.order {
		spec := r.specs[name]
		out = append(out, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        spec.Name,
			Description: openai.String(spec.Description),
			Parameters:  spec.Params,
		}))
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Invoke dispatches one call. An unregistered name is ErrUnknownTool; any
// handler fault, malformed argument JSON, or handler panic comes back as an
// *ExecError. Nothing a handler does propagates past this boundary.
func (r *Registry) Invoke(ctx context.Context, name, argsJSON string) (result string, err error) {
	spec, ok := r.specs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if argsJSON == "" {
		argsJSON = "{}"
	}
	var probe map[string]any
	if jerr := json.Unmarshal([]byte(argsJSON), &probe); jerr != nil {
		return "", &ExecError{Tool: name, Err: fmt.Errorf("decode arguments: %w", jerr)}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = ""
			err = &ExecError{Tool: name, Err: fmt.Errorf("handler panic: %v", rec)}
		}
	}()

	out, herr := spec.Handler(ctx, json.RawMessage(argsJSON))
	if herr != nil {
		return "", &ExecError{Tool: name, Err: herr}
	}
	return out, nil
}

// jsonResult marshals a tool result payload. Tool payloads are built from
// maps of JSON-safe values, so marshaling cannot realistically fail; the
// fallback keeps the contract of always returning valid JSON content.
func jsonResult(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}
