package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"ember/internal/models"
)

// ModelLoader is the slice of the model server client the set_model tool
// needs: a cheap load probe and the best-effort native unload.
type ModelLoader interface {
	Ping(ctx context.Context, model string) error
	Unload(ctx context.Context, model string) []string
}

// SetModelInput switches the active model for subsequent requests.
type SetModelInput struct {
	Model          string `json:"model" jsonschema_description:"Model name to switch to, e.g. qwen3:latest"`
	EnsureLoaded   *bool  `json:"ensure_loaded,omitempty" jsonschema_description:"Verify the model answers a tiny completion before committing the switch (default true)"`
	UnloadPrevious *bool  `json:"unload_previous,omitempty" jsonschema_description:"Ask the server to unload the previously active model"`
}

// NewSetModel builds the set_model tool. When the load probe fails the
// previous model is restored and the switch reports a failure payload
// instead of an error, so the assistant can relay it.
func NewSetModel(client ModelLoader, state *models.State) Spec {
	return Spec{
		Name:        "set_model",
		Description: "Switch the active model. Optionally verifies the model loads and unloads the previous one.",
		Params:      GenerateSchema[SetModelInput](),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in SetModelInput
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decode args: %w", err)
			}
			if in.Model == "" {
				return jsonResult(map[string]any{"status": "failed", "error": "model must not be empty"}), nil
			}

			ensure := true
			if in.EnsureLoaded != nil {
				ensure = *in.EnsureLoaded
			}

			old := state.Set(in.Model)
			if ensure {
				if err := client.Ping(ctx, in.Model); err != nil {
					state.Set(old)
					return jsonResult(map[string]any{
						"status": "failed",
						"error":  fmt.Sprintf("ensure_failed: %v", err),
						"old":    old,
						"new":    in.Model,
					}), nil
				}
			}

			unload := state.UnloadPrevious()
			if in.UnloadPrevious != nil && *in.UnloadPrevious {
				unload = true
			}
			attemptErrs := []string{}
			if unload && old != "" && old != in.Model {
				attemptErrs = client.Unload(ctx, old)
			}

			return jsonResult(map[string]any{
				"status": "ok",
				"old":    old,
				"new":    in.Model,
				"errors": attemptErrs,
			}), nil
		},
	}
}
