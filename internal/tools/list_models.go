package tools

import (
	"context"
	"encoding/json"
)

// ModelTag is one entry from the Ollama native tags endpoint.
type ModelTag struct {
	Name       string
	Size       int64
	ModifiedAt string
}

// ModelLister is the slice of the model server client the list_models tool
// needs: the OpenAI-compatible model listing plus the native fallback.
type ModelLister interface {
	ModelIDs(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]ModelTag, error)
}

// NewListModels builds the list_models tool. The v1/models listing is tried
// first; older Ollama builds only answer on the native tags endpoint.
func NewListModels(client ModelLister) Spec {
	return Spec{
		Name:        "list_models",
		Description: "List available local models from the Ollama server.",
		Params:      GenerateSchema[struct{}](),
		Handler: func(ctx context.Context, _ json.RawMessage) (string, error) {
			if ids, err := client.ModelIDs(ctx); err == nil && len(ids) > 0 {
				entries := make([]map[string]any, 0, len(ids))
				for _, id := range ids {
					entries = append(entries, map[string]any{"name": id})
				}
				return jsonResult(map[string]any{"source": "v1/models", "models": entries}), nil
			}

			tags, err := client.Tags(ctx)
			if err != nil {
				return jsonResult(map[string]any{"error": err.Error()}), nil
			}
			entries := make([]map[string]any, 0, len(tags))
			for _, tag := range tags {
				entries = append(entries, map[string]any{
					"name":        tag.Name,
					"size":        tag.Size,
					"modified_at": tag.ModifiedAt,
				})
			}
			return jsonResult(map[string]any{"source": "api/tags", "models": entries}), nil
		},
	}
}
