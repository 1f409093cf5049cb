package tools

import (
	"context"
	"errors"
	"testing"

	"ember/internal/models"
)

type fakeModelClient struct {
	ids     []string
	idsErr  error
	tags    []ModelTag
	tagsErr error

	pingErr  error
	pinged   []string
	unloaded []string
}

func (f *fakeModelClient) ModelIDs(context.Context) ([]string, error) { return f.ids, f.idsErr }
func (f *fakeModelClient) Tags(context.Context) ([]ModelTag, error)  { return f.tags, f.tagsErr }

func (f *fakeModelClient) Ping(_ context.Context, model string) error {
	f.pinged = append(f.pinged, model)
	return f.pingErr
}

func (f *fakeModelClient) Unload(_ context.Context, model string) []string {
	f.unloaded = append(f.unloaded, model)
	return nil
}

func TestListModelsPrefersOpenAIListing(t *testing.T) {
	client := &fakeModelClient{ids: []string{"qwen3:latest", "devstral:latest"}}
	out := invokeJSON(t, NewListModels(client), `{}`)
	if out["source"] != "v1/models" {
		t.Fatalf("source = %v", out["source"])
	}
	entries := out["models"].([]any)
	if len(entries) != 2 {
		t.Fatalf("models = %v", entries)
	}
	first := entries[0].(map[string]any)
	if first["name"] != "qwen3:latest" {
		t.Fatalf("first model = %v", first)
	}
}

func TestListModelsFallsBackToTags(t *testing.T) {
	client := &fakeModelClient{
		idsErr: errors.New("404"),
		tags:   []ModelTag{{Name: "devstral:latest", Size: 123, ModifiedAt: "2025-01-01T00:00:00Z"}},
	}
	out := invokeJSON(t, NewListModels(client), `{}`)
	if out["source"] != "api/tags" {
		t.Fatalf("source = %v", out["source"])
	}
	entry := out["models"].([]any)[0].(map[string]any)
	if entry["name"] != "devstral:latest" || entry["size"] != float64(123) {
		t.Fatalf("entry = %v", entry)
	}
}

func TestListModelsFallsBackOnEmptyListing(t *testing.T) {
	client := &fakeModelClient{tags: []ModelTag{{Name: "only:native"}}}
	out := invokeJSON(t, NewListModels(client), `{}`)
	if out["source"] != "api/tags" {
		t.Fatalf("source = %v", out["source"])
	}
}

func TestSetModelSwitchesAndProbes(t *testing.T) {
	client := &fakeModelClient{}
	state := models.NewState("devstral:latest", false)

	out := invokeJSON(t, NewSetModel(client, state), `{"model":"qwen3:latest"}`)
	if out["status"] != "ok" || out["old"] != "devstral:latest" || out["new"] != "qwen3:latest" {
		t.Fatalf("payload = %v", out)
	}
	if state.Current() != "qwen3:latest" {
		t.Fatalf("state = %q", state.Current())
	}
	if len(client.pinged) != 1 || client.pinged[0] != "qwen3:latest" {
		t.Fatalf("pinged = %v", client.pinged)
	}
	if len(client.unloaded) != 0 {
		t.Fatalf("unexpected unload %v", client.unloaded)
	}
}

func TestSetModelRevertsOnFailedProbe(t *testing.T) {
	client := &fakeModelClient{pingErr: errors.New("model not found")}
	state := models.NewState("devstral:latest", false)

	out := invokeJSON(t, NewSetModel(client, state), `{"model":"bogus"}`)
	if out["status"] != "failed" {
		t.Fatalf("payload = %v", out)
	}
	if out["old"] != "devstral:latest" || out["new"] != "bogus" {
		t.Fatalf("failure payload missing old/new: %v", out)
	}
	if state.Current() != "devstral:latest" {
		t.Fatalf("state not reverted: %q", state.Current())
	}
}

func TestSetModelSkipsProbeWhenDisabled(t *testing.T) {
	client := &fakeModelClient{pingErr: errors.New("would fail")}
	state := models.NewState("devstral:latest", false)

	out := invokeJSON(t, NewSetModel(client, state), `{"model":"qwen3:latest","ensure_loaded":false}`)
	if out["status"] != "ok" {
		t.Fatalf("payload = %v", out)
	}
	if len(client.pinged) != 0 {
		t.Fatalf("ping should be skipped, got %v", client.pinged)
	}
}

func TestSetModelUnloadsPrevious(t *testing.T) {
	client := &fakeModelClient{}
	state := models.NewState("devstral:latest", false)

	invokeJSON(t, NewSetModel(client, state), `{"model":"qwen3:latest","unload_previous":true}`)
	if len(client.unloaded) != 1 || client.unloaded[0] != "devstral:latest" {
		t.Fatalf("unloaded = %v", client.unloaded)
	}

	// Switching to the same model never unloads it.
	client.unloaded = nil
	invokeJSON(t, NewSetModel(client, state), `{"model":"qwen3:latest","unload_previous":true}`)
	if len(client.unloaded) != 0 {
		t.Fatalf("unloaded = %v", client.unloaded)
	}
}

func TestSetModelHonoursGlobalUnloadSetting(t *testing.T) {
	client := &fakeModelClient{}
	state := models.NewState("devstral:latest", true)

	invokeJSON(t, NewSetModel(client, state), `{"model":"qwen3:latest"}`)
	if len(client.unloaded) != 1 || client.unloaded[0] != "devstral:latest" {
		t.Fatalf("unloaded = %v", client.unloaded)
	}
}
