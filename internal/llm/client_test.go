package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ember/internal/session"
)

func TestCompleteParsesToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id":"cmpl-1","object":"chat.completion","created":1,"model":"devstral:latest",
			"choices":[{"index":0,"finish_reason":"tool_calls","message":{
				"role":"assistant","content":"",
				"tool_calls":[{"id":"call_1","type":"function","function":{"name":"add","arguments":"{\"a\":41,\"b\":1}"}}]
			}}]
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "local")
	turn, err := c.Complete(context.Background(), Request{
		Model: "devstral:latest",
		Messages: []session.Message{
			{Role: session.RoleSystem, Content: "Be brief."},
			{Role: session.RoleUser, Content: "what is 41+1"},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(turn.ToolCalls) != 1 {
		t.Fatalf("tool calls = %v", turn.ToolCalls)
	}
	tc := turn.ToolCalls[0]
	if tc.ID != "call_1" || tc.Name != "add" || tc.Arguments != `{"a":41,"b":1}` {
		t.Fatalf("tool call = %+v", tc)
	}
}

func TestCompleteSendsToolResultLinkage(t *testing.T) {
	var got struct {
		Messages []map[string]any `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id":"cmpl-2","object":"chat.completion","created":1,"model":"devstral:latest",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"42"}}]
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "local")
	_, err := c.Complete(context.Background(), Request{
		Model: "devstral:latest",
		Messages: []session.Message{
			{Role: session.RoleUser, Content: "what is 41+1"},
			{Role: session.RoleAssistant, ToolCalls: []session.ToolCall{
				{ID: "call_1", Name: "add", Arguments: `{"a":41,"b":1}`},
			}},
			{Role: session.RoleTool, ToolCallID: "call_1", Name: "add", Content: `{"sum":42}`},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if len(got.Messages) != 3 {
		t.Fatalf("messages = %v", got.Messages)
	}
	assistant := got.Messages[1]
	calls, ok := assistant["tool_calls"].([]any)
	if !ok || len(calls) != 1 {
		t.Fatalf("assistant message = %v", assistant)
	}
	toolMsg := got.Messages[2]
	if toolMsg["role"] != "tool" || toolMsg["tool_call_id"] != "call_1" {
		t.Fatalf("tool message = %v", toolMsg)
	}
}

func streamHandler(t *testing.T, events []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Helper()
		w.Header().Set("Content-Type", "text/event-stream")
		for _, e := range events {
			fmt.Fprintf(w, "data: %s\n\n", e)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

func chunkJSON(delta string) string {
	return `{"id":"cmpl-3","object":"chat.completion.chunk","created":1,"model":"devstral:latest","choices":[{"index":0,"delta":` + delta + `}]}`
}

func TestStreamReassemblesToolCallFragments(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		chunkJSON(`{"role":"assistant","content":"Let me "}`),
		chunkJSON(`{"content":"check."}`),
		chunkJSON(`{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"add","arguments":"{\"a\":"}}]}`),
		chunkJSON(`{"tool_calls":[{"index":1,"id":"call_2","type":"function","function":{"name":"read_file","arguments":"{\"path\":\"x\"}"}}]}`),
		chunkJSON(`{"tool_calls":[{"index":0,"function":{"arguments":"41,\"b\":1}"}}]}`),
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "local")
	var streamed string
	turn, err := c.Stream(context.Background(), Request{
		Model:    "devstral:latest",
		Messages: []session.Message{{Role: session.RoleUser, Content: "go"}},
	}, func(text string) error {
		streamed += text
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if streamed != "Let me check." {
		t.Fatalf("streamed = %q", streamed)
	}
	if turn.Content != "Let me check." {
		t.Fatalf("content = %q", turn.Content)
	}
	if len(turn.ToolCalls) != 2 {
		t.Fatalf("tool calls = %v", turn.ToolCalls)
	}
	if turn.ToolCalls[0].ID != "call_1" || turn.ToolCalls[0].Arguments != `{"a":41,"b":1}` {
		t.Fatalf("first call = %+v", turn.ToolCalls[0])
	}
	if turn.ToolCalls[1].ID != "call_2" || turn.ToolCalls[1].Name != "read_file" {
		t.Fatalf("second call = %+v", turn.ToolCalls[1])
	}
}

func TestStreamAbortsOnCallbackError(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		chunkJSON(`{"role":"assistant","content":"one"}`),
		chunkJSON(`{"content":"two"}`),
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "local")
	abort := fmt.Errorf("stop here")
	_, err := c.Stream(context.Background(), Request{
		Model:    "devstral:latest",
		Messages: []session.Message{{Role: session.RoleUser, Content: "go"}},
	}, func(string) error {
		return abort
	})
	if err != abort {
		t.Fatalf("want callback error back, got %v", err)
	}
}

func TestModelIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","data":[
			{"id":"devstral:latest","object":"model","created":1,"owned_by":"library"},
			{"id":"qwen3:latest","object":"model","created":1,"owned_by":"library"}
		]}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "local")
	ids, err := c.ModelIDs(context.Background())
	if err != nil {
		t.Fatalf("ModelIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "devstral:latest" || ids[1] != "qwen3:latest" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestPingRequestsTinyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "qwen3:latest" || body.MaxTokens != pingMaxTokens {
			t.Errorf("body = %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id":"cmpl-4","object":"chat.completion","created":1,"model":"qwen3:latest",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"pong"}}]
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "local")
	if err := c.Ping(context.Background(), "qwen3:latest"); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
