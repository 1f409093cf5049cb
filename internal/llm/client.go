package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"ember/internal/session"
	"ember/internal/tools"
)

const (
	// DefaultBaseURL points at a local Ollama's OpenAI-compatible endpoint.
	DefaultBaseURL = "http://127.0.0.1:11434/v1"

	// DefaultAPIKey satisfies the SDK's auth requirement. Ollama ignores it.
	DefaultAPIKey = "local"

	pingMaxTokens = 4
)

// Client talks to an Ollama server over its OpenAI-compatible surface,
// falling back to the native API for the endpoints v1 does not cover.
type Client struct {
	api   openai.Client
	host  string
	httpc *http.Client
}

var _ tools.ModelLister = (*Client)(nil)
var _ tools.ModelLoader = (*Client)(nil)

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}
	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &Client{
		api:   api,
		host:  HostBase(baseURL),
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

// Complete performs a non-streaming chat completion.
func (c *Client) Complete(ctx context.Context, req Request) (*Turn, error) {
	resp, err := c.api.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from model")
	}

	msg := resp.Choices[0].Message
	turn := &Turn{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		turn.ToolCalls = append(turn.ToolCalls, session.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return turn, nil
}

// Stream performs a streaming chat completion, invoking onText for each
// content delta as it arrives. Tool call fragments are keyed by index and
// reassembled once the stream ends, since servers may interleave them and
// split argument JSON across chunks. A non-nil error from onText aborts
// the stream and is returned as-is.
func (c *Client) Stream(ctx context.Context, req Request, onText func(string) error) (*Turn, error) {
	stream := c.api.Chat.Completions.NewStreaming(ctx, c.params(req))
	defer stream.Close()

	var content strings.Builder
	calls := make(map[int64]*session.ToolCall)

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta

		if delta.Content != "" {
			content.WriteString(delta.Content)
			if onText != nil {
				if err := onText(delta.Content); err != nil {
					return nil, err
				}
			}
		}

		for _, tc := range delta.ToolCalls {
			if cur, ok := calls[tc.Index]; ok {
				cur.Arguments += tc.Function.Arguments
				if tc.Function.Name != "" {
					cur.Name = tc.Function.Name
				}
				if tc.ID != "" {
					cur.ID = tc.ID
				}
			} else {
				calls[tc.Index] = &session.ToolCall{
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}

	turn := &Turn{Content: content.String()}
	indices := make([]int64, 0, len(calls))
	for idx := range calls {
		indices = append(indices, idx)
	}
	slices.Sort(indices)
	for _, idx := range indices {
		turn.ToolCalls = append(turn.ToolCalls, *calls[idx])
	}
	return turn, nil
}

// ModelIDs lists models via the OpenAI-compatible v1/models endpoint.
func (c *Client) ModelIDs(ctx context.Context) ([]string, error) {
	page, err := c.api.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Ping verifies a model answers by requesting a tiny completion. Ollama
// loads the model into memory as a side effect.
func (c *Client) Ping(ctx context.Context, model string) error {
	_, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
		MaxTokens: openai.Int(pingMaxTokens),
	})
	if err != nil {
		return fmt.Errorf("ping %s: %w", model, err)
	}
	return nil
}

func (c *Client) params(req Request) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: toOpenAIMessages(req.Messages),
		Tools:    req.Tools,
	}
}

func toOpenAIMessages(msgs []session.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case session.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case session.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case session.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Content))
				continue
			}
			out = append(out, assistantWithToolCalls(m))
		case session.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

func assistantWithToolCalls(m session.Message) openai.ChatCompletionMessageParamUnion {
	assistant := openai.ChatCompletionAssistantMessageParam{}
	if m.Content != "" {
		assistant.Content.OfString = openai.String(m.Content)
	}
	for _, tc := range m.ToolCalls {
		assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: tc.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}
