package llm

import (
	"github.com/openai/openai-go/v3"

	"ember/internal/session"
)

// Request is a single completion request against the active model.
type Request struct {
	Model    string
	Messages []session.Message
	Tools    []openai.ChatCompletionToolUnionParam
}

// Turn is the assistant's reply to one request. ToolCalls preserve the
// order the model emitted them in.
type Turn struct {
	Content   string
	ToolCalls []session.ToolCall
}
