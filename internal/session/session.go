// Package session holds the ordered message history for one chat and the
// invariants linking tool results to the calls that requested them.
package session

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single invocation requested by an assistant turn. Arguments
// is the raw JSON string as emitted by the model; it is decoded at dispatch
// time, not here.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one turn in the conversation. ToolCalls is set only on
// assistant turns that request tools; ToolCallID only on tool turns.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// ErrDanglingToolResult is returned when a tool result does not match an
// open call from the immediately preceding assistant turn.
var ErrDanglingToolResult = errors.New("tool result matches no open tool call")

// Session owns the message history for one chat. Past entries are never
// mutated; history only grows until Reset. Session is not synchronized:
// while a worker runs a turn, only that worker may touch it.
type Session struct {
	systemPrompt string
	messages     []Message
	pending      map[string]bool // open tool call IDs from the last assistant turn
}

// New creates a session. A non-empty systemPrompt is seeded as the first
// message and survives Reset.
func New(systemPrompt string) *Session {
	s := &Session{systemPrompt: systemPrompt}
	s.Reset()
	return s
}

// AppendUser appends a user turn and returns it.
func (s *Session) AppendUser(text string) Message {
	s.pending = nil
	msg := Message{Role: RoleUser, Content: text}
	s.messages = append(s.messages, msg)
	return msg
}

// AppendAssistant appends an assistant turn. Any tool calls it carries
// become the open set that subsequent tool results must consume.
func (s *Session) AppendAssistant(text string, calls []ToolCall) Message {
	msg := Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
	s.messages = append(s.messages, msg)

	s.pending = nil
	if len(calls) > 0 {
		s.pending = make(map[string]bool, len(calls))
		for _, tc := range calls {
			s.pending[tc.ID] = true
		}
	}
	return msg
}

// AppendToolResult appends one tool-role message linked to an open call.
// Each call ID can be consumed once; anything else is ErrDanglingToolResult.
func (s *Session) AppendToolResult(toolCallID, name, result string) (Message, error) {
	if !s.pending[toolCallID] {
		return Message{}, fmt.Errorf("%w: %q", ErrDanglingToolResult, toolCallID)
	}
	delete(s.pending, toolCallID)

	msg := Message{Role: RoleTool, Content: result, ToolCallID: toolCallID, Name: name}
	s.messages = append(s.messages, msg)
	return msg, nil
}

// Messages returns the conversation in order as a defensive copy.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the number of messages, including the seeded system prompt.
func (s *Session) Len() int {
	return len(s.messages)
}

// PendingCalls reports how many tool calls from the last assistant turn are
// still unconsumed.
func (s *Session) PendingCalls() int {
	return len(s.pending)
}

// Reset clears history and starts a new chat with the same system prompt.
func (s *Session) Reset() {
	s.messages = nil
	s.pending = nil
	if s.systemPrompt != "" {
		s.messages = append(s.messages, Message{Role: RoleSystem, Content: s.systemPrompt})
	}
}
