package session_test

import (
	"errors"
	"testing"

	"ember/internal/session"
)

func TestAppendOrder(t *testing.T) {
	s := session.New("be brief")

	s.AppendUser("add 1 and 2")
	s.AppendAssistant("", []session.ToolCall{{ID: "c1", Name: "add", Arguments: `{"a":1,"b":2}`}})
	if _, err := s.AppendToolResult("c1", "add", `{"sum":3}`); err != nil {
		t.Fatalf("AppendToolResult: %v", err)
	}
	s.AppendAssistant("the sum is 3", nil)

	msgs := s.Messages()
	wantRoles := []session.Role{
		session.RoleSystem,
		session.RoleUser,
		session.RoleAssistant,
		session.RoleTool,
		session.RoleAssistant,
	}
	if len(msgs) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(wantRoles))
	}
	for i, want := range wantRoles {
		if msgs[i].Role != want {
			t.Errorf("message %d role = %s, want %s", i, msgs[i].Role, want)
		}
	}
	if msgs[3].ToolCallID != "c1" || msgs[3].Name != "add" {
		t.Errorf("tool message linkage = %q/%q, want c1/add", msgs[3].ToolCallID, msgs[3].Name)
	}
}

func TestDanglingToolResult(t *testing.T) {
	s := session.New("")
	s.AppendUser("hi")

	// No assistant turn yet: any result is dangling.
	if _, err := s.AppendToolResult("c1", "add", "{}"); !errors.Is(err, session.ErrDanglingToolResult) {
		t.Fatalf("err = %v, want ErrDanglingToolResult", err)
	}

	s.AppendAssistant("", []session.ToolCall{{ID: "c1", Name: "add"}})

	// Unknown ID.
	if _, err := s.AppendToolResult("nope", "add", "{}"); !errors.Is(err, session.ErrDanglingToolResult) {
		t.Fatalf("err = %v, want ErrDanglingToolResult", err)
	}

	// Consuming twice.
	if _, err := s.AppendToolResult("c1", "add", "{}"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if _, err := s.AppendToolResult("c1", "add", "{}"); !errors.Is(err, session.ErrDanglingToolResult) {
		t.Fatalf("second consume err = %v, want ErrDanglingToolResult", err)
	}
}

func TestPendingClearedByNewTurns(t *testing.T) {
	s := session.New("")
	s.AppendAssistant("", []session.ToolCall{{ID: "c1", Name: "add"}})
	if got := s.PendingCalls(); got != 1 {
		t.Fatalf("pending = %d, want 1", got)
	}

	// A new user turn abandons the open calls.
	s.AppendUser("never mind")
	if got := s.PendingCalls(); got != 0 {
		t.Fatalf("pending after user turn = %d, want 0", got)
	}
	if _, err := s.AppendToolResult("c1", "add", "{}"); !errors.Is(err, session.ErrDanglingToolResult) {
		t.Fatalf("err = %v, want ErrDanglingToolResult", err)
	}
}

func TestReset(t *testing.T) {
	s := session.New("system prompt")
	s.AppendUser("one")
	s.AppendAssistant("two", nil)

	s.Reset()

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != session.RoleSystem || msgs[0].Content != "system prompt" {
		t.Fatalf("after reset messages = %+v, want just the system prompt", msgs)
	}

	// No system prompt, no seed.
	s2 := session.New("")
	if s2.Len() != 0 {
		t.Fatalf("empty-prompt session len = %d, want 0", s2.Len())
	}
}

func TestMessagesIsACopy(t *testing.T) {
	s := session.New("")
	s.AppendUser("original")

	msgs := s.Messages()
	msgs[0].Content = "mutated"

	if got := s.Messages()[0].Content; got != "original" {
		t.Fatalf("history mutated through copy: %q", got)
	}
}
