package engine

import "ember/internal/render"

// Event is one item of turn progress. Events for a turn arrive strictly in
// the order they happened.
type Event interface{ isEvent() }

// SegmentEvent carries a piece of streamed assistant text with its
// rendering kind already resolved.
type SegmentEvent struct {
	TurnID  string
	Segment render.Segment
}

// ToolCallEvent is emitted just before a requested tool runs.
type ToolCallEvent struct {
	TurnID    string
	Name      string
	Arguments string
}

// ToolResultEvent is emitted after a tool finished, whether it succeeded
// or produced an error payload.
type ToolResultEvent struct {
	TurnID string
	Name   string
	Result string
	Failed bool
}

// DoneEvent terminates a successful turn. Content is the final assistant
// text with thinking passages stripped out.
type DoneEvent struct {
	TurnID  string
	Content string
}

// ErrorEvent terminates a failed turn. Cancelled turns end without any
// terminal event.
type ErrorEvent struct {
	TurnID string
	Err    error
}

func (SegmentEvent) isEvent()    {}
func (ToolCallEvent) isEvent()   {}
func (ToolResultEvent) isEvent() {}
func (DoneEvent) isEvent()       {}
func (ErrorEvent) isEvent()      {}
