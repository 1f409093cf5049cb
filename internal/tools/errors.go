package tools

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry misuse. Both indicate programmer error, not
// something the model can recover from.
var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrUnknownTool   = errors.New("unknown tool")
	ErrEmptyName     = errors.New("tool name is empty")
)

// ExecError wraps a handler fault (including argument decoding failures and
// recovered panics). It is recoverable: the orchestration loop reports it to
// the model as a structured tool result instead of failing the turn.
type ExecError struct {
	Tool string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
