package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"ember/internal/llm"
	"ember/internal/models"
	"ember/internal/render"
	"ember/internal/session"
	"ember/internal/tools"
)

// DefaultMaxToolRounds caps how many times a single user turn may loop
// through tool execution before the turn fails.
const DefaultMaxToolRounds = 8

// Transport performs chat completions. *llm.Client satisfies it.
type Transport interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Turn, error)
	Stream(ctx context.Context, req llm.Request, onText func(string) error) (*llm.Turn, error)
}

// Audit records tool invocations for later inspection.
type Audit interface {
	RecordToolCall(turnID, tool, args, result string, failed bool) error
}

type Config struct {
	MaxToolRounds int
	Stream        bool
	UseTools      bool
}

type Options struct {
	Transport Transport
	Registry  *tools.Registry
	Session   *session.Session
	State     *models.State
	Audit     Audit
	Logger    *zap.Logger
	Config    Config
}

// Engine drives one user turn at a time: request the model, surface the
// streamed reply, execute any requested tools in order, and repeat until
// the model answers without tools or a limit is hit.
type Engine struct {
	transport Transport
	registry  *tools.Registry
	session   *session.Session
	state     *models.State
	audit     Audit
	log       *zap.Logger
	cfg       Config
}

func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		transport: opts.Transport,
		registry:  opts.Registry,
		session:   opts.Session,
		state:     opts.State,
		audit:     opts.Audit,
		log:       log,
		cfg:       cfg,
	}
}

func (e *Engine) Session() *session.Session { return e.session }
func (e *Engine) State() *models.State      { return e.state }

func (e *Engine) SetStream(v bool)   { e.cfg.Stream = v }
func (e *Engine) SetUseTools(v bool) { e.cfg.UseTools = v }

// Run executes one user turn to completion. The user message and each
// assistant reply are committed to the session only after the request that
// produced them succeeded, so a transport fault leaves the session exactly
// as it was. Returns the final assistant text with thinking passages
// removed. Cancellation surfaces as ctx.Err().
func (e *Engine) Run(ctx context.Context, turnID, input string, emit func(Event)) (string, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	pendingUser := input
	rounds := 0

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		msgs := e.session.Messages()
		if pendingUser != "" {
			msgs = append(msgs, session.Message{Role: session.RoleUser, Content: pendingUser})
		}
		req := llm.Request{
			Model:    e.state.Current(),
			Messages: msgs,
		}
		if e.cfg.UseTools {
			req.Tools = e.registry.Schemas()
		}

		turn, plain, err := e.requestTurn(ctx, turnID, req, emit)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return "", cerr
			}
			return "", &TransportError{Op: "chat", Err: err}
		}

		if len(turn.ToolCalls) > 0 && rounds >= e.cfg.MaxToolRounds {
			e.log.Warn("tool round limit reached",
				zap.String("turn", turnID),
				zap.Int("rounds", rounds))
			return "", ErrToolRoundLimit
		}

		if pendingUser != "" {
			e.session.AppendUser(pendingUser)
			pendingUser = ""
		}
		e.session.AppendAssistant(turn.Content, turn.ToolCalls)

		if len(turn.ToolCalls) == 0 {
			e.log.Debug("turn complete",
				zap.String("turn", turnID),
				zap.Int("rounds", rounds))
			return plain, nil
		}

		if err := e.executeTools(ctx, turnID, turn.ToolCalls, emit); err != nil {
			return "", err
		}
		rounds++
	}
}

// requestTurn performs one completion and emits its text as rendered
// segments. For non-streaming requests the full reply is pushed through
// the renderer after the fact so both paths produce identical events.
// The second return value is the reply text without thinking passages.
func (e *Engine) requestTurn(ctx context.Context, turnID string, req llm.Request, emit func(Event)) (*llm.Turn, string, error) {
	r := render.New()
	var plain strings.Builder

	emitSegs := func(segs []render.Segment) {
		for _, seg := range segs {
			if seg.Kind == render.Plain {
				plain.WriteString(seg.Text)
			}
			emit(SegmentEvent{TurnID: turnID, Segment: seg})
		}
	}

	if e.cfg.Stream {
		turn, err := e.transport.Stream(ctx, req, func(text string) error {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			emitSegs(r.Feed(text))
			return nil
		})
		if err != nil {
			return nil, "", err
		}
		emitSegs(r.Flush())
		return turn, plain.String(), nil
	}

	turn, err := e.transport.Complete(ctx, req)
	if err != nil {
		return nil, "", err
	}
	emitSegs(r.Feed(turn.Content))
	emitSegs(r.Flush())
	return turn, plain.String(), nil
}

// executeTools runs requested calls strictly in the order the model
// emitted them. Execution failures are fed back to the model as an error
// payload rather than failing the turn.
func (e *Engine) executeTools(ctx context.Context, turnID string, calls []session.ToolCall, emit func(Event)) error {
	for _, tc := range calls {
		if err := ctx.Err(); err != nil {
			return err
		}

		emit(ToolCallEvent{TurnID: turnID, Name: tc.Name, Arguments: tc.Arguments})
		e.log.Debug("executing tool",
			zap.String("turn", turnID),
			zap.String("tool", tc.Name))

		result, err := e.registry.Invoke(ctx, tc.Name, tc.Arguments)
		failed := false
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			result = errorPayload(err)
			failed = true
			e.log.Warn("tool failed",
				zap.String("turn", turnID),
				zap.String("tool", tc.Name),
				zap.Error(err))
		}

		if e.audit != nil {
			if aerr := e.audit.RecordToolCall(turnID, tc.Name, tc.Arguments, result, failed); aerr != nil {
				e.log.Warn("audit write failed", zap.Error(aerr))
			}
		}

		if _, err := e.session.AppendToolResult(tc.ID, tc.Name, result); err != nil {
			return err
		}
		emit(ToolResultEvent{TurnID: turnID, Name: tc.Name, Result: result, Failed: failed})
	}
	return nil
}

// errorPayload shapes a tool failure as JSON content the model can read
// and recover from.
func errorPayload(err error) string {
	var execErr *tools.ExecError
	msg := err.Error()
	if errors.As(err, &execErr) {
		msg = execErr.Err.Error()
	}
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}
