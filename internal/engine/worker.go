package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const eventBuffer = 64

// Worker runs turns on a background goroutine and delivers progress over
// an ordered event channel. One turn at a time: Start while a turn is in
// flight fails with ErrBusy.
//
// The channel from Start closes once the turn's goroutine has fully
// stopped. Cancel requests a cooperative stop; Join blocks until the
// goroutine is gone, after which no further events can arrive. A
// cancelled turn ends without a DoneEvent or ErrorEvent.
type Worker struct {
	engine *Engine
	log    *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWorker(e *Engine, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{engine: e, log: log}
}

// Start launches one turn. The returned channel carries the turn's events
// in order and is closed when the turn ends for any reason.
func (w *Worker) Start(ctx context.Context, input string) (string, <-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return "", nil, ErrBusy
	}

	turnID := uuid.NewString()
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan Event, eventBuffer)
	done := make(chan struct{})

	w.running = true
	w.cancel = cancel
	w.done = done

	go func() {
		defer func() {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			close(events)
			close(done)
			cancel()
		}()

		send := func(ev Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}

		content, err := w.engine.Run(ctx, turnID, input, send)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				w.log.Debug("turn cancelled", zap.String("turn", turnID))
				return
			}
			w.log.Error("turn failed", zap.String("turn", turnID), zap.Error(err))
			send(ErrorEvent{TurnID: turnID, Err: err})
			return
		}
		send(DoneEvent{TurnID: turnID, Content: content})
	}()

	return turnID, events, nil
}

// Cancel requests the in-flight turn stop. Safe to call at any time.
func (w *Worker) Cancel() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Join blocks until the current turn's goroutine has stopped. Once Join
// returns, the event channel is closed and will deliver nothing new.
func (w *Worker) Join() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Busy reports whether a turn is in flight.
func (w *Worker) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
