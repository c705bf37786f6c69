package ai

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/observability"
)

// Request is a message sent to a [Worker].
type Request interface{ isRequest() }

// InitRequest selects (and, for a [Loader], loads) the model used by
// subsequent chats.
type InitRequest struct{ Model string }

// ChatRequest starts a streamed completion. ID tags every event it produces.
type ChatRequest struct {
	ID       string
	Messages []Message
}

// AbortRequest cancels the in-flight chat, if any.
type AbortRequest struct{}

func (InitRequest) isRequest()  {}
func (ChatRequest) isRequest()  {}
func (AbortRequest) isRequest() {}

// Event is a message emitted by a [Worker].
type Event interface{ isEvent() }

// ProgressEvent reports model loading progress in [0, 1].
type ProgressEvent struct {
	Progress float64
	Text     string
}

// CompleteEvent signals that initialization finished.
type CompleteEvent struct{}

// ErrorEvent reports a failure. ID is empty for initialization errors.
type ErrorEvent struct {
	ID  string
	Err error
}

// TokenEvent carries one streamed text fragment of chat ID.
type TokenEvent struct {
	ID    string
	Token string
}

// DoneEvent signals that chat ID finished successfully.
type DoneEvent struct{ ID string }

func (ProgressEvent) isEvent() {}
func (CompleteEvent) isEvent() {}
func (ErrorEvent) isEvent()    {}
func (TokenEvent) isEvent()    {}
func (DoneEvent) isEvent()     {}

// Loader is implemented by providers that must prepare a model locally
// before chatting. Remote providers do not implement it and initialize
// immediately.
type Loader interface {
	Load(ctx context.Context, model string, progress func(fraction float64, text string)) error
}

var errNotInitialized = errs.New(errs.ErrCodeConfig, "model not initialized")

// Worker owns a [Provider] and serializes access to it. All interaction
// happens over its request and event channels; run it with [Worker.Run].
type Worker struct {
	Logger *log.Logger

	provider Provider
	model    string
	requests chan Request
	events   chan Event
	finished chan string
}

// NewWorker returns a worker for p. Call Run to start it.
func NewWorker(p Provider, logger *log.Logger) *Worker {
	return &Worker{
		Logger:   logger,
		provider: p,
		requests: make(chan Request, 8),
		events:   make(chan Event, 64),
		finished: make(chan string, 1),
	}
}

// Requests returns the channel the worker reads requests from.
func (w *Worker) Requests() chan<- Request { return w.requests }

// Events returns the channel the worker emits events on.
func (w *Worker) Events() <-chan Event { return w.events }

func (w *Worker) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.Default()
}

// Run processes requests until ctx is cancelled or the request channel is
// closed. At most one chat streams at a time; a chat arriving while another
// is in flight is rejected with [ErrBusy].
func (w *Worker) Run(ctx context.Context) error {
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var (
		active string
		cancel context.CancelFunc
	)
	stop := func() {
		if cancel != nil {
			cancel()
			cancel = nil
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case id := <-w.finished:
			if id == active {
				stop()
				active = ""
			}

		case req, ok := <-w.requests:
			if !ok {
				return nil
			}
			switch r := req.(type) {
			case InitRequest:
				w.init(ctx, r.Model)

			case ChatRequest:
				if active != "" {
					w.emit(ctx, ErrorEvent{ID: r.ID, Err: ErrBusy})
					continue
				}
				if w.model == "" {
					w.emit(ctx, ErrorEvent{ID: r.ID, Err: errNotInitialized})
					continue
				}
				var cctx context.Context
				cctx, cancel = context.WithCancel(ctx)
				active = r.ID
				go w.chat(ctx, cctx, w.model, r)

			case AbortRequest:
				if active != "" {
					w.logger().Debug("aborting chat", "id", active)
					stop()
					active = ""
				}
			}
		}
	}
}

func (w *Worker) init(ctx context.Context, model string) {
	if model == "" {
		w.emit(ctx, ErrorEvent{Err: errs.New(errs.ErrCodeConfig, "model name is empty")})
		return
	}
	if l, ok := w.provider.(Loader); ok {
		err := l.Load(ctx, model, func(fraction float64, text string) {
			w.emit(ctx, ProgressEvent{Progress: fraction, Text: text})
		})
		if err != nil {
			w.emit(ctx, ErrorEvent{Err: errs.Wrap(errs.ErrCodeAIProvider, err, "load %s", model)})
			return
		}
	}
	w.model = model
	w.logger().Debug("model ready", "provider", w.provider.Name(), "model", model)
	w.emit(ctx, CompleteEvent{})
}

// chat streams one completion. Tokens are dropped once cctx is cancelled;
// the terminal event is sent on the worker's context.
func (w *Worker) chat(ctx, cctx context.Context, model string, r ChatRequest) {
	defer func() {
		select {
		case w.finished <- r.ID:
		case <-ctx.Done():
		}
	}()

	hooks := observability.AI()
	hooks.OnChatStart(ctx, w.provider.Name(), model)
	start, tokens := time.Now(), 0

	err := w.provider.Stream(cctx, model, r.Messages, func(tok string) {
		tokens++
		w.emit(cctx, TokenEvent{ID: r.ID, Token: tok})
	})
	aborted := cctx.Err() != nil && ctx.Err() == nil
	if aborted {
		hooks.OnChatComplete(ctx, w.provider.Name(), tokens, time.Since(start), ErrAborted)
	} else {
		hooks.OnChatComplete(ctx, w.provider.Name(), tokens, time.Since(start), err)
	}
	switch {
	case aborted:
		w.emit(ctx, ErrorEvent{ID: r.ID, Err: ErrAborted})
	case err != nil:
		w.logger().Debug("chat failed", "id", r.ID, "provider", w.provider.Name(), "err", err)
		w.emit(ctx, ErrorEvent{ID: r.ID, Err: err})
	default:
		w.emit(ctx, DoneEvent{ID: r.ID})
	}
}

func (w *Worker) emit(ctx context.Context, ev Event) {
	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}
