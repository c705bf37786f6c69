package ai

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
)

var (
	// ErrBusy is returned by [Session.Chat] while another chat is in flight.
	ErrBusy = errs.New(errs.ErrCodeBusy, "a chat is already in progress")

	// ErrAborted is returned for a chat stopped by [Session.Abort] or by
	// cancellation of the caller's context.
	ErrAborted = errs.New(errs.ErrCodeAborted, "Aborted")

	errSessionClosed = errs.New(errs.ErrCodeInternal, "session closed")
)

type result struct {
	text string
	err  error
}

type pendingChat struct {
	id      string
	onToken func(string)
	text    strings.Builder
	done    chan result
}

// Session is the caller-side handle of a [Worker]. It turns the worker's
// event stream back into blocking calls, matching events to requests by id.
//
//	s := ai.NewSession(provider, logger)
//	defer s.Close()
//	if err := s.Init(ctx, "gpt-3.5-turbo"); err != nil { ... }
//	text, err := s.Chat(ctx, msgs, func(tok string) { fmt.Print(tok) })
type Session struct {
	// OnProgress, when set, receives model loading progress during Init.
	OnProgress func(fraction float64, text string)

	worker *Worker
	cancel context.CancelFunc
	wg     sync.WaitGroup

	initMu   sync.Mutex
	mu       sync.Mutex
	pending  *pendingChat
	initWait chan error
	closed   chan struct{}
}

// NewSession starts a worker for p and returns a session bound to it.
// Close releases both.
func NewSession(p Provider, logger *log.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		worker: NewWorker(p, logger),
		cancel: cancel,
		closed: make(chan struct{}),
	}
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		_ = s.worker.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.dispatch(ctx)
	}()
	return s
}

// Close stops the worker. A pending chat fails with an internal error.
func (s *Session) Close() error {
	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		return nil
	default:
	}
	close(s.closed)
	p := s.pending
	s.pending = nil
	s.mu.Unlock()

	if p != nil {
		p.done <- result{text: p.text.String(), err: errSessionClosed}
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

// Init prepares model for subsequent chats and blocks until the worker
// reports completion or failure.
func (s *Session) Init(ctx context.Context, model string) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	wait := make(chan error, 1)
	s.mu.Lock()
	s.initWait = wait
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.initWait = nil
		s.mu.Unlock()
	}()

	if err := s.send(ctx, InitRequest{Model: model}); err != nil {
		return err
	}
	select {
	case err := <-wait:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return errSessionClosed
	}
}

// Chat streams a completion for msgs, calling onToken for every fragment,
// and returns the full text.
//
// Only one chat may be in flight; a concurrent call fails with [ErrBusy].
// Abort, or cancelling ctx, ends the chat with [ErrAborted] and the text
// received so far. onToken runs on the session's dispatch goroutine and
// must not call back into the session.
func (s *Session) Chat(ctx context.Context, msgs []Message, onToken func(string)) (string, error) {
	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		return "", errSessionClosed
	default:
	}
	if s.pending != nil {
		s.mu.Unlock()
		return "", ErrBusy
	}
	p := &pendingChat{
		id:      uuid.NewString(),
		onToken: onToken,
		done:    make(chan result, 1),
	}
	s.pending = p
	s.mu.Unlock()

	if err := s.send(ctx, ChatRequest{ID: p.id, Messages: msgs}); err != nil {
		s.resolve(p.id, result{err: err})
	}

	select {
	case res := <-p.done:
		return res.text, res.err
	case <-ctx.Done():
		s.abort(p.id)
		res := <-p.done
		return res.text, res.err
	}
}

// Abort rejects the pending chat with [ErrAborted] and asks the worker to
// stop streaming it. It is a no-op when no chat is in flight.
func (s *Session) Abort() {
	s.abort("")
}

// abort rejects the pending chat. A non-empty id restricts it to that chat.
func (s *Session) abort(id string) {
	s.mu.Lock()
	p := s.pending
	if p == nil || (id != "" && p.id != id) {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	p.done <- result{text: p.text.String(), err: ErrAborted}
	select {
	case s.worker.Requests() <- AbortRequest{}:
	case <-s.closed:
	}
}

func (s *Session) send(ctx context.Context, req Request) error {
	select {
	case s.worker.Requests() <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return errSessionClosed
	}
}

// resolve completes the pending chat id, if it is still current.
func (s *Session) resolve(id string, res result) {
	s.mu.Lock()
	p := s.pending
	if p == nil || p.id != id {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	if res.err == nil {
		res.text = p.text.String()
	}
	p.done <- res
}

func (s *Session) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.worker.Events():
			s.handle(ev)
		}
	}
}

func (s *Session) handle(ev Event) {
	switch e := ev.(type) {
	case ProgressEvent:
		if s.OnProgress != nil {
			s.OnProgress(e.Progress, e.Text)
		}
	case CompleteEvent:
		s.finishInit(nil)
	case TokenEvent:
		s.mu.Lock()
		defer s.mu.Unlock()
		if p := s.pending; p != nil && p.id == e.ID {
			p.text.WriteString(e.Token)
			if p.onToken != nil {
				p.onToken(e.Token)
			}
		}
	case DoneEvent:
		s.resolve(e.ID, result{})
	case ErrorEvent:
		if e.ID == "" {
			s.finishInit(e.Err)
			return
		}
		s.resolve(e.ID, result{err: e.Err})
	}
}

func (s *Session) finishInit(err error) {
	s.mu.Lock()
	wait := s.initWait
	s.mu.Unlock()
	if wait == nil {
		return
	}
	select {
	case wait <- err:
	default:
	}
}
