package ai

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/observability"
)

// scriptedProvider emits its tokens and returns. When hold is set, the
// first call emits one token and then blocks until its context ends.
type scriptedProvider struct {
	tokens []string
	err    error
	hold   bool

	mu        sync.Mutex
	calls     int
	models    []string
	cancelled chan struct{}
}

func newScripted(tokens ...string) *scriptedProvider {
	return &scriptedProvider{tokens: tokens, cancelled: make(chan struct{})}
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Stream(ctx context.Context, model string, _ []Message, onToken func(string)) error {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.models = append(p.models, model)
	p.mu.Unlock()

	if p.hold && first {
		onToken("partial")
		<-ctx.Done()
		close(p.cancelled)
		return ctx.Err()
	}
	for _, tok := range p.tokens {
		onToken(tok)
	}
	return p.err
}

type loadingProvider struct {
	*scriptedProvider
	loadErr error
}

func (p *loadingProvider) Load(_ context.Context, model string, progress func(float64, string)) error {
	progress(0.5, "fetching "+model)
	if p.loadErr != nil {
		return p.loadErr
	}
	progress(1, "ready")
	return nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func newTestSession(t *testing.T, p Provider) *Session {
	t.Helper()
	s := NewSession(p, quietLogger())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionChat(t *testing.T) {
	p := newScripted("• one", "\n• two")
	s := newTestSession(t, p)
	ctx := context.Background()

	require.NoError(t, s.Init(ctx, "m1"))

	var got []string
	text, err := s.Chat(ctx, []Message{{Role: RoleUser, Content: "hi"}}, func(tok string) {
		got = append(got, tok)
	})
	require.NoError(t, err)
	assert.Equal(t, "• one\n• two", text)
	assert.Equal(t, []string{"• one", "\n• two"}, got)
	assert.Equal(t, []string{"m1"}, p.models)

	// Sequential chats reuse the session.
	text, err = s.Chat(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "• one\n• two", text)
}

func TestSessionChatBeforeInit(t *testing.T) {
	s := newTestSession(t, newScripted("x"))
	_, err := s.Chat(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeConfig))
}

func TestSessionProviderError(t *testing.T) {
	p := newScripted("half")
	p.err = errs.New(errs.ErrCodeUnauthorized, "bad key")
	s := newTestSession(t, p)
	require.NoError(t, s.Init(context.Background(), "m"))

	_, err := s.Chat(context.Background(), nil, nil)
	assert.True(t, errs.Is(err, errs.ErrCodeUnauthorized))
}

// startHeldChat runs a chat against a holding provider and waits until its
// first token has been delivered.
func startHeldChat(t *testing.T, s *Session, ctx context.Context) <-chan result {
	t.Helper()
	first := make(chan struct{})
	var once sync.Once
	done := make(chan result, 1)
	go func() {
		text, err := s.Chat(ctx, nil, func(string) { once.Do(func() { close(first) }) })
		done <- result{text: text, err: err}
	}()
	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("no token received")
	}
	return done
}

func TestSessionAbort(t *testing.T) {
	p := newScripted("after")
	p.hold = true
	s := newTestSession(t, p)
	require.NoError(t, s.Init(context.Background(), "m"))

	done := startHeldChat(t, s, context.Background())
	s.Abort()

	res := <-done
	assert.True(t, errors.Is(res.err, ErrAborted))
	assert.Equal(t, "partial", res.text)

	select {
	case <-p.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("provider stream was not cancelled")
	}

	// The session accepts a new chat right after an abort.
	text, err := s.Chat(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "after", text)

	// Aborting with nothing in flight is a no-op.
	s.Abort()
}

func TestSessionBusy(t *testing.T) {
	p := newScripted()
	p.hold = true
	s := newTestSession(t, p)
	require.NoError(t, s.Init(context.Background(), "m"))

	done := startHeldChat(t, s, context.Background())

	_, err := s.Chat(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, ErrBusy))

	s.Abort()
	assert.True(t, errors.Is((<-done).err, ErrAborted))
}

func TestSessionContextCancelAborts(t *testing.T) {
	p := newScripted()
	p.hold = true
	s := newTestSession(t, p)
	require.NoError(t, s.Init(context.Background(), "m"))

	ctx, cancel := context.WithCancel(context.Background())
	done := startHeldChat(t, s, ctx)
	cancel()

	res := <-done
	assert.True(t, errs.Is(res.err, errs.ErrCodeAborted))
	select {
	case <-p.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("provider stream was not cancelled")
	}
}

func TestSessionIgnoresStaleEvents(t *testing.T) {
	s := newTestSession(t, newScripted())
	s.mu.Lock()
	p := &pendingChat{id: "current", done: make(chan result, 1)}
	s.pending = p
	s.mu.Unlock()

	s.handle(TokenEvent{ID: "old", Token: "stale"})
	s.handle(DoneEvent{ID: "old"})
	s.handle(ErrorEvent{ID: "old", Err: ErrAborted})
	s.handle(TokenEvent{ID: "current", Token: "fresh"})
	s.handle(DoneEvent{ID: "current"})

	res := <-p.done
	require.NoError(t, res.err)
	assert.Equal(t, "fresh", res.text)
}

func TestSessionInitLoader(t *testing.T) {
	p := &loadingProvider{scriptedProvider: newScripted("ok")}
	s := newTestSession(t, p)

	var progress []float64
	s.OnProgress = func(f float64, _ string) { progress = append(progress, f) }

	require.NoError(t, s.Init(context.Background(), "local-model"))
	assert.Equal(t, []float64{0.5, 1}, progress)

	text, err := s.Chat(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestSessionInitLoaderError(t *testing.T) {
	p := &loadingProvider{scriptedProvider: newScripted(), loadErr: errors.New("no gpu")}
	s := newTestSession(t, p)

	err := s.Init(context.Background(), "local-model")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeAIProvider))
	assert.Contains(t, err.Error(), "no gpu")
}

func TestSessionClosed(t *testing.T) {
	s := NewSession(newScripted(), quietLogger())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Chat(context.Background(), nil, nil)
	assert.True(t, errs.Is(err, errs.ErrCodeInternal))
}

func TestWorkerProtocol(t *testing.T) {
	p := newScripted()
	p.hold = true
	w := NewWorker(p, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	next := func() Event {
		t.Helper()
		select {
		case ev := <-w.Events():
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("no event")
			return nil
		}
	}

	w.Requests() <- ChatRequest{ID: "early"}
	ev := next()
	require.IsType(t, ErrorEvent{}, ev)
	assert.Equal(t, "early", ev.(ErrorEvent).ID)

	w.Requests() <- InitRequest{Model: "m"}
	assert.Equal(t, CompleteEvent{}, next())

	w.Requests() <- ChatRequest{ID: "a"}
	assert.Equal(t, TokenEvent{ID: "a", Token: "partial"}, next())

	w.Requests() <- ChatRequest{ID: "b"}
	assert.Equal(t, ErrorEvent{ID: "b", Err: ErrBusy}, next())

	w.Requests() <- AbortRequest{}
	assert.Equal(t, ErrorEvent{ID: "a", Err: ErrAborted}, next())
}

type chatRecord struct {
	provider string
	tokens   int
	err      error
}

type recordingAIHooks struct {
	observability.NoopAIHooks
	done chan chatRecord
}

func (h *recordingAIHooks) OnChatComplete(_ context.Context, provider string, tokens int, _ time.Duration, err error) {
	h.done <- chatRecord{provider, tokens, err}
}

func TestWorkerReportsChats(t *testing.T) {
	hooks := &recordingAIHooks{done: make(chan chatRecord, 2)}
	observability.SetAIHooks(hooks)
	t.Cleanup(observability.Reset)

	p := newScripted("a", "b", "c")
	p.hold = true
	s := newTestSession(t, p)
	require.NoError(t, s.Init(context.Background(), "m"))

	done := startHeldChat(t, s, context.Background())
	s.Abort()
	<-done
	aborted := <-hooks.done
	assert.Equal(t, 1, aborted.tokens)
	assert.True(t, errors.Is(aborted.err, ErrAborted))

	_, err := s.Chat(context.Background(), nil, nil)
	require.NoError(t, err)
	ok := <-hooks.done
	assert.Equal(t, chatRecord{provider: "scripted", tokens: 3}, ok)
}
