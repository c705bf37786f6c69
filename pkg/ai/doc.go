// Package ai streams project analyses from hosted language models.
//
// # Providers
//
// A [Provider] streams chat completions over server-sent events. Three are
// built in: [NewOpenAI], [NewAnthropic] and [NewOpenRouter] (which speaks
// the OpenAI wire format). [NewProvider] picks one from a [Config]:
//
//	cfg := ai.Config{Provider: ai.Anthropic, APIKeys: map[string]string{ai.Anthropic: key}}
//	p, err := ai.NewProvider(cfg)
//
// Non-2xx responses become errors with code AI_PROVIDER (UNAUTHORIZED for
// 401) carrying a [StatusError] with the status and a body snippet.
//
// # Worker and Session
//
// A [Worker] owns a provider and is driven purely through typed request and
// event channels. A [Session] wraps a worker for callers that want blocking
// calls: it tags each chat with a fresh id, allows one chat in flight, and
// ignores events for ids it no longer waits on.
//
//	s := ai.NewSession(p, logger)
//	defer s.Close()
//	_ = s.Init(ctx, cfg.ResolvedModel())
//	text, err := s.Chat(ctx, ai.AnalysisMessages(proj, readme), printToken)
//	if errors.Is(err, ai.ErrAborted) { ... }
package ai
