package ai

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider streams chat completions from a language model.
//
// Stream calls onToken for every text fragment in arrival order and returns
// once the model has finished. Cancelling ctx stops the stream; the error is
// then ctx.Err().
type Provider interface {
	Name() string
	Stream(ctx context.Context, model string, msgs []Message, onToken func(string)) error
}

// Supported provider names.
const (
	OpenAI     = "openai"
	Anthropic  = "anthropic"
	OpenRouter = "openrouter"
)

// DefaultProvider is used when no provider has been configured.
const DefaultProvider = OpenAI

var defaultModels = map[string]string{
	OpenAI:     "gpt-3.5-turbo",
	Anthropic:  "claude-3-haiku-20240307",
	OpenRouter: "meta-llama/llama-3-8b-instruct",
}

// Generation parameters shared by all providers.
const (
	maxTokens   = 2000
	temperature = 0.7
)

// Providers returns the supported provider names.
func Providers() []string {
	return []string{OpenAI, Anthropic, OpenRouter}
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// ParseProvider validates a user-supplied provider name.
func ParseProvider(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(Providers(), n) {
		return "", errs.New(errs.ErrCodeInvalidInput, "unknown AI provider %q (valid: %s)", name, strings.Join(Providers(), ", "))
	}
	return n, nil
}

// Config selects a provider, a model and the API keys known per provider.
type Config struct {
	Provider string
	Model    string
	APIKeys  map[string]string
}

// APIKey returns the key stored for the selected provider.
func (c Config) APIKey() string {
	return c.APIKeys[c.Provider]
}

// ResolvedModel returns Model, or the provider default when Model is empty.
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// NewProvider builds the provider selected by cfg.
func NewProvider(cfg Config) (Provider, error) {
	return newProvider(cfg.Provider, cfg.APIKey())
}

func newProvider(name, apiKey string) (interface {
	Provider
	Validate(context.Context) error
}, error) {
	name, err := ParseProvider(name)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, errs.New(errs.ErrCodeConfig, "no API key configured for %s (run: gitseeker config set --provider %s --api-key <key>)", name, name)
	}
	switch name {
	case Anthropic:
		return NewAnthropic(apiKey), nil
	case OpenRouter:
		return NewOpenRouter(apiKey), nil
	default:
		return NewOpenAI(apiKey), nil
	}
}

// newStreamClient returns an HTTP client suited to long-lived streams: the
// overall duration is bounded by the caller's context, only the wait for
// response headers is capped.
func newStreamClient() *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ResponseHeaderTimeout = 30 * time.Second
	return &http.Client{Transport: t}
}
