package ai

import (
	"context"
	"net/http"
	"strings"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/httputil"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"
)

// AnthropicProvider streams from the Anthropic messages API.
type AnthropicProvider struct {
	endpoint
}

// NewAnthropic returns a provider for api.anthropic.com.
func NewAnthropic(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{endpoint{
		name:    Anthropic,
		baseURL: anthropicBaseURL,
		headers: map[string]string{
			"x-api-key":         apiKey,
			"anthropic-version": anthropicVersion,
		},
		client: newStreamClient(),
	}}
}

// WithBaseURL points the provider at another messages API server.
func (p *AnthropicProvider) WithBaseURL(u string) *AnthropicProvider {
	p.baseURL = strings.TrimRight(u, "/")
	return p
}

func (p *AnthropicProvider) Name() string { return p.name }

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type messagesEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// splitSystem lifts system messages out of the conversation. The messages
// API takes them as a separate top-level field.
func splitSystem(msgs []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}

// Stream implements [Provider].
func (p *AnthropicProvider) Stream(ctx context.Context, model string, msgs []Message, onToken func(string)) error {
	system, rest := splitSystem(msgs)
	body := messagesRequest{
		Model:       model,
		System:      system,
		Messages:    rest,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stream:      true,
	}
	return p.stream(ctx, "/messages", body, func(ev httputil.Event) error {
		var msg messagesEvent
		if err := decodeChunk(p.name, ev.Data, &msg); err != nil {
			return err
		}
		kind := msg.Type
		if kind == "" {
			kind = ev.Name
		}
		switch kind {
		case "content_block_delta":
			if msg.Delta.Text != "" {
				onToken(msg.Delta.Text)
			}
		case "message_stop":
			return httputil.ErrStopEvents
		case "error":
			text := "unknown error"
			if msg.Error != nil {
				text = msg.Error.Message
			}
			return errs.New(errs.ErrCodeAIProvider, "%s stream error: %s", p.name, text)
		}
		return nil
	})
}

// Validate checks the API key with a one-token request. A 400 still proves
// the key was accepted.
func (p *AnthropicProvider) Validate(ctx context.Context) error {
	body := messagesRequest{
		Model:     DefaultModel(Anthropic),
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 1,
	}
	resp, err := p.do(ctx, http.MethodPost, "/messages", body)
	if err != nil {
		var se *StatusError
		if asStatus(err, &se) && se.Status == http.StatusBadRequest {
			return nil
		}
		return err
	}
	resp.Body.Close()
	return nil
}
