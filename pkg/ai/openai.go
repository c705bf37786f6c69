package ai

import (
	"context"
	"net/http"
	"strings"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/httputil"
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenAIProvider speaks the OpenAI chat completions wire format. It serves
// both OpenAI and OpenRouter.
type OpenAIProvider struct {
	endpoint
}

// NewOpenAI returns a provider for api.openai.com.
func NewOpenAI(apiKey string) *OpenAIProvider {
	return newOpenAICompatible(OpenAI, openAIBaseURL, apiKey, nil)
}

// NewOpenRouter returns a provider for openrouter.ai.
func NewOpenRouter(apiKey string) *OpenAIProvider {
	return newOpenAICompatible(OpenRouter, openRouterBaseURL, apiKey, map[string]string{
		"X-Title": "GitSeeker",
	})
}

func newOpenAICompatible(name, baseURL, apiKey string, extra map[string]string) *OpenAIProvider {
	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	for k, v := range extra {
		headers[k] = v
	}
	return &OpenAIProvider{endpoint{
		name:    name,
		baseURL: baseURL,
		headers: headers,
		client:  newStreamClient(),
	}}
}

// WithBaseURL points the provider at another OpenAI-compatible server.
func (p *OpenAIProvider) WithBaseURL(u string) *OpenAIProvider {
	p.baseURL = strings.TrimRight(u, "/")
	return p
}

func (p *OpenAIProvider) Name() string { return p.name }

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Stream implements [Provider].
func (p *OpenAIProvider) Stream(ctx context.Context, model string, msgs []Message, onToken func(string)) error {
	body := chatRequest{
		Model:       model,
		Messages:    msgs,
		Stream:      true,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	return p.stream(ctx, "/chat/completions", body, func(ev httputil.Event) error {
		if ev.Data == "[DONE]" {
			return httputil.ErrStopEvents
		}
		var chunk chatChunk
		if err := decodeChunk(p.name, ev.Data, &chunk); err != nil {
			return err
		}
		if chunk.Error != nil {
			return errs.New(errs.ErrCodeAIProvider, "%s stream error: %s", p.name, chunk.Error.Message)
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			onToken(chunk.Choices[0].Delta.Content)
		}
		return nil
	})
}

// Validate checks the API key with an authenticated model listing.
func (p *OpenAIProvider) Validate(ctx context.Context) error {
	resp, err := p.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
