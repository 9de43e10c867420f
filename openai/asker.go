// Package openai answers prompts through an OpenAI-compatible chat
// completion API. The default endpoint is Groq.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/linktext"
	goopenai "github.com/sashabaranov/go-openai"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the Groq model used when none is configured.
	DefaultModel = "llama3-8b-8192"

	temperature = 0.3
	maxTokens   = 2048
)

// ChatClient is the subset of *goopenai.Client used by Asker.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Ensure Asker implements linktext.Asker at compile time.
var _ linktext.Asker = (*Asker)(nil)

// Asker implements linktext.Asker with a chat completion model.
type Asker struct {
	client ChatClient
	model  string
}

// NewGroqClient returns a client for the Groq API. A non-empty baseURL
// overrides GroqBaseURL.
func NewGroqClient(apiKey, baseURL string) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = GroqBaseURL
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(cfg)
}

// NewAsker creates a new Asker. An empty model selects DefaultModel.
func NewAsker(client ChatClient, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{client: client, model: model}
}

// Ask implements linktext.Asker.
func (a *Asker) Ask(ctx context.Context, prompt, content string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", linktext.Errorf(linktext.EINVALID, "prompt required")
	}

	resp, err := a.client.CreateChatCompletion(ctx, BuildRequest(a.model, prompt, content))
	if err != nil {
		return "", linktext.Errorf(linktext.EUNAVAILABLE, "chat completion: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", linktext.Errorf(linktext.EINTERNAL, "chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// BuildRequest returns the chat completion request for prompt and content.
func BuildRequest(model, prompt, content string) goopenai.ChatCompletionRequest {
	return goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: linktext.AskSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: linktext.BuildAskPrompt(prompt, content)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}
