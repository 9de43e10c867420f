// Package gemini answers prompts with Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/linktext"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Asker implements linktext.Asker at compile time.
var _ linktext.Asker = (*Asker)(nil)

// Asker implements linktext.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
	model  string
}

// NewAsker creates a new Asker. An empty model selects DefaultModel.
func NewAsker(client *genai.Client, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{client: client, model: model}
}

// Ask answers prompt, grounded on content when it is non-blank.
func (a *Asker) Ask(ctx context.Context, prompt, content string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", linktext.Errorf(linktext.EINVALID, "prompt required")
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: linktext.BuildAskPrompt(prompt, content)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", linktext.Errorf(linktext.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", linktext.Errorf(linktext.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: linktext.AskSystemPrompt}},
		},
		Temperature:     &temp,
		MaxOutputTokens: 2048,
	}
}
