package linktext

import (
	"context"
	"strings"
)

// Asker answers a prompt with a language model, optionally grounded on
// scraped web content.
type Asker interface {
	// Ask answers prompt. When content is non-blank the model is instructed
	// to answer from it; otherwise from its own knowledge.
	// Returns EINVALID if prompt is blank.
	Ask(ctx context.Context, prompt, content string) (string, error)
}

// AskSystemPrompt is the system instruction shared by every Asker.
const AskSystemPrompt = `You are a helpful research assistant. Your task is to provide accurate, concise, and relevant information. Focus on answering the user's query directly and factually.
If you don't have enough information to answer the query, acknowledge this limitation.
Provide well-structured responses with clear organization and formatting when appropriate.
Use bullet points or numbered lists for complex information when it improves readability.`

// BuildAskPrompt builds the user message for prompt, embedding content when
// it is non-blank.
func BuildAskPrompt(prompt, content string) string {
	var sb strings.Builder
	sb.WriteString("User Query: ")
	sb.WriteString(prompt)
	if strings.TrimSpace(content) != "" {
		sb.WriteString("\n\nWeb Content:\n")
		sb.WriteString(content)
		sb.WriteString("\n\nPlease provide a well-structured, factual response to the query based on the web content.")
	} else {
		sb.WriteString("\n\nPlease provide a well-structured, factual response to the query based on your knowledge.")
	}
	return sb.String()
}
