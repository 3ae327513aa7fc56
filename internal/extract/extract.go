// Package extract locates the human-readable answer text inside
// provider-specific response shapes.
package extract

import (
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/tidwall/gjson"

	"llm-gateway/internal/llm"
)

// Placeholder is returned whenever a response carries no usable answer text.
const Placeholder = "No answer received"

// FromCompletion pulls the primary textual output of a structured chain
// result. A nil completion means the chain resolution itself failed and is
// reported as a malformed response; a completion with no output degrades
// to the placeholder instead.
func FromCompletion(resp *openai.ChatCompletion) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil completion", llm.ErrMalformedResponse)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Placeholder, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// FromChatJSON navigates choices[0].message.content in a generic
// chat-completion document. Every step is a safe optional lookup: a missing
// key, empty array, or non-string content yields the placeholder, never an
// error. Malformed-but-parseable payloads degrade silently by contract.
func FromChatJSON(body []byte) string {
	content := gjson.GetBytes(body, "choices.0.message.content")
	if content.Type != gjson.String || content.Str == "" {
		return Placeholder
	}
	return content.Str
}
