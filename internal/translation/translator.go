package translation

import (
	"context"
	"fmt"
	"strings"

	"subforge/internal/language"
)

// Translator turns one piece of subtitle text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, text, targetLanguage string) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return f(ctx, text, targetLanguage)
}

// Completer is a chat model that answers one system and one user message.
// Both llm.Client and openai.Client satisfy it.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
	Model() string
}

// Instruction returns the system prompt that asks for a direct translation.
func Instruction(targetLanguage string) string {
	return fmt.Sprintf("You are a translation expert. Translate the user's text directly into %s. "+
		"Reply with the translation only, without commentary, notes or quotation marks.",
		language.TargetName(targetLanguage))
}

// ChatTranslator translates through a chat completion backend.
type ChatTranslator struct {
	backend     string
	client      Completer
	temperature float64
}

// NewChatTranslator wraps client. backend names the service for cache keys
// and logs (e.g. "llm", "openai").
func NewChatTranslator(backend string, client Completer, temperature float64) *ChatTranslator {
	return &ChatTranslator{backend: strings.TrimSpace(backend), client: client, temperature: temperature}
}

// Translate sends text with the translation instruction and returns the reply.
func (t *ChatTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return t.client.Complete(ctx, Instruction(targetLanguage), text, t.temperature)
}

// Backend returns the backend name.
func (t *ChatTranslator) Backend() string {
	return t.backend
}

// Model returns the chat model in use.
func (t *ChatTranslator) Model() string {
	return t.client.Model()
}
