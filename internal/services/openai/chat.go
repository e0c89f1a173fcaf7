package openai

import (
	"context"
	"strings"

	sdk "github.com/sashabaranov/go-openai"

	"subforge/internal/services"
)

// Model returns the chat model used for completions.
func (c *Client) Model() string {
	if c.cfg.ChatModel != "" {
		return c.cfg.ChatModel
	}
	return sdk.GPT4oMini
}

// Complete sends one system and one user message and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model: c.Model(),
		Messages: []sdk.ChatCompletionMessage{
			{Role: sdk.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: sdk.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: float32(temperature),
	})
	if err != nil {
		return "", classify("translating", "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "translating", "chat completion", "response contained no choices", nil)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", services.Wrap(services.ErrExternalTool, "translating", "chat completion", "empty reply from "+c.Model(), nil)
	}
	return content, nil
}
