// Package anthropic adapts the Anthropic SDK to the CompletionProvider
// interface used by the assistant services.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"versekeep/internal/domain/services"
)

const defaultMaxTokens = 1024

// Provider implements the CompletionProvider interface for Claude models.
type Provider struct {
	client *anthropic.Client
	model  string
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{
		client: &client,
		model:  model,
	}, nil
}

// Complete sends the full conversation and returns the assistant's text reply.
func (p *Provider) Complete(ctx context.Context, messages []services.CompletionMessage) (string, error) {
	apiMessages, err := convertMessages(messages)
	if err != nil {
		return "", fmt.Errorf("convert messages: %w", err)
	}

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		Messages:  apiMessages,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("completion response contained no text block")
}

// convertMessages converts conversation turns to the SDK's message format.
func convertMessages(messages []services.CompletionMessage) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for i, msg := range messages {
		block := anthropic.NewTextBlock(msg.Content)

		switch msg.Role {
		case "user":
			result = append(result, anthropic.NewUserMessage(block))
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(block))
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, nil
}
