// Package ai compiles prompt templates and a chat model into runnable chains.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Chain renders a system and a user template and sends them to the model.
// Templates use FString placeholders such as {location}.
type Chain struct {
	name     string
	runnable compose.Runnable[map[string]any, *schema.Message]
}

// NewChain compiles a template -> model chain.
func NewChain(ctx context.Context, name string, chatModel model.BaseChatModel, systemTemplate, userTemplate string) (*Chain, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%s chain: chat model is required", name)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemTemplate),
		schema.UserMessage(userTemplate),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s chain: %w", name, err)
	}

	return &Chain{name: name, runnable: runnable}, nil
}

// Run fills the templates with vars and returns the trimmed reply text.
func (c *Chain) Run(ctx context.Context, vars map[string]any, temperature float32, maxTokens int) (string, error) {
	opts := []model.Option{model.WithTemperature(temperature)}
	if maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxTokens))
	}

	msg, err := c.runnable.Invoke(ctx, vars, compose.WithChatModelOption(opts...))
	if err != nil {
		return "", fmt.Errorf("%s chain: %w", c.name, err)
	}
	if msg == nil {
		return "", nil
	}
	return strings.TrimSpace(msg.Content), nil
}
