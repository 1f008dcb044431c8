package completion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel             = "llama"
	DefaultEmbeddingModel    = "nomic-embed"
	DefaultCompletionTimeout = 60 * time.Second
	DefaultEmbeddingTimeout  = 30 * time.Second
)

// ErrMissingCredentials is returned when the API key or endpoint is empty.
var ErrMissingCredentials = errors.New("completion api key and endpoint must be set")

// Config configures a Client for an OpenAI-compatible endpoint.
type Config struct {
	APIKey            string
	Endpoint          string
	Model             string
	EmbeddingModel    string
	CompletionTimeout time.Duration
	EmbeddingTimeout  time.Duration
	HTTPClient        *http.Client
}

// Client calls the /chat/completions and /embeddings routes of the endpoint
// with bearer authentication.
type Client struct {
	api               *openai.Client
	model             string
	embeddingModel    string
	completionTimeout time.Duration
	embeddingTimeout  time.Duration
}

// NewClient validates cfg and fills defaults.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, ErrMissingCredentials
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	}

	c := &Client{
		api:               openai.NewClientWithConfig(apiCfg),
		model:             cfg.Model,
		embeddingModel:    cfg.EmbeddingModel,
		completionTimeout: cfg.CompletionTimeout,
		embeddingTimeout:  cfg.EmbeddingTimeout,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.embeddingModel == "" {
		c.embeddingModel = DefaultEmbeddingModel
	}
	if c.completionTimeout <= 0 {
		c.completionTimeout = DefaultCompletionTimeout
	}
	if c.embeddingTimeout <= 0 {
		c.embeddingTimeout = DefaultEmbeddingTimeout
	}
	return c, nil
}

// Complete sends one chat completion request and returns the first choice.
func (c *Client) Complete(ctx context.Context, req Request) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.completionTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toAPIMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Tools:       req.Tools,
	})
	if err != nil {
		err = classifyError(opComplete, err)
		log.Printf("[completion] %v", err)
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &ParseError{Op: opComplete, Err: errors.New("reply has no choices")}
	}

	choice := resp.Choices[0]
	return &Reply{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
	}, nil
}

// Embed returns one vector per text, ordered like texts.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.embeddingTimeout)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		err = classifyError(opEmbed, err)
		log.Printf("[completion] %v", err)
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, &ParseError{Op: opEmbed, Err: fmt.Errorf("expected %d vectors, got %d", len(texts), len(resp.Data))}
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) || vectors[item.Index] != nil {
			return nil, &ParseError{Op: opEmbed, Err: fmt.Errorf("invalid vector index %d", item.Index)}
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

func toAPIMessages(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
