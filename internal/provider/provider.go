// Package provider builds the completion backend selected by configuration.
package provider

import (
	"context"
	"errors"
	"log"

	"github.com/cloudwego/eino/components/model"

	"github.com/guardianlink/backend/internal/config"
	"github.com/guardianlink/backend/internal/service/completion"
)

// ErrNotConfigured means the selected provider lacks credentials.
var ErrNotConfigured = errors.New("completion provider not configured")

// Provider is the chat model used by the pipelines plus, for the Gaia
// provider, the embeddings endpoint.
type Provider struct {
	ChatModel model.BaseChatModel
	Embedder  completion.Embedder
}

// New wraps the configured backend as an instrumented eino chat model.
// observer may be nil.
func New(ctx context.Context, cfg config.AIConfig, observer completion.Observer) (*Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	switch cfg.Provider {
	case config.ProviderArk:
		arkModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		completer := completion.Instrument(completion.NewModelCompleter(arkModel, cfg.CompletionTimeout), observer)
		log.Printf("[completion] using ark model %s", cfg.ArkModel)
		return &Provider{ChatModel: completion.NewChatModel(completer)}, nil
	default:
		client, err := completion.NewClient(cfg.CompletionConfig())
		if err != nil {
			return nil, err
		}
		completer := completion.Instrument(client, observer)
		log.Printf("[completion] using gaia endpoint %s model %s", cfg.GaiaEndpoint, cfg.GaiaModel)
		return &Provider{ChatModel: completion.NewChatModel(completer), Embedder: client}, nil
	}
}
