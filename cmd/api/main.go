package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/guardianlink/backend/internal/config"
	"github.com/guardianlink/backend/internal/handler"
	"github.com/guardianlink/backend/internal/metrics"
	"github.com/guardianlink/backend/internal/model/disaster"
	"github.com/guardianlink/backend/internal/model/support"
	"github.com/guardianlink/backend/internal/provider"
	"github.com/guardianlink/backend/internal/retrieval"
	"github.com/guardianlink/backend/internal/service/chat"
	"github.com/guardianlink/backend/internal/service/completion"
	disasterservice "github.com/guardianlink/backend/internal/service/disaster"
	"github.com/guardianlink/backend/internal/service/ledger"
	"github.com/guardianlink/backend/internal/service/mentalhealth"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var collector *metrics.Collector
	var observer completion.Observer
	var fallbacks disasterservice.FallbackRecorder
	if cfg.Metrics.Enabled {
		collector = metrics.New(cfg.Metrics.Namespace)
		observer = collector
		fallbacks = collector
	}

	var chatModel model.BaseChatModel
	p, err := provider.New(ctx, cfg.AI, observer)
	switch {
	case errors.Is(err, provider.ErrNotConfigured):
		log.Printf("completion provider %s not configured, serving fallback responses", cfg.AI.Provider)
	case err != nil:
		log.Printf("warning: failed to initialize completion provider: %v", err)
		log.Println("continuing without AI functionality")
	default:
		chatModel = p.ChatModel
	}

	history, err := chat.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to open chat history store: %v", err)
	}
	if closer, ok := history.(io.Closer); ok {
		defer closer.Close()
	}

	disasterOrchestrator, err := disasterservice.NewOrchestrator(ctx, chatModel, fallbacks)
	if err != nil {
		log.Fatalf("failed to build disaster pipeline: %v", err)
	}

	resources := support.NewMemoryStore(support.Seed())
	mentalHealthOrchestrator, err := mentalhealth.NewOrchestrator(ctx, retrieval.New(resources), chatModel, fallbacks)
	if err != nil {
		log.Fatalf("failed to build mental health pipeline: %v", err)
	}

	router := handler.NewRouter(handler.Deps{
		Predictor:   disasterOrchestrator,
		Responder:   mentalHealthOrchestrator,
		Ledger:      ledger.NewService(),
		Disasters:   disaster.NewMemoryStore(disaster.Seed()),
		History:     history,
		Resources:   resources,
		Metrics:     collector,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("GuardianLink backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Printf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
