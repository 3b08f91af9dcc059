package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sessionscribe/scribe/internal/config"
	"github.com/sessionscribe/scribe/internal/handler"
	"github.com/sessionscribe/scribe/internal/model/note"
	"github.com/sessionscribe/scribe/internal/model/session"
	"github.com/sessionscribe/scribe/internal/service/ai"
	"github.com/sessionscribe/scribe/internal/service/drafts"
	"github.com/sessionscribe/scribe/internal/service/notes"
	"github.com/sessionscribe/scribe/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open note store: %v", err)
	}
	defer closeStore()

	deps := handler.Deps{
		Notes:          notes.NewService(store),
		Drafts:         drafts.NewService(),
		SessionTypes:   session.NewMemoryStore(session.Seed()),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	if cfg.AI.Enabled() {
		aiService, err := newAIService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without note generation")
		} else {
			deps.Generator = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("ark credentials not configured, note generation disabled")
	}

	startServer(ctx, cfg.Server, handler.NewRouter(deps))
}

func openStore(cfg config.StorageConfig) (note.Store, func(), error) {
	if cfg.Driver == "memory" {
		log.Println("using in-memory note store")
		return note.NewMemoryStore(), func() {}, nil
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("using sqlite note store at %s", cfg.DBPath)
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("failed to close note store: %v", err)
		}
	}, nil
}

func newAIService(ctx context.Context, cfg config.AIConfig) (*ai.Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, err
	}
	return ai.NewService(ctx, chatModel)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("scribe backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
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
