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

	"github.com/aaronzipp/witness/internal/config"
	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/handlers"
	"github.com/aaronzipp/witness/internal/oracle"
	"github.com/aaronzipp/witness/internal/policy"
	"github.com/aaronzipp/witness/internal/session"
	"github.com/aaronzipp/witness/internal/sse"
	"github.com/aaronzipp/witness/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Load data
	words, err := game.LoadWordList(cfg.WordList)
	if err != nil {
		return err
	}
	instructions, err := oracle.LoadInstructions(cfg.Instructions)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d keywords", words.Len())

	engine, err := policy.NewEngine(ctx, "")
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	appCtx := &handlers.Context{
		LobbyStore: store.NewLobbyStore(),
		Hub:        hub,
		PublicURL:  cfg.PublicURL,
		MaxLobbies: cfg.MaxLobbies,
		Deps: session.Deps{
			Messenger:    hub,
			Completer:    oracle.NewCompleter(cfg.Mode, cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAITimeout),
			Instructions: instructions,
			Words:        words,
			Policy:       engine,
		},
	}

	if cfg.ArchiveDSN != "" {
		archive, err := store.OpenArchive(cfg.ArchiveDSN)
		if err != nil {
			return err
		}
		defer archive.Close()
		appCtx.Deps.Archive = archive
		appCtx.History = archive
		log.Printf("Archiving games to %s", cfg.ArchiveDSN)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           appCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
	}

	appCtx.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
