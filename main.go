package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/catalog"
	"github.com/robalobadob/wordsearch/internal/config"
	"github.com/robalobadob/wordsearch/internal/gemini"
	"github.com/robalobadob/wordsearch/internal/httpserver"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if err := words.Init(cfg.WordsFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := httpserver.Deps{
		Store: store.NewMemoryStore(),
		Words: words.Default(),
	}

	db, err := catalog.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open catalog")
	}
	defer db.Close()
	if err := catalog.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate catalog")
	}
	deps.Catalog = catalog.NewStore(db)
	if _, err := deps.Catalog.EnsureDefault(ctx, "default", words.Displays(deps.Words)); err != nil {
		log.Warn().Err(err).Msg("could not seed default word list")
	}

	if cfg.GCPProject != "" {
		gen, err := gemini.NewClient(ctx, cfg.GCPProject, cfg.GCPRegion)
		if err != nil {
			log.Warn().Err(err).Msg("word generation disabled")
		} else {
			defer gen.Close()
			deps.Generator = gen
		}
	}

	srv := httpserver.New(cfg, deps)
	go srv.SweepSessions(ctx, 10*time.Minute)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("port", cfg.Port).
		Int("gridSize", cfg.GridSize).
		Int("words", len(deps.Words)).
		Bool("generator", deps.Generator != nil).
		Msg("starting wordsearch server")
	if err := srv.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
}
