package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boardgames/assets"
	"github.com/robalobadob/boardgames/internal/config"
	"github.com/robalobadob/boardgames/internal/httpserver"
	"github.com/robalobadob/boardgames/internal/metrics"
	"github.com/robalobadob/boardgames/internal/results"
	"github.com/robalobadob/boardgames/internal/room"
	"github.com/robalobadob/boardgames/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var rec results.Recorder = results.Noop{}
	if cfg.DBPath != "" {
		db, err := openDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer db.Close()
		if err := migrate(db, assets.Migrations, "sql"); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		rec = results.NewStore(db)
	}

	srv := httpserver.New(httpserver.Options{
		Store:          store.NewMemoryStore(cfg.RoomCapacity, cfg.RoomTTL),
		Results:        rec,
		Metrics:        metrics.New(),
		Rooms:          room.Options{ChainTimeout: cfg.ChainTimeout},
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})
	hs := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Bool("results", cfg.DBPath != "").Msg("starting boardgames server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
