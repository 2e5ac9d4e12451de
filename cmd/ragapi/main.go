package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"flarerag/internal/app"
	"flarerag/internal/config"
	"flarerag/internal/corpus"
	"flarerag/internal/server"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	skipIndex := flag.Bool("skip-index", false, "Serve without rebuilding the collection")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return
	}
	log := app.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pipeline")
	}

	if !*skipIndex {
		rows, err := corpus.LoadCSV(cfg.CorpusPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load corpus")
		}
		log.Info().Int("num_rows", len(rows)).Msg("loaded corpus")
		count, err := components.Indexer.BuildCollection(ctx, rows)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build collection")
		}
		log.Info().Int("num_points", count).Msg("collection ready")
	}

	srv := server.New(components.Pipeline, components.Indexer, cfg.Server.CORSOrigins, log)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("serving chat API")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}
