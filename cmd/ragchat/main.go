package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"flarerag/internal/app"
	"flarerag/internal/config"
	"flarerag/internal/corpus"
	"flarerag/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	skipIndex := flag.Bool("skip-index", false, "Chat against the existing collection without rebuilding")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := app.NewLogger(cfg.LogLevel)

	ctx := context.Background()
	components, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pipeline")
	}

	if !*skipIndex {
		rows, err := corpus.LoadCSV(cfg.CorpusPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load corpus")
		}
		count, err := components.Indexer.BuildCollection(ctx, rows)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build collection")
		}
		log.Info().Int("num_points", count).Msg("collection ready")
	}

	m := tui.New(components.Pipeline)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal().Err(err).Msg("tui exited")
	}
}
