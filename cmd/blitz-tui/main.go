package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/call-blitz/tui/internal/app"
	"github.com/call-blitz/tui/internal/client"
	"github.com/call-blitz/tui/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	apiURL := flag.String("api", "", "Override backend API base URL")
	streamURL := flag.String("stream", "", "Override stream base URL")
	flag.Parse()

	// Local .env is optional; config env overrides read from it.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *streamURL != "" {
		cfg.Stream.BaseURL = *streamURL
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	api := client.NewAPI(cfg.API.BaseURL)
	stream := client.NewStream(cfg.Stream.BaseURL, cfg.Stream.Path, log)

	m := app.New(api, stream, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to the configured file. Stdout belongs to the TUI, so the
// terminal is never an output path.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}
	return zc.Build()
}
