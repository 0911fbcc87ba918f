package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/pkg/config"
	"github.com/lsmc/candidature/pkg/scoring"
)

// engineFor builds the scoring engine, letting --lang override the configured locale.
func engineFor(cfg *config.Config, lang string) (*scoring.Engine, error) {
	engine, err := cfg.Scoring.Engine()
	if err != nil {
		return nil, err
	}
	if lang != "" {
		engine = engine.Localized(scoring.ParseLocale(lang))
	}
	return engine, nil
}

// readInput reads a file, or stdin when path is "" or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func readApplication(path string, stdin io.Reader) (*application.Application, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, fmt.Errorf("reading candidature: %w", err)
	}
	var app application.Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("parsing candidature: %w", err)
	}
	return &app, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
