package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mauricioolv87/ai-telegram/internal/config"
	"github.com/mauricioolv87/ai-telegram/internal/extraction"
	"github.com/mauricioolv87/ai-telegram/internal/logger"
	"github.com/mauricioolv87/ai-telegram/internal/organizze"
	"github.com/mauricioolv87/ai-telegram/internal/pipeline"
	"github.com/mauricioolv87/ai-telegram/internal/speech"
)

// One-shot CLI: run a single audio file through the expense pipeline and
// print the reply that would be sent to the user.
func main() {
	log := logger.New()

	audioPath := flag.String("audio", "", "Path to the audio file to process (e.g. voice.ogg)")
	flag.Parse()

	if *audioPath == "" {
		log.Fatal().Msg("Error: --audio is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Bounded so the CLI doesn't hang on a stuck backend.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ctx = logger.WithContext(ctx, log)

	ledger := organizze.NewClient(cfg.Organizze.BaseURL, cfg.Organizze.Email, cfg.Organizze.Token)
	directory := organizze.NewDirectory(ledger, log)

	transcriber, err := speech.NewGeminiTranscriber(ctx, cfg.Gemini.APIKey, cfg.Gemini.TranscriptionModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create transcriber")
	}

	extractor, err := extraction.NewGeminiExtractor(ctx, cfg.Gemini.APIKey, cfg.Gemini.ExtractionModel, directory)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create extractor")
	}

	runner := pipeline.NewRunner(transcriber, extractor, ledger, log)

	log.Info().Str("audio", *audioPath).Msg("Starting pipeline run")

	report, err := runner.Run(ctx, *audioPath)
	if err != nil {
		fmt.Println(pipeline.FormatError(err))
		os.Exit(1)
	}

	fmt.Println(report)
}
