package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mauricioolv87/ai-telegram/internal/config"
	"github.com/mauricioolv87/ai-telegram/internal/extraction"
	"github.com/mauricioolv87/ai-telegram/internal/jobs"
	"github.com/mauricioolv87/ai-telegram/internal/jobs/inmemory"
	"github.com/mauricioolv87/ai-telegram/internal/logger"
	"github.com/mauricioolv87/ai-telegram/internal/organizze"
	"github.com/mauricioolv87/ai-telegram/internal/pipeline"
	"github.com/mauricioolv87/ai-telegram/internal/speech"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 4, jobStore)

	log.Info().Msg("Starting worker service")

	if err := jobQueue.Start(ctx, newJobHandler(runner, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}

// newJobHandler builds the queue handler that runs the expense pipeline
// for one audio job and removes the audio file afterwards.
func newJobHandler(runner *pipeline.Runner, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job *jobs.ProcessAudioJob) (string, error) {
		log.Info().
			Str("job_id", job.JobID).
			Str("audio_path", job.AudioPath).
			Msg("Processing audio job")

		runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		report, err := runner.Run(runCtx, job.AudioPath)

		if removeErr := os.Remove(job.AudioPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Warn().Err(removeErr).Str("audio_path", job.AudioPath).Msg("Failed to remove audio file")
		}

		if err != nil {
			log.Error().Err(err).Str("job_id", job.JobID).Msg("Pipeline run failed")
			return "", errors.New(pipeline.FormatError(err))
		}

		log.Info().Str("job_id", job.JobID).Msg("Pipeline run completed")
		return report, nil
	}
}
