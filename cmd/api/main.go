package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mauricioolv87/ai-telegram/internal/api/handlers"
	"github.com/mauricioolv87/ai-telegram/internal/api/middleware"
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
	var (
		port = flag.String("port", "8080", "HTTP server port")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Ledger client and directory cache, shared across pipeline runs.
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

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 4, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := newJobHandler(runner, log)

	log.Info().Msg("Starting job worker")
	if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job worker")
	}

	// Initialize handlers
	audioHandler := handlers.NewAudioHandler(jobQueue, cfg.AudioDir, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/audio", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			audioHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(mux),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("API server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	cancelWorker()
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during queue shutdown")
	}

	log.Info().Msg("Server exited")
}

// newJobHandler builds the queue handler that runs the expense pipeline
// for one audio job. The audio file belongs to the transport layer and
// is removed once the run finished, whatever the outcome. The returned
// error is already formatted for the user: it becomes the reply text.
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
