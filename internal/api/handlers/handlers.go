// Package handlers implements the HTTP endpoints of the bot's API: audio
// upload and job status. The messaging front end posts the downloaded
// voice file here and polls the job for the reply text.
package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mauricioolv87/ai-telegram/internal/api/middleware"
	"github.com/mauricioolv87/ai-telegram/internal/jobs"
)

// maxAudioBytes bounds uploads; voice notes are far smaller.
const maxAudioBytes = 25 << 20

// AudioHandler accepts audio uploads and enqueues pipeline jobs.
type AudioHandler struct {
	publisher jobs.Publisher
	audioDir  string
	log       zerolog.Logger
}

// NewAudioHandler creates a new audio upload handler. Uploaded files are
// stored under audioDir until the worker has processed them.
func NewAudioHandler(publisher jobs.Publisher, audioDir string, log zerolog.Logger) *AudioHandler {
	return &AudioHandler{
		publisher: publisher,
		audioDir:  audioDir,
		log:       log,
	}
}

// Upload handles POST /api/audio. It expects a multipart form with a
// "file" part, stores the audio locally and publishes a processing job.
func (h *AudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Audio file is required (multipart field \"file\")")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".ogg"
	}

	if err := os.MkdirAll(h.audioDir, 0o755); err != nil {
		h.log.Error().Err(err).Msg("Failed to create audio directory")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store audio")
		return
	}

	audioPath := filepath.Join(h.audioDir, uuid.New().String()+ext)
	dst, err := os.Create(audioPath)
	if err != nil {
		h.log.Error().Err(err).Str("path", audioPath).Msg("Failed to create audio file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store audio")
		return
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(audioPath)
		h.log.Error().Err(err).Str("path", audioPath).Msg("Failed to write audio file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store audio")
		return
	}
	dst.Close()

	job := &jobs.ProcessAudioJob{AudioPath: audioPath}
	if err := h.publisher.PublishProcessAudio(ctx, job); err != nil {
		os.Remove(audioPath)
		h.log.Error().Err(err).Msg("Failed to publish job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue audio")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("audio_path", audioPath).
		Str("filename", header.Filename).
		Msg("Audio enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// JobsHandler serves job status and results.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// ListJobs handles GET /api/jobs with optional status and limit query
// parameters.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := jobs.JobFilter{
		Status: jobs.JobStatus(r.URL.Query().Get("status")),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	list, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// GetJob handles GET /api/jobs/{id}. A completed job carries the report
// text; a failed one carries the formatted error.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("Job not found: %s", jobID))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}
