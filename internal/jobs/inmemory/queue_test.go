package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauricioolv87/ai-telegram/internal/jobs"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.ProcessAudioJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func TestQueueProcessesJobAndStoresReport(t *testing.T) {
	store := NewStore()
	queue := NewQueue(10, 1, store)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := func(ctx context.Context, job *jobs.ProcessAudioJob) (string, error) {
		return "✅ Transcrição: ok", nil
	}
	if err := queue.Start(ctx, handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ProcessAudioJob{AudioPath: "voice.ogg"}
	if err := queue.PublishProcessAudio(ctx, job); err != nil {
		t.Fatalf("PublishProcessAudio() error = %v", err)
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if done.Report != "✅ Transcrição: ok" {
		t.Errorf("Report = %q", done.Report)
	}
	if done.Error != "" {
		t.Errorf("Error = %q, want empty", done.Error)
	}
}

func TestQueueFailedJobIsNotRetriedByDefault(t *testing.T) {
	store := NewStore()
	queue := NewQueue(10, 1, store)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	handler := func(ctx context.Context, job *jobs.ProcessAudioJob) (string, error) {
		calls++
		return "", errors.New("transcription failed: boom")
	}
	if err := queue.Start(ctx, handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ProcessAudioJob{AudioPath: "voice.ogg"}
	if err := queue.PublishProcessAudio(ctx, job); err != nil {
		t.Fatalf("PublishProcessAudio() error = %v", err)
	}

	failed := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	if failed.Error == "" {
		t.Error("failed job should carry the error message")
	}

	// A failed pipeline run must not be re-executed: a retry could
	// write the same expense to the ledger twice.
	time.Sleep(50 * time.Millisecond)
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	queue := NewQueue(1, 1, NewStore())
	queue.Close()

	err := queue.PublishProcessAudio(context.Background(), &jobs.ProcessAudioJob{AudioPath: "x.ogg"})
	if err == nil {
		t.Error("PublishProcessAudio() on closed queue = nil error")
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ProcessAudioJob{JobID: "j1", AudioPath: "a.ogg", Status: jobs.JobStatusPending}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	got, err := store.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	got.Status = jobs.JobStatusFailed

	again, _ := store.GetJob(ctx, "j1")
	if again.Status != jobs.JobStatusPending {
		t.Error("mutating a returned job must not affect the store")
	}
}

func TestListJobsFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	store.SaveJob(ctx, &jobs.ProcessAudioJob{JobID: "a", Status: jobs.JobStatusCompleted})
	store.SaveJob(ctx, &jobs.ProcessAudioJob{JobID: "b", Status: jobs.JobStatusFailed})
	store.SaveJob(ctx, &jobs.ProcessAudioJob{JobID: "c", Status: jobs.JobStatusCompleted})

	completed, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(completed) != 2 {
		t.Errorf("ListJobs(completed) returned %d jobs, want 2", len(completed))
	}

	limited, _ := store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("ListJobs(limit=1) returned %d jobs, want 1", len(limited))
	}
}
