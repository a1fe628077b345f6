package pipeline

import (
	"context"
	"time"

	"github.com/mauricioolv87/ai-telegram/internal/extraction"
	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

// Transcriber converts an audio file into a transcript.
// Satisfied by speech.GeminiTranscriber; mocked in tests.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Extractor turns a transcript into a structured expense with resolved
// ledger entities. Satisfied by extraction.GeminiExtractor.
type Extractor interface {
	Extract(ctx context.Context, transcript string, today time.Time) (*organizze.Expense, *extraction.Resolution, error)
}

// LedgerWriter writes an expense to the budgeting service.
// Satisfied by organizze.Client.
type LedgerWriter interface {
	CreateTransaction(ctx context.Context, expense *organizze.Expense) (*organizze.Transaction, error)
}
