package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Step is a single stage of the expense pipeline. A step mutates the
// shared state and reports whether the run continues or stops.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) Outcome
}

// TranscribeStep turns the audio into a transcript.
type TranscribeStep struct {
	Transcriber Transcriber
}

func (s *TranscribeStep) Name() string { return "transcribe" }

func (s *TranscribeStep) Execute(ctx context.Context, state *State) Outcome {
	transcript, err := s.Transcriber.Transcribe(ctx, state.AudioPath)
	if err != nil {
		return state.fail(fmt.Errorf("transcription failed: %w", err))
	}

	state.Transcript = transcript
	state.addSection(transcriptSection(transcript))
	return OutcomeContinue
}

// ExtractStep turns the transcript into a structured expense.
type ExtractStep struct {
	Extractor Extractor

	// Now anchors relative dates; defaults to time.Now.
	Now func() time.Time
}

func (s *ExtractStep) Name() string { return "extract" }

func (s *ExtractStep) Execute(ctx context.Context, state *State) Outcome {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	expense, resolution, err := s.Extractor.Extract(ctx, state.Transcript, now())
	if err != nil {
		return state.fail(fmt.Errorf("extraction failed: %w", err))
	}

	state.Expense = expense
	state.Resolution = resolution
	state.addSection(extractedSection(expense, resolution))
	return OutcomeContinue
}

// SendStep writes the expense to the ledger.
type SendStep struct {
	Ledger LedgerWriter
}

func (s *SendStep) Name() string { return "send" }

func (s *SendStep) Execute(ctx context.Context, state *State) Outcome {
	result, err := s.Ledger.CreateTransaction(ctx, state.Expense)
	if err != nil {
		return state.fail(fmt.Errorf("ledger write failed: %w", err))
	}

	state.LedgerResult = result
	state.addSection(confirmationSection)
	return OutcomeContinue
}
