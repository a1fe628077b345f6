// Package pipeline orchestrates the expense workflow: transcribe the
// audio, extract a structured expense, write it to the ledger, and
// compose the final user-facing report. Steps run strictly in order and
// the first failure short-circuits the rest of the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes the expense pipeline. Service handles are injected so
// the three external adapters can be substituted in tests.
type Runner struct {
	steps []Step
	log   zerolog.Logger
}

// Option configures a Runner.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used to anchor relative dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewRunner wires the standard three-step pipeline.
func NewRunner(transcriber Transcriber, extractor Extractor, ledger LedgerWriter, log zerolog.Logger, opts ...Option) *Runner {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Runner{
		steps: []Step{
			&TranscribeStep{Transcriber: transcriber},
			&ExtractStep{Extractor: extractor, Now: o.now},
			&SendStep{Ledger: ledger},
		},
		log: log,
	}
}

// Run processes one audio message end to end and returns the final
// report. On failure it returns an error describing exactly which step
// failed; a partial run is never reported as success.
func (r *Runner) Run(ctx context.Context, audioPath string) (string, error) {
	state := &State{AudioPath: audioPath}

	for _, step := range r.steps {
		r.log.Info().Str("step", step.Name()).Str("audio", audioPath).Msg("Executing pipeline step")

		if outcome := step.Execute(ctx, state); outcome == OutcomeFailed {
			r.log.Error().Err(state.Err).Str("step", step.Name()).Msg("Pipeline step failed")
			return "", state.Err
		}
	}

	if len(state.ReportSections) == 0 {
		// Cannot happen with the standard steps; guards a miswired runner.
		return "", fmt.Errorf("pipeline produced no report")
	}

	return finalReport(state.ReportSections), nil
}
