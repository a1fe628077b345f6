package pipeline

import (
	"github.com/mauricioolv87/ai-telegram/internal/extraction"
	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

// Outcome is the result of executing one pipeline step.
type Outcome int

const (
	// OutcomeContinue moves the pipeline to the next step.
	OutcomeContinue Outcome = iota
	// OutcomeFailed terminates the run; State.Err carries the reason.
	OutcomeFailed
)

// State is the shared state threaded through one pipeline run. It is
// created fresh per audio message, owned by exactly one run, and
// discarded once the report is produced.
type State struct {
	// AudioPath references the input audio. The transport owns the
	// file's lifetime; the pipeline only reads it.
	AudioPath string

	// Transcript is set by the transcribe step.
	Transcript string

	// Expense and Resolution are set by the extract step.
	Expense    *organizze.Expense
	Resolution *extraction.Resolution

	// LedgerResult is set by the send step.
	LedgerResult *organizze.Transaction

	// Err is terminal: once set, no further step runs and the caller
	// receives only the error, never a partial report.
	Err error

	// ReportSections collects one section per completed step, joined
	// with blank lines at finalization.
	ReportSections []string
}

// fail records a terminal error and aborts the run.
func (s *State) fail(err error) Outcome {
	s.Err = err
	return OutcomeFailed
}

// addSection appends a report section for a completed step.
func (s *State) addSection(section string) {
	s.ReportSections = append(s.ReportSections, section)
}
