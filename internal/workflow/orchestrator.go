// Package workflow runs one message through extraction: email-body first,
// spreadsheet attachment when the body has no journal entries, then persists
// the accepted result.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/journal-extractor/internal/extract"
	"github.com/dvloznov/journal-extractor/internal/logger"
	"github.com/dvloznov/journal-extractor/internal/mailparse"
	"github.com/dvloznov/journal-extractor/internal/sheet"
)

// State is the extraction path a run took.
type State string

const (
	StatePrimary  State = "PRIMARY"
	StateFallback State = "FALLBACK"
)

// ErrMissingAttachment matches every *MissingAttachmentError.
var ErrMissingAttachment = errors.New("no spreadsheet attachment")

// MissingAttachmentError means the body had no entries and the message
// carried no .xlsx attachment to fall back to.
type MissingAttachmentError struct {
	MessagePath string
}

func (e *MissingAttachmentError) Error() string {
	return fmt.Sprintf("no journal entries in body of %s and no spreadsheet attachment to fall back to", e.MessagePath)
}

func (e *MissingAttachmentError) Is(target error) bool { return target == ErrMissingAttachment }

// MessageDecoder provides message decoding.
// This interface enables mocking of the decoder in tests.
type MessageDecoder interface {
	Decode(path string) (*mailparse.Message, error)
}

// TableReader reads one sheet of a workbook as a cleaned grid.
type TableReader interface {
	ReadTable(path, preferred string) (*sheet.Table, error)
}

// Extractor runs the two extraction prompts.
type Extractor interface {
	Primary(ctx context.Context, subject, body string) (string, error)
	Fallback(ctx context.Context, grid string) (extract.Result, error)
}

// Options configures an Orchestrator.
type Options struct {
	OutputDir      string
	PreferredSheet string
}

// Report summarizes a finished run.
type Report struct {
	RunID       string
	MessagePath string
	State       State
	Records     int
	Debits      int
	Credits     int
	Sheet       string
	OutputPath  string
	StartedAt   time.Time
	Duration    time.Duration
	Steps       map[string]time.Duration
}

// Orchestrator executes the extraction steps in order.
type Orchestrator struct {
	steps []Step
}

// NewOrchestrator creates the standard decode, primary, fallback, persist run.
func NewOrchestrator(decoder MessageDecoder, tables TableReader, extractor Extractor, opts Options) *Orchestrator {
	if opts.PreferredSheet == "" {
		opts.PreferredSheet = sheet.DefaultSheet
	}
	return NewWithSteps(
		&DecodeStep{Decoder: decoder},
		&PrimaryStep{Extractor: extractor},
		&FallbackStep{Tables: tables, Extractor: extractor, PreferredSheet: opts.PreferredSheet},
		&PersistStep{OutputDir: opts.OutputDir},
	)
}

// NewWithSteps creates an orchestrator with the given steps.
func NewWithSteps(steps ...Step) *Orchestrator {
	return &Orchestrator{steps: steps}
}

// Run processes the message at messagePath. Nothing is written unless every
// step succeeds.
func (o *Orchestrator) Run(ctx context.Context, messagePath string) (*Report, error) {
	state := &RunState{
		RunID:       uuid.NewString(),
		MessagePath: messagePath,
		Path:        StatePrimary,
	}
	report := &Report{
		RunID:       state.RunID,
		MessagePath: messagePath,
		StartedAt:   time.Now(),
		Steps:       make(map[string]time.Duration, len(o.steps)),
	}

	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"run_id":  state.RunID,
		"message_path": messagePath,
	})
	ctx = logger.WithContext(ctx, log)

	for i, step := range o.steps {
		start := time.Now()
		err := step.Execute(ctx, state)
		report.Steps[step.Name()] = time.Since(start)
		if err != nil {
			log.Error().Err(err).Str("step", step.Name()).Str("state", string(state.Path)).Msg("extraction failed")
			return nil, fmt.Errorf("workflow step %d (%s) failed: %w", i+1, step.Name(), err)
		}
	}

	report.State = state.Path
	report.Records = len(state.Result)
	report.OutputPath = state.OutputPath
	report.Duration = time.Since(report.StartedAt)
	if state.Table != nil {
		report.Sheet = state.Table.Sheet
	}
	if entries, err := state.Result.Entries(); err == nil {
		report.Debits, report.Credits = extract.Tally(entries)
	}

	log.Info().
		Str("state", string(report.State)).
		Int("records", report.Records).
		Int("debits", report.Debits).
		Int("credits", report.Credits).
		Str("output", report.OutputPath).
		Dur("duration", report.Duration).
		Msg("extraction finished")

	return report, nil
}
