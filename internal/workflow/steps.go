package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/journal-extractor/internal/extract"
	"github.com/dvloznov/journal-extractor/internal/logger"
	"github.com/dvloznov/journal-extractor/internal/mailparse"
	"github.com/dvloznov/journal-extractor/internal/sheet"
)

// Step represents a single step of an extraction run.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *RunState) error
}

// RunState holds the shared state across all steps of one run.
type RunState struct {
	RunID       string
	MessagePath string
	Message     *mailparse.Message
	Path        State
	RawPrimary  string
	Table       *sheet.Table
	Result      extract.Result
	OutputPath  string
}

// DecodeStep reads the message and saves its spreadsheet attachments.
type DecodeStep struct {
	Decoder MessageDecoder
}

func (s *DecodeStep) Name() string { return "decode" }

func (s *DecodeStep) Execute(ctx context.Context, state *RunState) error {
	msg, err := s.Decoder.Decode(state.MessagePath)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	for _, w := range msg.Warnings {
		log.Warn().Str("warning", w).Msg("message decoded with warnings")
	}
	log.Debug().
		Str("subject", msg.Subject).
		Int("body_len", len(msg.Body)).
		Int("attachments", len(msg.Attachments)).
		Msg("message decoded")

	state.Message = msg
	state.Path = StatePrimary
	return nil
}

// PrimaryStep runs the email-body extraction and decides the path.
type PrimaryStep struct {
	Extractor Extractor
}

func (s *PrimaryStep) Name() string { return "primary" }

func (s *PrimaryStep) Execute(ctx context.Context, state *RunState) error {
	raw, err := s.Extractor.Primary(ctx, state.Message.Subject, state.Message.Body)
	if err != nil {
		return err
	}
	state.RawPrimary = raw

	log := logger.FromContext(ctx)
	textual := strings.Contains(raw, extract.NoEntriesMarker)

	structural := false
	if parsed, perr := extract.Normalize(raw); perr == nil {
		_, structural = parsed.Sentinel()
	}
	if textual != structural {
		log.Warn().
			Bool("marker_in_text", textual).
			Bool("sentinel_object", structural).
			Msg("primary output mentions the no-entries marker without being a sentinel object")
	}

	if textual {
		state.Path = StateFallback
		log.Info().Msg("no journal entries in body, falling back to attachment")
		return nil
	}

	result, err := extract.Normalize(raw)
	if err != nil {
		return err
	}
	state.Result = result
	return nil
}

// FallbackStep extracts from the first attachment. It does nothing unless
// the primary step chose the fallback path.
type FallbackStep struct {
	Tables         TableReader
	Extractor      Extractor
	PreferredSheet string
}

func (s *FallbackStep) Name() string { return "fallback" }

func (s *FallbackStep) Execute(ctx context.Context, state *RunState) error {
	if state.Path != StateFallback {
		return nil
	}
	if len(state.Message.Attachments) == 0 {
		return &MissingAttachmentError{MessagePath: state.MessagePath}
	}

	attachment := state.Message.Attachments[0]
	table, err := s.Tables.ReadTable(attachment, s.PreferredSheet)
	if err != nil {
		return fmt.Errorf("read attachment %s: %w", attachment, err)
	}
	state.Table = table

	log := logger.FromContext(ctx)
	log.Info().
		Str("attachment", attachment).
		Str("sheet", table.Sheet).
		Int("rows", len(table.Rows)).
		Msg("attachment sheet decoded")

	grid, err := extract.SerializeGrid(table.Rows)
	if err != nil {
		return err
	}

	result, err := s.Extractor.Fallback(ctx, grid)
	if err != nil {
		return err
	}
	state.Result = result
	return nil
}

// PersistStep writes the accepted result to <OutputDir>/<message base>.json.
type PersistStep struct {
	OutputDir string
}

func (s *PersistStep) Name() string { return "persist" }

func (s *PersistStep) Execute(ctx context.Context, state *RunState) error {
	data, err := state.Result.MarshalIndent()
	if err != nil {
		return err
	}

	path := OutputPath(s.OutputDir, state.MessagePath)
	if err := WriteFileAtomic(path, data); err != nil {
		return err
	}
	state.OutputPath = path

	log := logger.FromContext(ctx)
	log.Debug().Str("output", path).Int("bytes", len(data)).Msg("result written")
	return nil
}
