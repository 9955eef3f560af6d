// Package extract builds journal-entry extraction prompts, calls the
// completion service and normalizes what comes back.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/journal-extractor/internal/completion"
	"github.com/dvloznov/journal-extractor/internal/logger"
)

// Extractor runs both extraction variants against one completer with fixed
// model and sampling settings.
type Extractor struct {
	completer   completion.Completer
	model       string
	temperature float32
}

// NewExtractor creates an Extractor.
func NewExtractor(c completion.Completer, model string, temperature float32) *Extractor {
	return &Extractor{
		completer:   c,
		model:       model,
		temperature: temperature,
	}
}

// Primary asks the model for entries found in an email subject and body.
// The answer is returned trimmed but not normalized, so the caller can look
// for NoEntriesMarker first.
func (e *Extractor) Primary(ctx context.Context, subject, body string) (string, error) {
	text, err := e.complete(ctx, "email", EmailInstructions, EmailPayload(subject, body))
	if err != nil {
		return "", fmt.Errorf("Primary: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Fallback asks the model for entries found in a serialized cell grid and
// returns the normalized answer.
func (e *Extractor) Fallback(ctx context.Context, grid string) (Result, error) {
	text, err := e.complete(ctx, "spreadsheet", SpreadsheetInstructions, SpreadsheetPayload(grid))
	if err != nil {
		return nil, fmt.Errorf("Fallback: %w", err)
	}

	result, err := Normalize(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("Fallback: %w", err)
	}
	return result, nil
}

func (e *Extractor) complete(ctx context.Context, variant, system, user string) (string, error) {
	log := logger.Component(logger.FromContext(ctx), "extract")
	log.Debug().
		Str("variant", variant).
		Str("model", e.model).
		Float32("temperature", e.temperature).
		Str("prompt_version", PromptVersion).
		Int("payload_bytes", len(user)).
		Msg("Sending extraction request")

	text, err := e.completer.Complete(ctx, completion.Request{
		Model:       e.model,
		Temperature: e.temperature,
		System:      system,
		User:        user,
	})
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("variant", variant).
		Int("response_bytes", len(text)).
		Msg("Extraction response received")
	return text, nil
}

// EmailPayload is the user message for the email variant.
func EmailPayload(subject, body string) string {
	return "Input JSON:\n\n" +
		"    Email subject: " + subject + "\n" +
		"    Email body: " + body + "\n" +
		"    "
}

// SpreadsheetPayload is the user message for the spreadsheet variant.
func SpreadsheetPayload(grid string) string {
	return "Input JSON:\n" + grid
}

// SerializeGrid encodes a cell grid as a JSON array of arrays of strings.
func SerializeGrid(grid [][]string) (string, error) {
	if grid == nil {
		grid = [][]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(grid); err != nil {
		return "", fmt.Errorf("SerializeGrid: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
