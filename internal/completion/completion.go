// Package completion wraps text-completion services behind a single
// capability: given a system instruction and a user payload, return text.
package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/journal-extractor/internal/config"
)

var (
	// ErrService matches every *ServiceError.
	ErrService = errors.New("completion service error")

	// ErrEmptyCompletion is the cause when the service answers without text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Request is one extraction request: fixed instructions plus a built payload.
type Request struct {
	Model       string
	Temperature float32
	System      string
	User        string
}

// Completer is the capability the extractors depend on.
// Implementations return the completion text untouched.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ServiceError reports a failed call or an unusable transport response.
type ServiceError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s completion (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrService) match any ServiceError.
func (e *ServiceError) Is(target error) bool { return target == ErrService }

// New builds the Completer for cfg.Provider. cfg must already be validated.
func New(ctx context.Context, cfg *config.Config) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.BaseURL), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("completion: unknown provider %q", cfg.Provider)
	}
}
