package completion

import (
	"context"
	"fmt"
	"sync"
)

// Scripted is a deterministic Completer that replays canned responses in
// order and records every request it receives.
type Scripted struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []Request
}

// NewScripted returns a Completer answering with responses in order.
func NewScripted(responses ...string) *Scripted {
	return &Scripted{responses: responses}
}

// FailWith makes call n (zero based) return err instead of a response.
func (s *Scripted) FailWith(n int, err error) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.errs) <= n {
		s.errs = append(s.errs, nil)
	}
	s.errs[n] = err
	return s
}

// Complete implements Completer.
func (s *Scripted) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.requests)
	s.requests = append(s.requests, req)

	if n < len(s.errs) && s.errs[n] != nil {
		return "", s.errs[n]
	}
	if n >= len(s.responses) {
		return "", fmt.Errorf("scripted completer: no response for call %d", n+1)
	}
	return s.responses[n], nil
}

// Requests returns a copy of the requests seen so far.
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

var _ Completer = (*Scripted)(nil)
