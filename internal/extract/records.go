package extract

import (
	"encoding/json"
	"fmt"
)

// NoEntriesMarker is the message the model returns when an email carries no
// journal entries.
const NoEntriesMarker = "NO_JOURNAL_ENTRY_IN_BODY"

// Entry types.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// JournalEntry is one debit or credit row extracted by the model.
// Jnlidn is only produced by the spreadsheet path.
type JournalEntry struct {
	Date        *string      `json:"date"`
	Jnlidn      *json.Number `json:"Jnlidn,omitempty"`
	Description *string      `json:"description"`
	Amount      json.Number  `json:"amount"`
	Account     string       `json:"account"`
	Type        string       `json:"type"`
}

// Sentinel is the single-object answer meaning no entries were found.
type Sentinel struct {
	Date    *string `json:"date"`
	Message string  `json:"message"`
}

// Result is a normalized model answer: always a sequence, each element kept
// byte-for-byte as the model produced it.
type Result []json.RawMessage

// Entries decodes every element as a JournalEntry. It does not validate
// values; it fails only when an element does not fit the record shape.
func (r Result) Entries() ([]JournalEntry, error) {
	entries := make([]JournalEntry, 0, len(r))
	for i, elem := range r {
		var e JournalEntry
		if err := json.Unmarshal(elem, &e); err != nil {
			return nil, fmt.Errorf("Entries: element %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Sentinel reports whether the result is exactly one no-entries object.
func (r Result) Sentinel() (*Sentinel, bool) {
	if len(r) != 1 {
		return nil, false
	}
	var s Sentinel
	if err := json.Unmarshal(r[0], &s); err != nil {
		return nil, false
	}
	if s.Message != NoEntriesMarker {
		return nil, false
	}
	return &s, true
}

// Tally counts debit and credit rows; rows of any other type are ignored.
func Tally(entries []JournalEntry) (debits, credits int) {
	for _, e := range entries {
		switch e.Type {
		case TypeDebit:
			debits++
		case TypeCredit:
			credits++
		}
	}
	return debits, credits
}
