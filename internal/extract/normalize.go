package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrFormat matches every *FormatError.
var ErrFormat = errors.New("model output is not JSON")

// FormatError means the model output did not parse as JSON once fences were
// removed. Raw holds the text exactly as received.
type FormatError struct {
	Raw string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("failed to parse JSON: %v\nraw content:\n%s", e.Err, e.Raw)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFormat) match any FormatError.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// StripFences removes a leading ``` or ```json fence and a trailing ``` fence.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Normalize turns raw model output into a sequence. Arrays are returned
// element for element; any other value becomes a one-element sequence.
func Normalize(raw string) (Result, error) {
	clean := StripFences(raw)

	var parsed json.RawMessage
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, &FormatError{Raw: raw, Err: err}
	}

	if parsed[0] != '[' {
		return Result{parsed}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(parsed, &elems); err != nil {
		return nil, &FormatError{Raw: raw, Err: err}
	}
	if elems == nil {
		elems = []json.RawMessage{}
	}
	return Result(elems), nil
}

// keyOrder is the field order of the record definitions; unknown keys follow
// in the order the model wrote them.
var keyOrder = []string{"date", "Jnlidn", "description", "amount", "account", "type", "message"}

// MarshalIndent renders the result as a two-space indented JSON array with
// stable key order. Numbers are kept verbatim and HTML characters unescaped.
func (r Result) MarshalIndent() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, elem := range r {
		if i > 0 {
			compact.WriteByte(',')
		}
		if err := writeCanonical(&compact, elem); err != nil {
			return nil, fmt.Errorf("MarshalIndent: element %d: %w", i, err)
		}
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("MarshalIndent: indent: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, elem json.RawMessage) error {
	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return json.Compact(buf, trimmed)
	}

	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, fields); err != nil {
		return err
	}

	keys := make([]string, 0, fields.Len())
	for _, k := range keyOrder {
		if _, ok := fields.Get(k); ok {
			keys = append(keys, k)
		}
	}
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		if !isKnownKey(pair.Key) {
			keys = append(keys, pair.Key)
		}
	}

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		v, _ := fields.Get(k)
		if err := json.Compact(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	var kb bytes.Buffer
	enc := json.NewEncoder(&kb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(kb.Bytes(), "\n"))
	return nil
}

func isKnownKey(k string) bool {
	for _, known := range keyOrder {
		if k == known {
			return true
		}
	}
	return false
}
