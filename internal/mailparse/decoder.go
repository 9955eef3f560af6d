// Package mailparse decodes an RFC 5322 message file into the pieces the
// extractors need: subject, plain-text body and saved spreadsheet attachments.
package mailparse

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"
)

const (
	// AttachmentsDirName is created next to the message to hold saved attachments.
	AttachmentsDirName = "attachments"

	// SpreadsheetExt is the only attachment extension that is saved.
	SpreadsheetExt = ".xlsx"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("message not found")

	// ErrParse matches every *ParseError.
	ErrParse = errors.New("message unreadable")
)

// NotFoundError means the message file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("message %s not found: %v", e.Path, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParseError means the message could not be read or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse message %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Message is a decoded email.
type Message struct {
	Path    string
	Subject string
	From    string
	Date    string

	// Body is every text/plain part concatenated in document order, trimmed.
	Body string

	// Attachments are the saved spreadsheet paths in document order.
	Attachments []string

	// Warnings are recoverable problems the MIME parser reported.
	Warnings []string
}

// Decoder reads message files and saves their spreadsheet attachments.
type Decoder struct {
	attachmentsDir string
	ext            string
}

// NewDecoder returns a Decoder saving .xlsx attachments under "attachments".
func NewDecoder() *Decoder {
	return &Decoder{
		attachmentsDir: AttachmentsDirName,
		ext:            SpreadsheetExt,
	}
}

// Decode parses the message at path. Spreadsheet attachments are written to
// <dir of path>/attachments; every other attachment is ignored.
func (d *Decoder) Decode(path string) (*Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if env.Root == nil {
		return nil, &ParseError{Path: path, Err: errors.New("no MIME root part")}
	}

	msg := &Message{
		Path:    path,
		Subject: env.GetHeader("Subject"),
		From:    env.GetHeader("From"),
		Date:    env.GetHeader("Date"),
		Body:    plainTextBody(env.Root),
	}
	for _, perr := range env.Errors {
		msg.Warnings = append(msg.Warnings, perr.String())
	}

	saved, err := d.saveAttachments(env.Root, filepath.Join(filepath.Dir(path), d.attachmentsDir))
	if err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}
	msg.Attachments = saved

	return msg, nil
}

// plainTextBody concatenates text/plain parts; a single-part message uses its
// content whatever the type.
func plainTextBody(root *enmime.Part) string {
	if root.FirstChild == nil {
		return strings.TrimSpace(string(root.Content))
	}

	var b strings.Builder
	walk(root, func(p *enmime.Part) {
		if p.FirstChild == nil && strings.EqualFold(p.ContentType, "text/plain") {
			b.Write(p.Content)
		}
	})
	return strings.TrimSpace(b.String())
}

func (d *Decoder) saveAttachments(root *enmime.Part, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachments dir %s: %w", dir, err)
	}

	saved := []string{}
	var saveErr error
	walk(root, func(p *enmime.Part) {
		if saveErr != nil || p.FirstChild != nil || p.FileName == "" {
			return
		}
		name := filepath.Base(filepath.Clean("/" + p.FileName))
		if !strings.EqualFold(filepath.Ext(name), d.ext) {
			return
		}

		dest := filepath.Join(dir, name)
		if err := os.WriteFile(dest, p.Content, 0o644); err != nil {
			saveErr = fmt.Errorf("save attachment %s: %w", name, err)
			return
		}
		saved = append(saved, dest)
	})
	if saveErr != nil {
		return nil, saveErr
	}
	return saved, nil
}

// walk visits parts depth first in document order.
func walk(p *enmime.Part, visit func(*enmime.Part)) {
	for ; p != nil; p = p.NextSibling {
		visit(p)
		if p.FirstChild != nil {
			walk(p.FirstChild, visit)
		}
	}
}
