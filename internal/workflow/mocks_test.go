package workflow_test

import (
	"context"

	"github.com/dvloznov/journal-extractor/internal/extract"
	"github.com/dvloznov/journal-extractor/internal/mailparse"
	"github.com/dvloznov/journal-extractor/internal/sheet"
)

// MockMessageDecoder is a mock implementation of workflow.MessageDecoder
type MockMessageDecoder struct {
	DecodeFunc func(path string) (*mailparse.Message, error)
	calls      int
}

func (m *MockMessageDecoder) Decode(path string) (*mailparse.Message, error) {
	m.calls++
	if m.DecodeFunc != nil {
		return m.DecodeFunc(path)
	}
	return &mailparse.Message{Path: path, Attachments: []string{}}, nil
}

// MockTableReader is a mock implementation of workflow.TableReader
type MockTableReader struct {
	ReadTableFunc func(path, preferred string) (*sheet.Table, error)
	calls         []string
}

func (m *MockTableReader) ReadTable(path, preferred string) (*sheet.Table, error) {
	m.calls = append(m.calls, path+"|"+preferred)
	if m.ReadTableFunc != nil {
		return m.ReadTableFunc(path, preferred)
	}
	return &sheet.Table{Sheet: preferred, Rows: [][]string{}}, nil
}

// MockExtractor is a mock implementation of workflow.Extractor
type MockExtractor struct {
	PrimaryFunc  func(ctx context.Context, subject, body string) (string, error)
	FallbackFunc func(ctx context.Context, grid string) (extract.Result, error)
}

func (m *MockExtractor) Primary(ctx context.Context, subject, body string) (string, error) {
	if m.PrimaryFunc != nil {
		return m.PrimaryFunc(ctx, subject, body)
	}
	return "[]", nil
}

func (m *MockExtractor) Fallback(ctx context.Context, grid string) (extract.Result, error) {
	if m.FallbackFunc != nil {
		return m.FallbackFunc(ctx, grid)
	}
	return extract.Result{}, nil
}
