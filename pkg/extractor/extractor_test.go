package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const validPortfolioJSON = `{
	"fullName": "Jane Doe",
	"jobTitle": "Backend Engineer",
	"email": "jane@example.com",
	"summary": "Backend engineer focused on payment systems.",
	"skills": [{"category": "Languages", "items": ["Go"]}],
	"experience": [{"company": "Acme", "role": "Engineer", "period": "2021 - Present", "description": ["Built the billing pipeline."]}],
	"education": [{"institution": "TU Berlin", "degree": "BSc", "period": "2017 - 2021"}],
	"projects": [{"name": "ledgerd", "description": "Ledger service.", "technologies": ["Go"]}]
}`

type fakeModel struct {
	output []byte
	err    error

	docCalls  int
	textCalls int
	lastData  string
	lastMime  string
	lastText  string
}

func (m *fakeModel) FromDocument(ctx context.Context, data, mimeType, prompt string) ([]byte, error) {
	m.docCalls++
	m.lastData = data
	m.lastMime = mimeType
	return m.output, m.err
}

func (m *fakeModel) FromText(ctx context.Context, prompt string) ([]byte, error) {
	m.textCalls++
	m.lastText = prompt
	return m.output, m.err
}

func TestExtractNoInput(t *testing.T) {
	model := &fakeModel{output: []byte(validPortfolioJSON)}
	svc := NewService(model, time.Second)

	tests := []struct {
		name string
		in   Input
	}{
		{name: "empty input"},
		{name: "blank text", in: Input{RawText: "   \n"}},
		{name: "payload without data", in: Input{Payload: &FilePayload{MimeType: "application/pdf"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Extract(context.Background(), tt.in)
			if !errors.Is(err, ErrNoInput) {
				t.Fatalf("err = %v, want ErrNoInput", err)
			}
		})
	}
	if model.docCalls != 0 || model.textCalls != 0 {
		t.Fatalf("model was invoked %d/%d times for empty input", model.docCalls, model.textCalls)
	}
}

func TestExtractFromDocument(t *testing.T) {
	model := &fakeModel{output: []byte(validPortfolioJSON)}
	svc := NewService(model, time.Second)

	data, err := svc.Extract(context.Background(), Input{Payload: &FilePayload{
		Data:     "aGVsbG8=",
		MimeType: "application/pdf",
		Name:     "resume.pdf",
	}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if data.FullName != "Jane Doe" {
		t.Errorf("fullName = %q", data.FullName)
	}
	if model.docCalls != 1 || model.textCalls != 0 {
		t.Errorf("calls = %d/%d, want document path only", model.docCalls, model.textCalls)
	}
	if model.lastData != "aGVsbG8=" || model.lastMime != "application/pdf" {
		t.Errorf("payload forwarded wrong: %q %q", model.lastData, model.lastMime)
	}
}

func TestExtractFromText(t *testing.T) {
	model := &fakeModel{output: []byte(validPortfolioJSON)}
	svc := NewService(model, time.Second)

	if _, err := svc.Extract(context.Background(), Input{RawText: "Jane Doe, engineer at Acme"}); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if model.textCalls != 1 {
		t.Fatalf("textCalls = %d, want 1", model.textCalls)
	}
	if !strings.Contains(model.lastText, "Jane Doe, engineer at Acme") {
		t.Errorf("prompt does not embed the resume text: %q", model.lastText)
	}
}

func TestExtractProviderFailures(t *testing.T) {
	in := Input{RawText: "some resume"}

	tests := []struct {
		name   string
		output []byte
		err    error
	}{
		{name: "model call fails", err: errors.New("upstream 503")},
		{name: "output is not json", output: []byte("sorry, I cannot do that")},
		{name: "output misses required fields", output: []byte(`{"fullName": "Jane Doe"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeModel{output: tt.output, err: tt.err}, time.Second)
			_, err := svc.Extract(context.Background(), in)
			if !errors.Is(err, ErrProvider) {
				t.Fatalf("err = %v, want ErrProvider", err)
			}
		})
	}
}

func TestExtractStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validPortfolioJSON + "\n```"
	svc := NewService(&fakeModel{output: []byte(fenced)}, time.Second)

	data, err := svc.Extract(context.Background(), Input{RawText: "resume"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if data.Email != "jane@example.com" {
		t.Errorf("email = %q", data.Email)
	}
}
