package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/craftfolio/server/pkg/portfolio"
)

// Errors reported by the extraction use case.
var (
	// ErrNoInput means neither a binary payload nor raw text was supplied.
	ErrNoInput = errors.New("no resume input: provide a file payload or raw text")
	// ErrProvider wraps failures of the external model: call errors, timeouts,
	// unparseable output and schema violations.
	ErrProvider = errors.New("extraction provider failure")
)

// FilePayload is a resume document in transport encoding (base64).
type FilePayload struct {
	Data     string
	MimeType string
	Name     string
}

// Input is either a binary payload (PDF/image) or raw resume text.
type Input struct {
	Payload *FilePayload
	RawText string
}

const documentPrompt = "Parse the resume in this document/image into a structured professional portfolio JSON. Create an engaging professional summary based on the details. Categorize skills logically."

func textPrompt(content string) string {
	return fmt.Sprintf("Parse the following resume content into a structured professional portfolio JSON. Ensure the summary is engaging and the skills are well-categorized. Content: %s", content)
}

// Model abstracts a generative model constrained to emit portfolio JSON.
// It hides the concrete provider to preserve dependency direction.
type Model interface {
	FromDocument(ctx context.Context, data, mimeType string, prompt string) ([]byte, error)
	FromText(ctx context.Context, prompt string) ([]byte, error)
}

// Service turns a resume document or raw text into portfolio data. It is
// stateless and safe to call concurrently for different inputs.
type Service struct {
	model   Model
	timeout time.Duration
}

func NewService(model Model, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{model: model, timeout: timeout}
}

// Extract submits the input to the model with the portfolio schema constraint
// and returns the parsed result. The call is bounded by the service timeout;
// schema violations are terminal, not retried.
func (s *Service) Extract(ctx context.Context, in Input) (portfolio.Data, error) {
	hasPayload := in.Payload != nil && in.Payload.Data != ""
	hasText := strings.TrimSpace(in.RawText) != ""
	if !hasPayload && !hasText {
		return portfolio.Data{}, ErrNoInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var raw []byte
	var err error
	if hasPayload {
		raw, err = s.model.FromDocument(ctx, in.Payload.Data, in.Payload.MimeType, documentPrompt)
	} else {
		raw, err = s.model.FromText(ctx, textPrompt(in.RawText))
	}
	if err != nil {
		return portfolio.Data{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	data, err := portfolio.Parse(stripFences(raw))
	if err != nil {
		return portfolio.Data{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return data, nil
}

// stripFences removes a markdown code fence some models wrap around JSON
// despite the schema constraint.
func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}
