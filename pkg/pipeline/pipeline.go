package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftfolio/server/pkg/extractor"
	"github.com/craftfolio/server/pkg/portfolio"
	"github.com/craftfolio/server/pkg/variant"
)

// State of the preview/save workflow.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateExtracting   State = "extracting"
	StatePreviewReady State = "preview_ready"
	StateSaving       State = "saving"
	StateSaved        State = "saved"
)

var (
	// ErrFileRejected means local validation refused the file; the extractor
	// was never invoked.
	ErrFileRejected = errors.New("file rejected")
	// ErrBusy means an extraction is already in flight; the new request is
	// ignored until the current one resolves.
	ErrBusy = errors.New("extraction in flight")
	// ErrBadState means the operation is not allowed in the current state.
	ErrBadState = errors.New("operation not allowed in current state")
)

// MaxFileSize is the upload limit applied before anything else runs.
const MaxFileSize = 10 << 20 // 10MB

var acceptedExts = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {},
}

// SelectedFile is an upload admitted past the allow-list gate.
type SelectedFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// Extractor is the slice of the extraction service the pipeline needs.
type Extractor interface {
	Extract(ctx context.Context, in extractor.Input) (portfolio.Data, error)
}

// Saver persists a confirmed preview as a named variant.
type Saver interface {
	Create(ctx context.Context, userID uuid.UUID, name string, parsedData json.RawMessage) (variant.Variant, error)
}

// Pipeline drives one upload widget's preview/save workflow. At most one
// extraction is in flight per instance; state transitions are serialized.
type Pipeline struct {
	mu      sync.Mutex
	state   State
	file    *SelectedFile
	preview *portfolio.Data
	lastErr string

	userID  uuid.UUID
	extract Extractor
	saver   Saver
	log     *zap.Logger
}

func New(userID uuid.UUID, ex Extractor, saver Saver, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{state: StateIdle, userID: userID, extract: ex, saver: saver, log: log}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Preview returns the transient, unpersisted extraction result, if any.
func (p *Pipeline) Preview() *portfolio.Data {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preview
}

func (p *Pipeline) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Select admits a file into the pipeline. Files outside the type allow-list
// or over the size limit are rejected locally and the state does not advance.
// Selections during an in-flight extraction are ignored.
func (p *Pipeline) Select(f SelectedFile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateExtracting || p.state == StateSaving {
		return ErrBusy
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	if _, ok := acceptedExts[ext]; !ok {
		p.lastErr = fmt.Sprintf("unsupported file type %q", ext)
		return fmt.Errorf("%w: %s", ErrFileRejected, p.lastErr)
	}
	if len(f.Data) == 0 {
		p.lastErr = "empty file"
		return fmt.Errorf("%w: empty file", ErrFileRejected)
	}
	if int64(len(f.Data)) > MaxFileSize {
		p.lastErr = fmt.Sprintf("file too large: limit is %d bytes", int64(MaxFileSize))
		return fmt.Errorf("%w: %s", ErrFileRejected, p.lastErr)
	}
	p.file = &f
	p.preview = nil
	p.lastErr = ""
	p.state = StateFileSelected
	return nil
}

// Convert hands the selected file to the extractor. Only PDF and image
// payloads reach the model; everything else is refused without a call.
// On failure the pipeline returns to FileSelected so the user can retry.
func (p *Pipeline) Convert(ctx context.Context) (portfolio.Data, error) {
	p.mu.Lock()
	if p.state == StateExtracting {
		p.mu.Unlock()
		return portfolio.Data{}, ErrBusy
	}
	if p.state != StateFileSelected || p.file == nil {
		p.mu.Unlock()
		return portfolio.Data{}, ErrBadState
	}
	f := *p.file
	if !convertibleMime(f.MimeType) {
		p.lastErr = fmt.Sprintf("unsupported format %q: only PDF and images can be parsed", f.MimeType)
		p.mu.Unlock()
		return portfolio.Data{}, fmt.Errorf("%w: %s", ErrFileRejected, p.lastErr)
	}
	if f.MimeType == "application/pdf" {
		if err := pdfPreflight(f.Data); err != nil {
			p.lastErr = err.Error()
			p.mu.Unlock()
			return portfolio.Data{}, fmt.Errorf("%w: %v", ErrFileRejected, err)
		}
	}
	p.state = StateExtracting
	p.mu.Unlock()

	in := extractor.Input{Payload: &extractor.FilePayload{
		Data:     base64.StdEncoding.EncodeToString(f.Data),
		MimeType: f.MimeType,
		Name:     f.Name,
	}}
	data, err := p.extract.Extract(ctx, in)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateFileSelected
		p.lastErr = err.Error()
		p.log.Warn("extraction failed", zap.String("file", f.Name), zap.Error(err))
		return portfolio.Data{}, err
	}
	p.preview = &data
	p.lastErr = ""
	p.state = StatePreviewReady
	return data, nil
}

// Save persists the preview under the supplied name. On store failure the
// preview is retained so a retry does not require re-extraction.
func (p *Pipeline) Save(ctx context.Context, name string) (variant.Variant, error) {
	p.mu.Lock()
	if p.state != StatePreviewReady || p.preview == nil {
		p.mu.Unlock()
		return variant.Variant{}, ErrBadState
	}
	if strings.TrimSpace(name) == "" {
		p.mu.Unlock()
		return variant.Variant{}, fmt.Errorf("%w: variant name is required", variant.ErrValidation)
	}
	parsed, err := json.Marshal(p.preview)
	if err != nil {
		p.mu.Unlock()
		return variant.Variant{}, err
	}
	p.state = StateSaving
	p.mu.Unlock()

	v, err := p.saver.Create(ctx, p.userID, name, parsed)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StatePreviewReady
		p.lastErr = err.Error()
		p.log.Error("variant save failed", zap.String("name", name), zap.Error(err))
		return variant.Variant{}, err
	}
	p.preview = nil
	p.file = nil
	p.lastErr = ""
	p.state = StateSaved
	return v, nil
}

// Cancel discards the selection and any preview without persisting.
func (p *Pipeline) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StateFileSelected, StatePreviewReady, StateSaved:
		p.file = nil
		p.preview = nil
		p.lastErr = ""
		p.state = StateIdle
		return nil
	case StateIdle:
		return nil
	default:
		return ErrBusy
	}
}

func convertibleMime(mime string) bool {
	return mime == "application/pdf" || strings.HasPrefix(mime, "image/")
}
