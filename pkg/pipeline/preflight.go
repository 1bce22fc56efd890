package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	pdf "github.com/ledongthuc/pdf"
)

var pdfPreflight = preflightPDF

// preflightPDF rejects unreadable PDFs locally so a corrupt upload fails as
// a validation error instead of burning a model call. The parser panics on
// some malformed inputs, so recover folds those into the same error.
func preflightPDF(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unreadable pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unreadable pdf: %v", err)
	}
	if r.NumPage() == 0 {
		return errors.New("pdf has no pages")
	}
	return nil
}
