package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftfolio/server/api/http/presenter"
	"github.com/craftfolio/server/pkg/extractor"
	"github.com/craftfolio/server/pkg/pipeline"
)

type ExtractHandler struct {
	extract pipeline.Extractor
	log     *zap.Logger
}

func NewExtractHandler(extract pipeline.Extractor, log *zap.Logger) *ExtractHandler {
	return &ExtractHandler{extract: extract, log: log}
}

// Extract runs the preview step: a resume file (or raw text) in, structured
// portfolio data out. Nothing is persisted; the client saves a preview it
// likes through POST /resumes.
// @Summary Extract portfolio preview from a resume
// @Tags    extract
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file false "resume file (PDF or image)"
// @Param   text formData string false "raw resume text"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /extract [post]
func (h *ExtractHandler) Extract(c *fiber.Ctx) error {
	fh, ferr := c.FormFile("file")
	rawText := strings.TrimSpace(c.FormValue("text"))

	if ferr != nil || fh == nil {
		if rawText == "" {
			return presenter.Error(c, http.StatusBadRequest, "provide a resume file or raw text")
		}
		data, err := h.extract.Extract(c.Context(), extractor.Input{RawText: rawText})
		if err != nil {
			h.log.Warn("text extraction failed", zap.Error(err))
			return presenter.FromError(c, err)
		}
		return presenter.JSON(c, http.StatusOK, fiber.Map{"portfolio": data})
	}

	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, pipeline.MaxFileSize)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	// A fresh single-request pipeline: the select and convert gates apply,
	// the save step happens later over POST /resumes.
	p := pipeline.New(uuid.Nil, h.extract, nil, h.log)
	if err := p.Select(pipeline.SelectedFile{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
	}); err != nil {
		return presenter.FromError(c, err)
	}
	preview, err := p.Convert(c.Context())
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"portfolio": preview,
		"filename":  fh.Filename,
		"sizeB":     len(data),
	})
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
