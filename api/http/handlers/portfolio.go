package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/craftfolio/server/api/http/presenter"
	"github.com/craftfolio/server/pkg/portfolio"
	"github.com/craftfolio/server/pkg/render"
	"github.com/craftfolio/server/pkg/variant"
)

type PortfolioHandler struct {
	variants variant.UseCase
	renderer *render.Renderer
	log      *zap.Logger
}

func NewPortfolioHandler(variants variant.UseCase, renderer *render.Renderer, log *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{variants: variants, renderer: renderer, log: log}
}

// Page renders the public portfolio page for a username. A user without a
// selected variant gets the placeholder page, not an error.
// @Summary Public portfolio page
// @Tags    portfolio
// @Produce html
// @Param   username path string true "public username"
// @Param   template query string false "template id"
// @Success 200 {string} string
// @Router  /p/{username} [get]
func (h *PortfolioHandler) Page(c *fiber.Ctx) error {
	username := c.Params("username")
	templateID := c.Query("template", render.DefaultTemplateID)

	v, err := h.variants.SelectedForUsername(c.Context(), username)
	if err != nil {
		h.log.Error("portfolio lookup failed", zap.String("username", username), zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to load portfolio")
	}

	var data *portfolio.Data
	if v != nil {
		var d portfolio.Data
		if err := json.Unmarshal(v.ParsedData, &d); err != nil {
			// Stored data that no longer decodes renders as empty, not a 500.
			h.log.Warn("stored portfolio does not decode", zap.String("variant", v.ID.String()), zap.Error(err))
		} else {
			data = &d
		}
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, data, templateID); err != nil {
		h.log.Error("render failed", zap.String("username", username), zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to render portfolio")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(http.StatusOK).Send(buf.Bytes())
}
