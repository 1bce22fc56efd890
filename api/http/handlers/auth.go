package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/craftfolio/server/api/http/presenter"
	"github.com/craftfolio/server/pkg/identity"
)

type AuthHandler struct {
	sync identity.SyncUseCase
	log  *zap.Logger
}

func NewAuthHandler(sync identity.SyncUseCase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{sync: sync, log: log}
}

type syncRequest struct {
	IdentityToken string `json:"identityToken"`
}

// Sync upserts the mirrored user for a verified identity-provider token.
// @Summary Sync identity provider account
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body syncRequest true "identity token"
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/sync [post]
func (h *AuthHandler) Sync(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.IdentityToken) == "" {
		return presenter.Error(c, http.StatusUnauthorized, "identityToken is required")
	}

	user, err := h.sync.Sync(c.Context(), req.IdentityToken)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthorized) {
			return presenter.Error(c, http.StatusUnauthorized, "invalid or expired identity token")
		}
		h.log.Error("auth sync failed", zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to sync user")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"user": user})
}
