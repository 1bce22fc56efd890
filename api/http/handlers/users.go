package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftfolio/server/api/http/presenter"
	"github.com/craftfolio/server/pkg/identity"
	"github.com/craftfolio/server/pkg/variant"
)

type UsersHandler struct {
	variants variant.UseCase
	users    identity.UserRepository
	log      *zap.Logger
}

func NewUsersHandler(variants variant.UseCase, users identity.UserRepository, log *zap.Logger) *UsersHandler {
	return &UsersHandler{variants: variants, users: users, log: log}
}

type selectDefaultRequest struct {
	SelectedResume string `json:"selectedResume"`
}

// SelectDefault points the user's public page at a variant. The owner is
// resolved from the verified token; the variant must exist and belong to
// that user.
// @Summary Select default resume variant
// @Tags    users
// @Accept  json
// @Produce json
// @Param   input body selectDefaultRequest true "variant pointer"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /users [put]
func (h *UsersHandler) SelectDefault(c *fiber.Ctx) error {
	var req selectDefaultRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.SelectedResume) == "" {
		return presenter.Error(c, http.StatusBadRequest, "selectedResume is required")
	}
	variantID, err := uuid.Parse(req.SelectedResume)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid selectedResume id")
	}
	user, err := currentUser(c, h.users)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if err := h.variants.SelectDefault(c.Context(), user.ID, variantID); err != nil {
		return presenter.FromError(c, err)
	}
	updated, err := h.users.GetByID(c.Context(), user.ID)
	if err != nil {
		h.log.Error("reload user after select failed", zap.String("user", user.ID.String()), zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to update user")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"user": updated})
}

// Me returns the mirrored record of the authenticated user.
// @Summary Current user
// @Tags    users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /users [get]
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"user": user})
}
