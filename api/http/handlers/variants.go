package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftfolio/server/api/http/presenter"
	"github.com/craftfolio/server/pkg/identity"
	"github.com/craftfolio/server/pkg/security/session"
	"github.com/craftfolio/server/pkg/variant"
)

type VariantsHandler struct {
	variants variant.UseCase
	users    identity.UserRepository
	log      *zap.Logger
}

func NewVariantsHandler(variants variant.UseCase, users identity.UserRepository, log *zap.Logger) *VariantsHandler {
	return &VariantsHandler{variants: variants, users: users, log: log}
}

// currentUser resolves the mirrored user for the verified request identity.
func currentUser(c *fiber.Ctx, users identity.UserRepository) (identity.User, error) {
	ac, ok := session.FromCtx(c)
	if !ok {
		return identity.User{}, identity.ErrUnauthorized
	}
	return users.GetByExternalID(c.Context(), ac.ExternalID)
}

// List returns the authenticated user's variants, most recent first. The
// owner comes from the verified token, never from a query parameter.
// @Summary List resume variants
// @Tags    resumes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /resumes [get]
func (h *VariantsHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			// No mirror record yet means no variants yet.
			return presenter.JSON(c, http.StatusOK, fiber.Map{"resumes": []variant.Variant{}})
		}
		return presenter.FromError(c, err)
	}
	items, err := h.variants.ListByUser(c.Context(), user.ID)
	if err != nil {
		h.log.Error("list variants failed", zap.String("user", user.ID.String()), zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to list resumes")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"resumes": items})
}

type createVariantRequest struct {
	Name       string          `json:"name"`
	ParsedData json.RawMessage `json:"parsedData"`
}

// Create saves a confirmed preview as a named variant.
// @Summary Create resume variant
// @Tags    resumes
// @Accept  json
// @Produce json
// @Param   input body createVariantRequest true "variant payload"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes [post]
func (h *VariantsHandler) Create(c *fiber.Ctx) error {
	var req createVariantRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	user, err := currentUser(c, h.users)
	if err != nil {
		return presenter.FromError(c, err)
	}
	v, err := h.variants.Create(c.Context(), user.ID, req.Name, req.ParsedData)
	if err != nil {
		if errors.Is(err, variant.ErrValidation) {
			return presenter.FromError(c, err)
		}
		h.log.Error("create variant failed", zap.String("user", user.ID.String()), zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to save resume")
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"resume": v})
}

type renameVariantRequest struct {
	Name string `json:"name"`
}

// Rename updates a variant's label.
// @Summary Rename resume variant
// @Tags    resumes
// @Accept  json
// @Produce json
// @Param   id path string true "variant id (UUID)"
// @Param   input body renameVariantRequest true "new name"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [put]
func (h *VariantsHandler) Rename(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	var req renameVariantRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	user, err := currentUser(c, h.users)
	if err != nil {
		return presenter.FromError(c, err)
	}
	v, err := h.variants.Rename(c.Context(), user.ID, id, req.Name)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"resume": v})
}

type byUserRequest struct {
	UserID string `json:"userId"`
}

// ByUser returns the selected variant for a public user id (username).
// Used by unauthenticated public portfolio pages; absence is not an error.
// @Summary Selected variant by public user id
// @Tags    resumes
// @Accept  json
// @Produce json
// @Param   input body byUserRequest true "public user id"
// @Success 200 {object} map[string]any
// @Router  /resumes/by-user [post]
func (h *VariantsHandler) ByUser(c *fiber.Ctx) error {
	var req byUserRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	v, err := h.variants.SelectedForUsername(c.Context(), req.UserID)
	if err != nil {
		h.log.Error("public lookup failed", zap.String("userId", req.UserID), zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to fetch resume")
	}
	if v == nil {
		return presenter.JSON(c, http.StatusOK, fiber.Map{"resume": nil})
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"resume": v})
}
