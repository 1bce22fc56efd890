package presenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/craftfolio/server/pkg/extractor"
	"github.com/craftfolio/server/pkg/identity"
	"github.com/craftfolio/server/pkg/pipeline"
	"github.com/craftfolio/server/pkg/variant"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// FromError maps domain errors onto the HTTP error taxonomy. Unknown errors
// become an opaque 500; their detail belongs in the server log, not the body.
func FromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, variant.ErrValidation),
		errors.Is(err, pipeline.ErrFileRejected),
		errors.Is(err, pipeline.ErrBadState),
		errors.Is(err, extractor.ErrNoInput):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrUnauthorized):
		return Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, variant.ErrNotFound), errors.Is(err, identity.ErrNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, pipeline.ErrBusy):
		return Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, extractor.ErrProvider):
		return Error(c, http.StatusBadGateway, "resume parsing failed, please try again")
	default:
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}
