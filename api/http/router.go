package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/craftfolio/server/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	health *handlers.HealthHandler,
	variants *handlers.VariantsHandler,
	users *handlers.UsersHandler,
	extract *handlers.ExtractHandler,
	public *handlers.PortfolioHandler,
	authMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/sync", auth.Sync)

	// Public lookup used by unauthenticated portfolio pages; registered
	// before the protected /resumes group on purpose.
	v1.Post("/resumes/by-user", variants.ByUser)

	rg := v1.Group("/resumes", authMW)
	rg.Get("/", variants.List)
	rg.Post("/", variants.Create)
	rg.Put("/:id", variants.Rename)

	v1.Get("/users", authMW, users.Me)
	v1.Put("/users", authMW, users.SelectDefault)

	v1.Post("/extract", authMW, extract.Extract)

	// Public rendered portfolio page
	app.Get("/p/:username", public.Page)
}
