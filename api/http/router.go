package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/portfolio/api/http/handlers"
)

// Handlers groups everything Register wires onto the app.
type Handlers struct {
	Health    *handlers.HealthHandler
	Identity  *handlers.IdentityHandler
	Resume    *handlers.ResumeHandler
	Portfolio *handlers.PortfolioHandler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	v1.Post("/identities", h.Identity.Register)

	rg := v1.Group("/resume")
	rg.Post("/parse", h.Resume.Parse)
	rg.Post("/reanalyze", h.Resume.Reanalyze)

	pg := v1.Group("/portfolios")
	pg.Get("/by-email", h.Portfolio.GetByEmail)
	pg.Get("/by-email/resume", h.Portfolio.DownloadResume)
}
