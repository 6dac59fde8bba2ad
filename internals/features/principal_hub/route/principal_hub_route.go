// internals/features/principal_hub/route/principal_hub_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"edudash_backend/internals/constants"
	"edudash_backend/internals/features/principal_hub/controller"
	"edudash_backend/internals/middlewares"
	authMiddleware "edudash_backend/internals/middlewares/auth"
)

// PrincipalHubAdminRoutes mounts the dashboard under an authenticated group.
func PrincipalHubAdminRoutes(router fiber.Router, hub controller.Hub, logger zerolog.Logger) {
	h := controller.NewPrincipalHubController(hub, logger)

	g := router.Group("/principal-hub",
		authMiddleware.OnlyRoles(constants.RoleErrorPrincipal("the principal hub"), constants.PrincipalAndAbove...),
	)
	{
		g.Get("/", h.GetDashboard)
		g.Get("/state", h.GetState)
		g.Get("/metrics", h.GetMetrics)
		g.Get("/teachers", h.GetTeachers)
		g.Post("/refresh", middlewares.RefreshRateLimiter(), h.Refresh)
		g.Delete("/", h.Release)
	}
}
