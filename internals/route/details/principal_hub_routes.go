// internals/route/details/principal_hub_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	PrincipalHubRoutes "edudash_backend/internals/features/principal_hub/route"
	"edudash_backend/internals/features/principal_hub/service"
)

/* ===================== ADMIN ===================== */
// Endpoint for principals / school admins (token + role guard)
func PrincipalHubAdminRoutes(r fiber.Router, hub *service.Hub, logger zerolog.Logger) {
	PrincipalHubRoutes.PrincipalHubAdminRoutes(r, hub, logger)
}
