// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"edudash_backend/internals/configs"
	"edudash_backend/internals/features/principal_hub/service"
	authMiddleware "edudash_backend/internals/middlewares/auth"
	routeDetails "edudash_backend/internals/route/details"
)

var startTime time.Time

// Deps carries what route groups need from main.
type Deps struct {
	Config configs.AppConfig
	DB     *gorm.DB
	Hub    *service.Hub
	Logger zerolog.Logger
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()
	log := deps.Logger

	log.Info().Msg("Setting up BaseRoutes...")
	BaseRoutes(app, deps)

	// ===================== ADMIN (per school) =====================
	log.Info().Msg("Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              deps.Config.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	// ===================== MOUNT ROUTES =====================
	log.Info().Msg("Mounting Principal Hub routes...")
	routeDetails.PrincipalHubAdminRoutes(admin, deps.Hub, deps.Logger)
}
