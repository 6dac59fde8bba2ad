package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"edudash_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App, allowedOrigins, timezone string, log zerolog.Logger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(logger.LoggerMiddleware(log, timezone))
	app.Use(CorsMiddleware(allowedOrigins))
	app.Use(GlobalRateLimiter())
}
