package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	database "edudash_backend/internals/databases"
)

func BaseRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("EduDash principal hub API is running 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if deps.DB == nil || database.Ping(ctx) != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		hubEntries := 0
		if deps.Hub != nil {
			hubEntries = deps.Hub.Len()
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":            serverStatus,
			"database":          dbStatus,
			"principal_hub":     fiber.Map{"live_entries": hubEntries},
			"server_time":       time.Now().Format(time.RFC3339),
			"uptime_in_seconds": int64(time.Since(startTime).Seconds()),
		})
	})
}
