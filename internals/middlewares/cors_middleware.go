// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8081",
	"https://app.edudashpro.org.za",
}

// CorsMiddleware builds the CORS middleware; extra origins come from ALLOWED_ORIGINS.
func CorsMiddleware(extraOrigins string) fiber.Handler {
	origins := append([]string{}, defaultAllowedOrigins...)
	for _, o := range strings.Split(extraOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Active-Organization-ID, X-Request-ID",
		AllowCredentials: true,
	})
}
