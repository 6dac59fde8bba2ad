package logger

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
)

// LoggerMiddleware writes one access line per request through zerolog.
func LoggerMiddleware(base zerolog.Logger, timezone string) fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat:    "2006-01-02 15:04:05",
		TimeZone:      timezone,
		DisableColors: true,
		Format:        "${ip} ${method} ${path} ${status} ${latency} ${locals:reqid}",
		Output:        accessWriter{log: base.With().Str("component", "http").Logger()},
	})
}

type accessWriter struct {
	log zerolog.Logger
}

func (w accessWriter) Write(p []byte) (int, error) {
	w.log.Info().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
