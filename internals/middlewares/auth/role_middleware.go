package auth

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "edudash_backend/internals/helpers/auth"
)

// OnlyRoles lets the request through when any token role matches.
func OnlyRoles(customForbiddenMessage string, roles ...string) fiber.Handler {
	if customForbiddenMessage == "" {
		customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		if len(helperAuth.GetRolesFromToken(c)) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if helperAuth.HasRole(c, roles...) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, customForbiddenMessage)
	}
}
