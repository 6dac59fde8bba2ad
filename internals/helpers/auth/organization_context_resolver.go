// file: internals/helpers/auth/organization_context_resolver.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (AuthJWT sets these)
   ============================================ */

const (
	LocUserID         = "user_id"         // string
	LocOrganizationID = "organization_id" // string
	LocRoles          = "roles"           // []string
	LocEmail          = "email"           // string
	LocDisplayName    = "display_name"    // string
)

var (
	ErrUserMissing                  = fiber.NewError(fiber.StatusUnauthorized, "user_id not found in token")
	ErrOrganizationContextMissing   = fiber.NewError(fiber.StatusBadRequest, "Organization context not found. Provide X-Active-Organization-ID, ?organization_id, or an organization claim.")
	ErrOrganizationContextForbidden = fiber.NewError(fiber.StatusForbidden, "You do not have access to this organization.")
)

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// GetUserIDFromToken returns the authenticated user id set by AuthJWT.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw := localString(c, LocUserID)
	if raw == "" {
		return uuid.Nil, ErrUserMissing
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id in token is not a valid UUID")
	}
	return id, nil
}

// GetOrganizationIDFromToken returns the organization (preschool) claim, uuid.Nil if absent.
func GetOrganizationIDFromToken(c *fiber.Ctx) uuid.UUID {
	raw := localString(c, LocOrganizationID)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetDisplayNameFromToken returns the token's display name, "" if absent.
func GetDisplayNameFromToken(c *fiber.Ctx) string {
	return localString(c, LocDisplayName)
}

// GetRolesFromToken returns the lower-cased role list.
func GetRolesFromToken(c *fiber.Ctx) []string {
	roles, _ := c.Locals(LocRoles).([]string)
	return roles
}

func HasRole(c *fiber.Ctx, allowed ...string) bool {
	for _, r := range GetRolesFromToken(c) {
		for _, a := range allowed {
			if strings.EqualFold(r, a) {
				return true
			}
		}
	}
	return false
}

/*
	==========================================
	  Resolve context: header → query → token
	==========================================
*/

// ResolveOrganizationID picks the organization a request targets. Only a
// superadmin may target an organization different from the token claim.
func ResolveOrganizationID(c *fiber.Ctx, superRoles ...string) (uuid.UUID, error) {
	claim := GetOrganizationIDFromToken(c)

	requested := uuid.Nil
	if h := strings.TrimSpace(c.Get("X-Active-Organization-ID")); h != "" {
		if id, err := uuid.Parse(h); err == nil {
			requested = id
		}
	}
	if requested == uuid.Nil {
		if q := strings.TrimSpace(c.Query("organization_id")); q != "" {
			if id, err := uuid.Parse(q); err == nil {
				requested = id
			}
		}
	}

	switch {
	case requested == uuid.Nil && claim == uuid.Nil:
		return uuid.Nil, ErrOrganizationContextMissing
	case requested == uuid.Nil:
		return claim, nil
	case requested == claim:
		return claim, nil
	case len(superRoles) > 0 && HasRole(c, superRoles...):
		return requested, nil
	default:
		return uuid.Nil, ErrOrganizationContextForbidden
	}
}
