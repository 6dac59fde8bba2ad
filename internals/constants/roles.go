package constants

import "fmt"

const (
	RoleParent     = "parent"
	RoleTeacher    = "teacher"
	RolePrincipal  = "principal"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

const ErrOnlyPrincipalsCanAccess = "❌ Only principals or admins may access %s."

func RoleErrorPrincipal(feature string) string {
	return fmt.Sprintf(ErrOnlyPrincipalsCanAccess, feature)
}

var (
	// Roles allowed to open a school's principal hub.
	PrincipalAndAbove = []string{
		RolePrincipal,
		RoleAdmin,
		RoleSuperAdmin,
	}

	// Roles that may target another organization via X-Active-Organization-ID.
	PlatformRoles = []string{
		RoleSuperAdmin,
	}
)
