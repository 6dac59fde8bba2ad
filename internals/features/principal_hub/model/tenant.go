package model

import "github.com/google/uuid"

// Tenanted rows expose the organization they were read for, so the service can
// re-check tenancy after the query.
type Tenanted interface {
	TenantID() uuid.UUID
}

// firstTenant returns the first non-nil id; rows of dual-column tables may
// carry only the legacy preschool_id or only organization_id.
func firstTenant(ids ...*uuid.UUID) uuid.UUID {
	for _, id := range ids {
		if id != nil && *id != uuid.Nil {
			return *id
		}
	}
	return uuid.Nil
}

// BelongsTo re-checks a row against the organization it was queried for.
// Rows without any tenant value are rejected.
func BelongsTo(row Tenanted, orgID uuid.UUID) bool {
	id := row.TenantID()
	return id != uuid.Nil && id == orgID
}
