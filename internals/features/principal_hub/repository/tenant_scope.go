package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	colPreschoolID    = "preschool_id"
	colOrganizationID = "organization_id"
)

// Tables migrating from preschool_id to organization_id are matched on either
// column until the migration completes. Anything not listed uses preschool_id.
var tenantColumnsByTable = map[string]TenantColumns{
	"students":                        {colPreschoolID, colOrganizationID},
	"attendance":                      {colPreschoolID, colOrganizationID},
	"profiles":                        {colPreschoolID, colOrganizationID},
	"registration_requests":           {colOrganizationID},
	"activity_logs":                   {colOrganizationID},
	"vw_finance_receivables_snapshot": {colOrganizationID},
	"preschools":                      {"id"},
}

// TenantColumns lists the columns that may carry a row's organization id.
type TenantColumns []string

// TenantOf resolves the tenant columns of a table.
func TenantOf(table string) TenantColumns {
	if cols, ok := tenantColumnsByTable[table]; ok {
		return cols
	}
	return TenantColumns{colPreschoolID}
}

// Filter renders the tenant predicate, qualified by a table name or alias
// when qualifier is not empty.
func (tc TenantColumns) Filter(qualifier string, orgID uuid.UUID) (string, []any) {
	parts := make([]string, 0, len(tc))
	args := make([]any, 0, len(tc))
	for _, col := range tc {
		if qualifier != "" {
			col = qualifier + "." + col
		}
		parts = append(parts, col+" = ?")
		args = append(args, orgID)
	}
	if len(parts) == 1 {
		return parts[0], args
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// TenantScope is the gorm scope form of TenantOf(table).Filter(table, orgID).
func TenantScope(table string, orgID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		where, args := TenantOf(table).Filter(table, orgID)
		return db.Where(where, args...)
	}
}
