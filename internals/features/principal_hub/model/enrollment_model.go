package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationApproved   ApplicationStatus = "approved"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationWaitlisted ApplicationStatus = "waitlisted"
)

// ApplicationSource names the table an application row came from.
type ApplicationSource string

const (
	SourceEnrollmentApplications    ApplicationSource = "enrollment_applications"
	SourceRegistrationRequests      ApplicationSource = "registration_requests"
	SourceChildRegistrationRequests ApplicationSource = "child_registration_requests"
)

// ApplicationFields is shared by the canonical table and both legacy registration tables.
type ApplicationFields struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Status                ApplicationStatus   `gorm:"column:status" json:"status"`
	ChildFirstName        string              `gorm:"column:child_first_name" json:"child_first_name"`
	ChildLastName         string              `gorm:"column:child_last_name" json:"child_last_name"`
	ChildBirthDate        *time.Time          `gorm:"column:child_birth_date;type:date" json:"child_birth_date,omitempty"`
	RegistrationFeeAmount decimal.NullDecimal `gorm:"column:registration_fee_amount" json:"registration_fee_amount"`
	RegistrationFeePaid   bool                `gorm:"column:registration_fee_paid" json:"registration_fee_paid"`
	PaymentVerified       bool                `gorm:"column:payment_verified" json:"payment_verified"`
	CreatedAt             time.Time           `gorm:"column:created_at" json:"created_at"`
}

// Canonical table (preschool_id).
type EnrollmentApplication struct {
	ApplicationFields
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
}

func (EnrollmentApplication) TableName() string { return "enrollment_applications" }

func (a EnrollmentApplication) TenantID() uuid.UUID { return firstTenant(a.PreschoolID) }

// Legacy web registrations (organization_id).
type RegistrationRequest struct {
	ApplicationFields
	OrganizationID *uuid.UUID `gorm:"column:organization_id;type:uuid" json:"organization_id,omitempty"`
}

func (RegistrationRequest) TableName() string { return "registration_requests" }

func (r RegistrationRequest) TenantID() uuid.UUID { return firstTenant(r.OrganizationID) }

// Legacy in-app registrations (preschool_id).
type ChildRegistrationRequest struct {
	ApplicationFields
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
}

func (ChildRegistrationRequest) TableName() string { return "child_registration_requests" }

func (r ChildRegistrationRequest) TenantID() uuid.UUID { return firstTenant(r.PreschoolID) }

// Application is the table-independent view used after the fetch boundary.
type Application struct {
	ApplicationFields
	Source         ApplicationSource
	OrganizationID uuid.UUID
}
