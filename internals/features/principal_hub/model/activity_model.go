package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityLog struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizationID *uuid.UUID     `gorm:"column:organization_id;type:uuid" json:"organization_id,omitempty"`
	ActivityType   string         `gorm:"column:activity_type" json:"activity_type"`
	Description    *string        `gorm:"column:description" json:"description,omitempty"`
	UserName       *string        `gorm:"column:user_name" json:"user_name,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

func (a ActivityLog) TenantID() uuid.UUID { return firstTenant(a.OrganizationID) }

// Approval queues counted on the dashboard.

type ProgressReport struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid"`
	Status      string     `gorm:"column:status"`
}

func (ProgressReport) TableName() string { return "progress_reports" }

type InteractiveActivity struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PreschoolID    *uuid.UUID `gorm:"column:preschool_id;type:uuid"`
	ApprovalStatus string     `gorm:"column:approval_status"`
}

func (InteractiveActivity) TableName() string { return "interactive_activities" }

type HomeworkAssignment struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PreschoolID    *uuid.UUID `gorm:"column:preschool_id;type:uuid"`
	ApprovalStatus string     `gorm:"column:approval_status"`
}

func (HomeworkAssignment) TableName() string { return "homework_assignments" }

const (
	ProgressReportPendingReview = "pending_review"
	ApprovalPending             = "pending"
)
