package model

import (
	"strings"

	"github.com/google/uuid"
)

// =========================================================
// ENUM: student status
// =========================================================

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusPending  StudentStatus = "pending"
	StudentStatusInactive StudentStatus = "inactive"
)

// =========================================================
// preschools
// =========================================================

type Preschool struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name     *string   `gorm:"column:name" json:"name,omitempty"`
	Capacity *int      `gorm:"column:capacity" json:"capacity,omitempty"`
}

func (Preschool) TableName() string { return "preschools" }

// =========================================================
// students (preschool_id OR organization_id)
// =========================================================

type Student struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID    *uuid.UUID    `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	OrganizationID *uuid.UUID    `gorm:"column:organization_id;type:uuid" json:"organization_id,omitempty"`
	ClassID        *uuid.UUID    `gorm:"column:class_id;type:uuid" json:"class_id,omitempty"`
	FirstName      string        `gorm:"column:first_name" json:"first_name"`
	LastName       string        `gorm:"column:last_name" json:"last_name"`
	IsActive       bool          `gorm:"column:is_active" json:"is_active"`
	Status         StudentStatus `gorm:"column:status" json:"status"`
}

func (Student) TableName() string { return "students" }

func (s Student) TenantID() uuid.UUID { return firstTenant(s.OrganizationID, s.PreschoolID) }

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// =========================================================
// teachers
// =========================================================

type Teacher struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	UserID      *uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`
	Email       string     `gorm:"column:email" json:"email"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
}

func (Teacher) TableName() string { return "teachers" }

func (t Teacher) TenantID() uuid.UUID { return firstTenant(t.PreschoolID) }

func (t Teacher) FullName() string {
	if n := strings.TrimSpace(t.FirstName + " " + t.LastName); n != "" {
		return n
	}
	return t.Email
}

// =========================================================
// classes (teacher_id nullable = unassigned)
// =========================================================

type Class struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	TeacherID   *uuid.UUID `gorm:"column:teacher_id;type:uuid" json:"teacher_id,omitempty"`
	Name        string     `gorm:"column:name" json:"name"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
}

func (Class) TableName() string { return "classes" }

func (c Class) TenantID() uuid.UUID { return firstTenant(c.PreschoolID) }

// =========================================================
// profiles (identity fallback by email)
// =========================================================

type Profile struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email          string     `gorm:"column:email" json:"email"`
	PreschoolID    *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	OrganizationID *uuid.UUID `gorm:"column:organization_id;type:uuid" json:"organization_id,omitempty"`
}

func (Profile) TableName() string { return "profiles" }

// =========================================================
// vw_teacher_overview (precomputed, keyed by email)
// =========================================================

type TeacherOverview struct {
	Email        string     `gorm:"column:email" json:"email"`
	PreschoolID  *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	ClassCount   int        `gorm:"column:class_count" json:"class_count"`
	StudentCount int        `gorm:"column:student_count" json:"student_count"`
	ClassesText  *string    `gorm:"column:classes_text" json:"classes_text,omitempty"`
}

func (TeacherOverview) TableName() string { return "vw_teacher_overview" }

func (o TeacherOverview) TenantID() uuid.UUID { return firstTenant(o.PreschoolID) }
