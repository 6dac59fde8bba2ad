package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Statuses counted as attended when computing a rate.
var AttendedStatuses = []string{string(AttendancePresent), string(AttendanceLate)}

type Attendance struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StudentID      uuid.UUID        `gorm:"column:student_id;type:uuid" json:"student_id"`
	PreschoolID    *uuid.UUID       `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	OrganizationID *uuid.UUID       `gorm:"column:organization_id;type:uuid" json:"organization_id,omitempty"`
	AttendanceDate time.Time        `gorm:"column:attendance_date;type:date" json:"attendance_date"`
	Status         AttendanceStatus `gorm:"column:status" json:"status"`
}

func (Attendance) TableName() string { return "attendance" }

// AttendanceCount is the (attended, total) pair behind a rate.
type AttendanceCount struct {
	Present int64 `gorm:"column:present"`
	Total   int64 `gorm:"column:total"`
}
