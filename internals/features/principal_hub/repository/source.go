package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"edudash_backend/internals/features/principal_hub/model"
)

// CounterSource backs the raw counter batch.
type CounterSource interface {
	GetOrganization(ctx context.Context, orgID uuid.UUID) (model.Preschool, error)
	CountActiveStudents(ctx context.Context, orgID uuid.UUID) (int64, error)
	ListTeachers(ctx context.Context, orgID uuid.UUID) ([]model.Teacher, error)
	CountActiveClasses(ctx context.Context, orgID uuid.UUID) (int64, error)
	ListEnrollmentApplications(ctx context.Context, orgID uuid.UUID) ([]model.EnrollmentApplication, error)
	ListRegistrationRequests(ctx context.Context, orgID uuid.UUID) ([]model.RegistrationRequest, error)
	ListChildRegistrationRequests(ctx context.Context, orgID uuid.UUID) ([]model.ChildRegistrationRequest, error)
	CountAttendance(ctx context.Context, orgID uuid.UUID, since time.Time) (model.AttendanceCount, error)
	CountPendingProgressReports(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountPendingParentPayments(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountPendingPOPUploads(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountPendingActivityApprovals(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountPendingHomeworkApprovals(ctx context.Context, orgID uuid.UUID) (int64, error)
	GetReceivablesSnapshot(ctx context.Context, orgID uuid.UUID, month time.Time) (model.ReceivablesSnapshot, error)
	SumSettledPayments(ctx context.Context, orgID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// TeacherSource backs the teacher enricher.
type TeacherSource interface {
	ListTeacherOverview(ctx context.Context, orgID uuid.UUID) ([]model.TeacherOverview, error)
	FindProfileIDByEmail(ctx context.Context, orgID uuid.UUID, email string) (uuid.UUID, error)
	ListClassesByTeacher(ctx context.Context, orgID, teacherID uuid.UUID) ([]model.Class, error)
	ListUnassignedClasses(ctx context.Context, orgID uuid.UUID) ([]model.Class, error)
	CountAssignedClasses(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountActiveStudentsInClasses(ctx context.Context, orgID uuid.UUID, classIDs []uuid.UUID) (int64, error)
	CountAttendanceForClasses(ctx context.Context, orgID uuid.UUID, classIDs []uuid.UUID, since time.Time) (model.AttendanceCount, error)
}

// FinanceSource backs the financial snapshotter.
type FinanceSource interface {
	GetFinanceMonthSnapshot(ctx context.Context, orgID uuid.UUID, month string) (model.FinanceMonthSnapshot, error)
}

// UniformSource backs the uniform/fee summarizer.
type UniformSource interface {
	ListSchoolFeeStructures(ctx context.Context, orgID uuid.UUID) ([]model.SchoolFeeStructure, error)
	ListLegacyFeeStructures(ctx context.Context, orgID uuid.UUID) ([]model.FeeStructure, error)
	ListStudentFeesByStructures(ctx context.Context, structureIDs []uuid.UUID) ([]model.StudentFee, error)
	ListPayments(ctx context.Context, orgID uuid.UUID) ([]model.Payment, error)
	ListPOPUploads(ctx context.Context, orgID uuid.UUID, statuses []model.POPStatus) ([]model.POPUpload, error)
	ListActiveStudents(ctx context.Context, orgID uuid.UUID) ([]model.Student, error)
	ListUniformRequests(ctx context.Context, orgID uuid.UUID) ([]model.UniformRequest, error)
}

// ActivitySource backs the activity fetcher.
type ActivitySource interface {
	ListRecentActivity(ctx context.Context, orgID uuid.UUID, limit int) ([]model.ActivityLog, error)
}

// Source is everything the principal hub reads.
type Source interface {
	CounterSource
	TeacherSource
	FinanceSource
	UniformSource
	ActivitySource
}
