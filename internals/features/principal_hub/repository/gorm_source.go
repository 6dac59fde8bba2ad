// internals/features/principal_hub/repository/gorm_source.go
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edudash_backend/internals/features/principal_hub/model"
)

// GormSource reads the principal hub tables through gorm. It never writes.
type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{DB: db}
}

var _ Source = (*GormSource)(nil)

func (r *GormSource) scoped(ctx context.Context, m interface{ TableName() string }, orgID uuid.UUID) *gorm.DB {
	return r.DB.WithContext(ctx).Model(m).Scopes(TenantScope(m.TableName(), orgID))
}

func (r *GormSource) count(ctx context.Context, m interface{ TableName() string }, orgID uuid.UUID, where string, args ...any) (int64, error) {
	var n int64
	q := r.scoped(ctx, m, orgID)
	if where != "" {
		q = q.Where(where, args...)
	}
	err := q.Count(&n).Error
	return n, err
}

/* ===================== RAW COUNTER ===================== */

func (r *GormSource) GetOrganization(ctx context.Context, orgID uuid.UUID) (model.Preschool, error) {
	var p model.Preschool
	err := r.DB.WithContext(ctx).
		Select("id", "name", "capacity").
		Where("id = ?", orgID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Preschool{ID: orgID}, nil
	}
	return p, err
}

func (r *GormSource) CountActiveStudents(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.Student{}, orgID, "is_active = ?", true)
}

func (r *GormSource) ListTeachers(ctx context.Context, orgID uuid.UUID) ([]model.Teacher, error) {
	var rows []model.Teacher
	err := r.scoped(ctx, &model.Teacher{}, orgID).
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormSource) CountActiveClasses(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.Class{}, orgID, "is_active = ?", true)
}

func (r *GormSource) ListEnrollmentApplications(ctx context.Context, orgID uuid.UUID) ([]model.EnrollmentApplication, error) {
	var rows []model.EnrollmentApplication
	err := r.scoped(ctx, &model.EnrollmentApplication{}, orgID).Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListRegistrationRequests(ctx context.Context, orgID uuid.UUID) ([]model.RegistrationRequest, error) {
	var rows []model.RegistrationRequest
	err := r.scoped(ctx, &model.RegistrationRequest{}, orgID).Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListChildRegistrationRequests(ctx context.Context, orgID uuid.UUID) ([]model.ChildRegistrationRequest, error) {
	var rows []model.ChildRegistrationRequest
	err := r.scoped(ctx, &model.ChildRegistrationRequest{}, orgID).Find(&rows).Error
	return rows, err
}

func (r *GormSource) CountAttendance(ctx context.Context, orgID uuid.UUID, since time.Time) (model.AttendanceCount, error) {
	where, args := TenantOf("attendance").Filter("a", orgID)
	args = append([]any{model.AttendedStatuses}, args...)
	args = append(args, since)

	var out model.AttendanceCount
	err := r.DB.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE a.status IN ?) AS present,
			COUNT(*) AS total
		FROM attendance a
		WHERE `+where+`
		  AND a.attendance_date >= ?
	`, args...).Scan(&out).Error
	return out, err
}

func (r *GormSource) CountPendingProgressReports(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.ProgressReport{}, orgID, "status = ?", model.ProgressReportPendingReview)
}

func (r *GormSource) CountPendingParentPayments(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.ParentPayment{}, orgID, "status = ?", "pending")
}

func (r *GormSource) CountPendingPOPUploads(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.POPUpload{}, orgID, "status = ?", model.POPStatusPending)
}

func (r *GormSource) CountPendingActivityApprovals(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.InteractiveActivity{}, orgID, "approval_status = ?", model.ApprovalPending)
}

func (r *GormSource) CountPendingHomeworkApprovals(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.HomeworkAssignment{}, orgID, "approval_status = ?", model.ApprovalPending)
}

func (r *GormSource) GetReceivablesSnapshot(ctx context.Context, orgID uuid.UUID, month time.Time) (model.ReceivablesSnapshot, error) {
	var rows []model.ReceivablesSnapshot
	err := r.scoped(ctx, &model.ReceivablesSnapshot{}, orgID).
		Where("billing_month = ?", month.Format("2006-01-02")).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return model.ReceivablesSnapshot{OrganizationID: orgID, BillingMonth: month}, err
	}
	return rows[0], nil
}

func (r *GormSource) SumSettledPayments(ctx context.Context, orgID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.scoped(ctx, &model.Payment{}, orgID).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status IN ?", []model.PaymentStatus{model.PaymentStatusCompleted, model.PaymentStatusApproved}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	return row.Total, err
}

/* ===================== TEACHERS ===================== */

func (r *GormSource) ListTeacherOverview(ctx context.Context, orgID uuid.UUID) ([]model.TeacherOverview, error) {
	var rows []model.TeacherOverview
	err := r.scoped(ctx, &model.TeacherOverview{}, orgID).Find(&rows).Error
	return rows, err
}

func (r *GormSource) FindProfileIDByEmail(ctx context.Context, orgID uuid.UUID, email string) (uuid.UUID, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return uuid.Nil, nil
	}
	var p model.Profile
	err := r.scoped(ctx, &model.Profile{}, orgID).
		Select("id").
		Where("LOWER(email) = LOWER(?)", email).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	return p.ID, err
}

func (r *GormSource) ListClassesByTeacher(ctx context.Context, orgID, teacherID uuid.UUID) ([]model.Class, error) {
	var rows []model.Class
	err := r.scoped(ctx, &model.Class{}, orgID).
		Where("teacher_id = ? AND is_active = ?", teacherID, true).
		Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListUnassignedClasses(ctx context.Context, orgID uuid.UUID) ([]model.Class, error) {
	var rows []model.Class
	err := r.scoped(ctx, &model.Class{}, orgID).
		Where("teacher_id IS NULL AND is_active = ?", true).
		Find(&rows).Error
	return rows, err
}

func (r *GormSource) CountAssignedClasses(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.Class{}, orgID, "teacher_id IS NOT NULL AND is_active = ?", true)
}

func (r *GormSource) CountActiveStudentsInClasses(ctx context.Context, orgID uuid.UUID, classIDs []uuid.UUID) (int64, error) {
	if len(classIDs) == 0 {
		return 0, nil
	}
	return r.count(ctx, &model.Student{}, orgID, "class_id IN ? AND is_active = ?", classIDs, true)
}

func (r *GormSource) CountAttendanceForClasses(ctx context.Context, orgID uuid.UUID, classIDs []uuid.UUID, since time.Time) (model.AttendanceCount, error) {
	var out model.AttendanceCount
	if len(classIDs) == 0 {
		return out, nil
	}
	where, args := TenantOf("attendance").Filter("a", orgID)
	args = append([]any{model.AttendedStatuses}, args...)
	args = append(args, classIDs, since)

	err := r.DB.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE a.status IN ?) AS present,
			COUNT(*) AS total
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE `+where+`
		  AND s.class_id IN ?
		  AND a.attendance_date >= ?
	`, args...).Scan(&out).Error
	return out, err
}

/* ===================== FINANCE ===================== */

func (r *GormSource) GetFinanceMonthSnapshot(ctx context.Context, orgID uuid.UUID, month string) (model.FinanceMonthSnapshot, error) {
	var rows []model.FinanceMonthSnapshot
	err := r.DB.WithContext(ctx).Raw(`
		SELECT
			COALESCE(collected_amount, 0) AS collected_amount,
			COALESCE(expenses, 0)         AS expenses
		FROM get_finance_month_snapshot(?, ?::date)
	`, orgID, month).Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return model.FinanceMonthSnapshot{}, err
	}
	return rows[0], nil
}

/* ===================== UNIFORMS ===================== */

func (r *GormSource) ListSchoolFeeStructures(ctx context.Context, orgID uuid.UUID) ([]model.SchoolFeeStructure, error) {
	var rows []model.SchoolFeeStructure
	err := r.scoped(ctx, &model.SchoolFeeStructure{}, orgID).Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListLegacyFeeStructures(ctx context.Context, orgID uuid.UUID) ([]model.FeeStructure, error) {
	var rows []model.FeeStructure
	err := r.scoped(ctx, &model.FeeStructure{}, orgID).Find(&rows).Error
	return rows, err
}

// student_fees has no tenant column; the structure ids are already tenant scoped.
func (r *GormSource) ListStudentFeesByStructures(ctx context.Context, structureIDs []uuid.UUID) ([]model.StudentFee, error) {
	if len(structureIDs) == 0 {
		return nil, nil
	}
	var rows []model.StudentFee
	err := r.DB.WithContext(ctx).
		Where("fee_structure_id IN ?", structureIDs).
		Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListPayments(ctx context.Context, orgID uuid.UUID) ([]model.Payment, error) {
	var rows []model.Payment
	err := r.scoped(ctx, &model.Payment{}, orgID).
		Where("status IN ?", []model.PaymentStatus{
			model.PaymentStatusPending, model.PaymentStatusCompleted, model.PaymentStatusApproved,
		}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListPOPUploads(ctx context.Context, orgID uuid.UUID, statuses []model.POPStatus) ([]model.POPUpload, error) {
	var rows []model.POPUpload
	q := r.scoped(ctx, &model.POPUpload{}, orgID).
		Where("upload_type = ?", model.POPUploadTypeProofOfPayment)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListActiveStudents(ctx context.Context, orgID uuid.UUID) ([]model.Student, error) {
	var rows []model.Student
	err := r.scoped(ctx, &model.Student{}, orgID).
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormSource) ListUniformRequests(ctx context.Context, orgID uuid.UUID) ([]model.UniformRequest, error) {
	var rows []model.UniformRequest
	err := r.scoped(ctx, &model.UniformRequest{}, orgID).Find(&rows).Error
	return rows, err
}

/* ===================== ACTIVITY ===================== */

func (r *GormSource) ListRecentActivity(ctx context.Context, orgID uuid.UUID, limit int) ([]model.ActivityLog, error) {
	var rows []model.ActivityLog
	err := r.scoped(ctx, &model.ActivityLog{}, orgID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
