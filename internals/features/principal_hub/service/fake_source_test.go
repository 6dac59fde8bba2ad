package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"edudash_backend/internals/features/principal_hub/model"
	"edudash_backend/internals/features/principal_hub/repository"
)

var _ repository.Source = (*fakeSource)(nil)

// fakeSource serves canned rows. errs is keyed by query name and calls
// counts every method hit under the same name.
type fakeSource struct {
	mu    sync.Mutex
	errs  map[string]error
	calls map[string]int

	org                  model.Preschool
	students             int64
	teachers             []model.Teacher
	classes              int64
	applications         []model.EnrollmentApplication
	registrations        []model.RegistrationRequest
	childRegistrations   []model.ChildRegistrationRequest
	attendance           model.AttendanceCount
	pendingReports       int64
	pendingPayments      int64
	pendingPOPs          int64
	activityApprovals    int64
	homeworkApprovals    int64
	receivables          model.ReceivablesSnapshot
	settledPayments      decimal.Decimal
	overview             []model.TeacherOverview
	profilesByEmail      map[string]uuid.UUID
	classesByTeacher     map[uuid.UUID][]model.Class
	unassignedClasses    []model.Class
	assignedClasses      int64
	studentsByClass      map[uuid.UUID]int64
	attendanceByClass    map[uuid.UUID]model.AttendanceCount
	financeMonths        map[string]model.FinanceMonthSnapshot
	feeStructures        []model.SchoolFeeStructure
	legacyFeeStructures  []model.FeeStructure
	studentFees          []model.StudentFee
	payments             []model.Payment
	popUploads           []model.POPUpload
	activeStudents       []model.Student
	uniformRequests      []model.UniformRequest
	activity             []model.ActivityLog
	lastActivityLimit    int
	lastStudentFeeFilter []uuid.UUID
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		errs:              map[string]error{},
		calls:             map[string]int{},
		profilesByEmail:   map[string]uuid.UUID{},
		classesByTeacher:  map[uuid.UUID][]model.Class{},
		studentsByClass:   map[uuid.UUID]int64{},
		attendanceByClass: map[uuid.UUID]model.AttendanceCount{},
		financeMonths:     map[string]model.FinanceMonthSnapshot{},
	}
}

func (f *fakeSource) fail(name string, err error) *fakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
	return f
}

func (f *fakeSource) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeSource) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

/* ===================== COUNTER ===================== */

func (f *fakeSource) GetOrganization(_ context.Context, _ uuid.UUID) (model.Preschool, error) {
	if err := f.hit("preschools"); err != nil {
		return model.Preschool{}, err
	}
	return f.org, nil
}

func (f *fakeSource) CountActiveStudents(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("students"); err != nil {
		return 0, err
	}
	return f.students, nil
}

func (f *fakeSource) ListTeachers(_ context.Context, _ uuid.UUID) ([]model.Teacher, error) {
	if err := f.hit("teachers"); err != nil {
		return nil, err
	}
	return f.teachers, nil
}

func (f *fakeSource) CountActiveClasses(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("classes"); err != nil {
		return 0, err
	}
	return f.classes, nil
}

func (f *fakeSource) ListEnrollmentApplications(_ context.Context, _ uuid.UUID) ([]model.EnrollmentApplication, error) {
	if err := f.hit("enrollment_applications"); err != nil {
		return nil, err
	}
	return f.applications, nil
}

func (f *fakeSource) ListRegistrationRequests(_ context.Context, _ uuid.UUID) ([]model.RegistrationRequest, error) {
	if err := f.hit("registration_requests"); err != nil {
		return nil, err
	}
	return f.registrations, nil
}

func (f *fakeSource) ListChildRegistrationRequests(_ context.Context, _ uuid.UUID) ([]model.ChildRegistrationRequest, error) {
	if err := f.hit("child_registration_requests"); err != nil {
		return nil, err
	}
	return f.childRegistrations, nil
}

func (f *fakeSource) CountAttendance(_ context.Context, _ uuid.UUID, _ time.Time) (model.AttendanceCount, error) {
	if err := f.hit("attendance"); err != nil {
		return model.AttendanceCount{}, err
	}
	return f.attendance, nil
}

func (f *fakeSource) CountPendingProgressReports(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("progress_reports"); err != nil {
		return 0, err
	}
	return f.pendingReports, nil
}

func (f *fakeSource) CountPendingParentPayments(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("parent_payments"); err != nil {
		return 0, err
	}
	return f.pendingPayments, nil
}

func (f *fakeSource) CountPendingPOPUploads(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("pop_uploads"); err != nil {
		return 0, err
	}
	return f.pendingPOPs, nil
}

func (f *fakeSource) CountPendingActivityApprovals(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("interactive_activities"); err != nil {
		return 0, err
	}
	return f.activityApprovals, nil
}

func (f *fakeSource) CountPendingHomeworkApprovals(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("homework_assignments"); err != nil {
		return 0, err
	}
	return f.homeworkApprovals, nil
}

func (f *fakeSource) GetReceivablesSnapshot(_ context.Context, _ uuid.UUID, _ time.Time) (model.ReceivablesSnapshot, error) {
	if err := f.hit("receivables_snapshot"); err != nil {
		return model.ReceivablesSnapshot{}, err
	}
	return f.receivables, nil
}

func (f *fakeSource) SumSettledPayments(_ context.Context, _ uuid.UUID, _, _ time.Time) (decimal.Decimal, error) {
	if err := f.hit("payments_legacy_revenue"); err != nil {
		return decimal.Zero, err
	}
	return f.settledPayments, nil
}

/* ===================== TEACHERS ===================== */

func (f *fakeSource) ListTeacherOverview(_ context.Context, _ uuid.UUID) ([]model.TeacherOverview, error) {
	if err := f.hit("vw_teacher_overview"); err != nil {
		return nil, err
	}
	return f.overview, nil
}

func (f *fakeSource) FindProfileIDByEmail(_ context.Context, _ uuid.UUID, email string) (uuid.UUID, error) {
	if err := f.hit("profiles"); err != nil {
		return uuid.Nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profilesByEmail[email], nil
}

func (f *fakeSource) ListClassesByTeacher(_ context.Context, _ uuid.UUID, teacherID uuid.UUID) ([]model.Class, error) {
	if err := f.hit("classes_by_teacher"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classesByTeacher[teacherID], nil
}

func (f *fakeSource) ListUnassignedClasses(_ context.Context, _ uuid.UUID) ([]model.Class, error) {
	if err := f.hit("classes_unassigned"); err != nil {
		return nil, err
	}
	return f.unassignedClasses, nil
}

func (f *fakeSource) CountAssignedClasses(_ context.Context, _ uuid.UUID) (int64, error) {
	if err := f.hit("classes_assigned"); err != nil {
		return 0, err
	}
	return f.assignedClasses, nil
}

func (f *fakeSource) CountActiveStudentsInClasses(_ context.Context, _ uuid.UUID, classIDs []uuid.UUID) (int64, error) {
	if err := f.hit("students_in_classes"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range classIDs {
		n += f.studentsByClass[id]
	}
	return n, nil
}

func (f *fakeSource) CountAttendanceForClasses(_ context.Context, _ uuid.UUID, classIDs []uuid.UUID, _ time.Time) (model.AttendanceCount, error) {
	if err := f.hit("attendance_for_classes"); err != nil {
		return model.AttendanceCount{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out model.AttendanceCount
	for _, id := range classIDs {
		c := f.attendanceByClass[id]
		out.Present += c.Present
		out.Total += c.Total
	}
	return out, nil
}

/* ===================== FINANCE ===================== */

func (f *fakeSource) GetFinanceMonthSnapshot(_ context.Context, _ uuid.UUID, month string) (model.FinanceMonthSnapshot, error) {
	if err := f.hit("finance_snapshot:" + month); err != nil {
		return model.FinanceMonthSnapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.financeMonths[month], nil
}

/* ===================== UNIFORMS ===================== */

func (f *fakeSource) ListSchoolFeeStructures(_ context.Context, _ uuid.UUID) ([]model.SchoolFeeStructure, error) {
	if err := f.hit("school_fee_structures"); err != nil {
		return nil, err
	}
	return f.feeStructures, nil
}

func (f *fakeSource) ListLegacyFeeStructures(_ context.Context, _ uuid.UUID) ([]model.FeeStructure, error) {
	if err := f.hit("fee_structures"); err != nil {
		return nil, err
	}
	return f.legacyFeeStructures, nil
}

func (f *fakeSource) ListStudentFeesByStructures(_ context.Context, structureIDs []uuid.UUID) ([]model.StudentFee, error) {
	if err := f.hit("student_fees"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastStudentFeeFilter = append([]uuid.UUID(nil), structureIDs...)
	return f.studentFees, nil
}

func (f *fakeSource) ListPayments(_ context.Context, _ uuid.UUID) ([]model.Payment, error) {
	if err := f.hit("payments"); err != nil {
		return nil, err
	}
	return f.payments, nil
}

func (f *fakeSource) ListPOPUploads(_ context.Context, _ uuid.UUID, _ []model.POPStatus) ([]model.POPUpload, error) {
	if err := f.hit("pop_uploads_uniform"); err != nil {
		return nil, err
	}
	return f.popUploads, nil
}

func (f *fakeSource) ListActiveStudents(_ context.Context, _ uuid.UUID) ([]model.Student, error) {
	if err := f.hit("students_active"); err != nil {
		return nil, err
	}
	return f.activeStudents, nil
}

func (f *fakeSource) ListUniformRequests(_ context.Context, _ uuid.UUID) ([]model.UniformRequest, error) {
	if err := f.hit("uniform_requests"); err != nil {
		return nil, err
	}
	return f.uniformRequests, nil
}

/* ===================== ACTIVITY ===================== */

func (f *fakeSource) ListRecentActivity(_ context.Context, _ uuid.UUID, limit int) ([]model.ActivityLog, error) {
	if err := f.hit("activity_logs"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastActivityLimit = limit
	return f.activity, nil
}

/* ===================== HELPERS ===================== */

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
