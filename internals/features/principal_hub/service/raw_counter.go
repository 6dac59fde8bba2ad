package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/model"
	"edudash_backend/internals/features/principal_hub/repository"
)

const attendanceWindow = 30 * 24 * time.Hour

// ErrSourceUnavailable means every query of a batch failed, which is treated
// as the database being down rather than an empty school.
var ErrSourceUnavailable = errors.New("principal hub: all dashboard queries failed")

// RawCounts is the Phase 1 result of the raw counter.
type RawCounts struct {
	SchoolName                string
	Capacity                  int
	Students                  int
	Teachers                  []model.Teacher
	Classes                   int
	Applications              ApplicationCounts
	AttendanceRate            int
	PendingReports            int
	PendingRegistrations      int
	PendingPayments           int
	PendingPOPUploads         int
	PendingActivityApprovals  int
	PendingHomeworkApprovals  int
	RegistrationFeesCollected decimal.Decimal
	MonthlyRevenue            decimal.Decimal
	RevenueSource             dto.RevenueSource

	Queries  int
	Failures []dto.QueryFailure
}

type RawCounter struct {
	src repository.CounterSource
	log zerolog.Logger
	now func() time.Time
}

func NewRawCounter(src repository.CounterSource, logger zerolog.Logger) *RawCounter {
	return &RawCounter{
		src: src,
		log: logger.With().Str("component", "principal_hub_raw_counter").Logger(),
		now: time.Now,
	}
}

// Count runs the whole batch concurrently. A failed query contributes zero and
// is reported in Failures; only a batch where every query failed is an error.
func (r *RawCounter) Count(ctx context.Context, orgID uuid.UUID, displayName string) (RawCounts, error) {
	now := r.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	fails := &failures{}
	b := newBatch(ctx, fails, r.log.With().Str("organization_id", orgID.String()).Logger())

	var (
		org                                  Result[model.Preschool]
		students, classes                    Result[int64]
		teachers                             Result[[]model.Teacher]
		canonical                            Result[[]model.EnrollmentApplication]
		web                                  Result[[]model.RegistrationRequest]
		inApp                                Result[[]model.ChildRegistrationRequest]
		attendance                           Result[model.AttendanceCount]
		reports, parentPayments, pops        Result[int64]
		activityApprovals, homeworkApprovals Result[int64]
		receivables                          Result[model.ReceivablesSnapshot]
	)

	goFetch(b, "preschools", &org, func(ctx context.Context) (model.Preschool, error) {
		return r.src.GetOrganization(ctx, orgID)
	}, nil)
	goFetch(b, "students", &students, func(ctx context.Context) (int64, error) {
		return r.src.CountActiveStudents(ctx, orgID)
	}, zeroCount)
	goFetch(b, "teachers", &teachers, func(ctx context.Context) ([]model.Teacher, error) {
		return r.src.ListTeachers(ctx, orgID)
	}, noRows[model.Teacher])
	goFetch(b, "classes", &classes, func(ctx context.Context) (int64, error) {
		return r.src.CountActiveClasses(ctx, orgID)
	}, zeroCount)
	goFetch(b, "enrollment_applications", &canonical, func(ctx context.Context) ([]model.EnrollmentApplication, error) {
		return r.src.ListEnrollmentApplications(ctx, orgID)
	}, noRows[model.EnrollmentApplication])
	goFetch(b, "registration_requests", &web, func(ctx context.Context) ([]model.RegistrationRequest, error) {
		return r.src.ListRegistrationRequests(ctx, orgID)
	}, noRows[model.RegistrationRequest])
	goFetch(b, "child_registration_requests", &inApp, func(ctx context.Context) ([]model.ChildRegistrationRequest, error) {
		return r.src.ListChildRegistrationRequests(ctx, orgID)
	}, noRows[model.ChildRegistrationRequest])
	goFetch(b, "attendance", &attendance, func(ctx context.Context) (model.AttendanceCount, error) {
		return r.src.CountAttendance(ctx, orgID, now.Add(-attendanceWindow))
	}, func(c model.AttendanceCount) bool { return c.Total == 0 })
	goFetch(b, "progress_reports", &reports, func(ctx context.Context) (int64, error) {
		return r.src.CountPendingProgressReports(ctx, orgID)
	}, zeroCount)
	goFetch(b, "parent_payments", &parentPayments, func(ctx context.Context) (int64, error) {
		return r.src.CountPendingParentPayments(ctx, orgID)
	}, zeroCount)
	goFetch(b, "pop_uploads", &pops, func(ctx context.Context) (int64, error) {
		return r.src.CountPendingPOPUploads(ctx, orgID)
	}, zeroCount)
	goFetch(b, "interactive_activities", &activityApprovals, func(ctx context.Context) (int64, error) {
		return r.src.CountPendingActivityApprovals(ctx, orgID)
	}, zeroCount)
	goFetch(b, "homework_assignments", &homeworkApprovals, func(ctx context.Context) (int64, error) {
		return r.src.CountPendingHomeworkApprovals(ctx, orgID)
	}, zeroCount)
	goFetch(b, "receivables_snapshot", &receivables, func(ctx context.Context) (model.ReceivablesSnapshot, error) {
		return r.src.GetReceivablesSnapshot(ctx, orgID, monthStart)
	}, nil)

	b.wait()
	queries := b.size

	out := RawCounts{
		SchoolName:               schoolName(org.Value, displayName),
		Students:                 int(students.Value),
		Classes:                  int(classes.Value),
		AttendanceRate:           ratePercent(attendance.Value.Present, attendance.Value.Total),
		PendingReports:           int(reports.Value),
		PendingPayments:          int(parentPayments.Value),
		PendingPOPUploads:        int(pops.Value),
		PendingActivityApprovals: int(activityApprovals.Value),
		PendingHomeworkApprovals: int(homeworkApprovals.Value),
	}
	if org.Value.Capacity != nil {
		out.Capacity = *org.Value.Capacity
	}

	for _, t := range teachers.Value {
		if model.BelongsTo(t, orgID) {
			out.Teachers = append(out.Teachers, t)
		}
	}

	apps := mergeApplications(orgID, canonical.Value, web.Value, inApp.Value)
	out.Applications = countApplications(apps)
	out.PendingRegistrations = pendingRegistrations(apps)
	out.RegistrationFeesCollected = registrationFeesCollected(apps)

	// Revenue falls back to the legacy payments sum only when the snapshot threw.
	switch {
	case !receivables.Failed():
		out.MonthlyRevenue = receivables.Value.CollectedAmount
		out.RevenueSource = dto.RevenueFromSnapshot
	default:
		queries++
		legacy := fetch(ctx, func(ctx context.Context) (decimal.Decimal, error) {
			return r.src.SumSettledPayments(ctx, orgID, monthStart, monthStart.AddDate(0, 1, 0))
		}, nil)
		if legacy.Failed() {
			fails.add("payments_legacy_revenue", legacy.Err)
			logQueryFailure(b.log, "payments_legacy_revenue", legacy.Err)
			out.RevenueSource = dto.RevenueUnavailable
		} else {
			out.MonthlyRevenue = legacy.Value
			out.RevenueSource = dto.RevenueFromPayments
		}
	}

	out.Queries = queries
	out.Failures = fails.sorted()

	r.log.Info().
		Str("organization_id", orgID.String()).
		Int("students", out.Students).
		Int("teachers", len(out.Teachers)).
		Int("classes", out.Classes).
		Int("applications", out.Applications.Total()).
		Int("attendance_rate", out.AttendanceRate).
		Str("monthly_revenue", out.MonthlyRevenue.StringFixed(2)).
		Str("revenue_source", string(out.RevenueSource)).
		Int("failed_queries", len(out.Failures)).
		Msg("📊 raw counts ready")

	if err := ctx.Err(); err != nil {
		return out, err
	}
	if len(out.Failures) == queries {
		return out, ErrSourceUnavailable
	}
	return out, nil
}

func schoolName(org model.Preschool, fallback string) string {
	if org.Name != nil {
		if n := strings.TrimSpace(*org.Name); n != "" {
			return n
		}
	}
	if n := strings.TrimSpace(fallback); n != "" {
		return n
	}
	return "School"
}
