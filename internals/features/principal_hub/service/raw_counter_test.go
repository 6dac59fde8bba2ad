package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/model"
)

var counterQueries = []string{
	"preschools", "students", "teachers", "classes",
	"enrollment_applications", "registration_requests", "child_registration_requests",
	"attendance", "progress_reports", "parent_payments", "pop_uploads",
	"interactive_activities", "homework_assignments", "receivables_snapshot",
}

func seededCounterSource(org uuid.UUID) *fakeSource {
	f := newFakeSource()
	f.org = model.Preschool{ID: org, Name: ptr("Little Acorns"), Capacity: ptr(80)}
	f.students = 60
	f.classes = 4
	f.teachers = []model.Teacher{
		{ID: uuid.New(), PreschoolID: &org, Email: "a@school.test"},
		{ID: uuid.New(), PreschoolID: ptr(uuid.New()), Email: "leak@other.test"},
	}
	f.applications = []model.EnrollmentApplication{
		{ApplicationFields: appFields("A", "One", nil, model.ApplicationPending), PreschoolID: &org},
	}
	f.attendance = model.AttendanceCount{Present: 9, Total: 10}
	f.pendingReports = 2
	f.pendingPayments = 3
	f.pendingPOPs = 1
	f.activityApprovals = 4
	f.homeworkApprovals = 5
	f.receivables = model.ReceivablesSnapshot{OrganizationID: org, CollectedAmount: dec("1500.25")}
	f.settledPayments = dec("999")
	return f
}

func newTestCounter(f *fakeSource) *RawCounter {
	c := NewRawCounter(f, zerolog.Nop())
	c.now = fixedClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	return c
}

func TestRawCounterHappyPath(t *testing.T) {
	org := uuid.New()
	f := seededCounterSource(org)

	got, err := newTestCounter(f).Count(context.Background(), org, "Display Name")
	require.NoError(t, err)

	assert.Equal(t, "Little Acorns", got.SchoolName)
	assert.Equal(t, 80, got.Capacity)
	assert.Equal(t, 60, got.Students)
	assert.Equal(t, 4, got.Classes)
	require.Len(t, got.Teachers, 1, "teacher of another organization is dropped")
	assert.Equal(t, "a@school.test", got.Teachers[0].Email)
	assert.Equal(t, 1, got.Applications.Pending)
	assert.Equal(t, 90, got.AttendanceRate)
	assert.Equal(t, 2, got.PendingReports)
	assert.Equal(t, 3, got.PendingPayments)
	assert.Equal(t, 1, got.PendingPOPUploads)
	assert.Equal(t, 4, got.PendingActivityApprovals)
	assert.Equal(t, 5, got.PendingHomeworkApprovals)
	assert.True(t, got.MonthlyRevenue.Equal(dec("1500.25")))
	assert.Equal(t, dto.RevenueFromSnapshot, got.RevenueSource)
	assert.Empty(t, got.Failures)
	assert.Equal(t, len(counterQueries), got.Queries)
	assert.Zero(t, f.called("payments_legacy_revenue"))
}

func TestRawCounterRevenueFallback(t *testing.T) {
	t.Run("snapshot threw", func(t *testing.T) {
		org := uuid.New()
		f := seededCounterSource(org).fail("receivables_snapshot", errors.New("view missing"))

		got, err := newTestCounter(f).Count(context.Background(), org, "")
		require.NoError(t, err)
		assert.True(t, got.MonthlyRevenue.Equal(dec("999")))
		assert.Equal(t, dto.RevenueFromPayments, got.RevenueSource)
		assert.Equal(t, 1, f.called("payments_legacy_revenue"))
		require.Len(t, got.Failures, 1)
		assert.Equal(t, "receivables_snapshot", got.Failures[0].Query)
	})

	t.Run("snapshot empty is not a failure", func(t *testing.T) {
		org := uuid.New()
		f := seededCounterSource(org)
		f.receivables = model.ReceivablesSnapshot{}

		got, err := newTestCounter(f).Count(context.Background(), org, "")
		require.NoError(t, err)
		assert.True(t, got.MonthlyRevenue.IsZero())
		assert.Equal(t, dto.RevenueFromSnapshot, got.RevenueSource)
		assert.Zero(t, f.called("payments_legacy_revenue"))
	})

	t.Run("both failed", func(t *testing.T) {
		org := uuid.New()
		f := seededCounterSource(org).
			fail("receivables_snapshot", errors.New("view missing")).
			fail("payments_legacy_revenue", errors.New("timeout"))

		got, err := newTestCounter(f).Count(context.Background(), org, "")
		require.NoError(t, err)
		assert.True(t, got.MonthlyRevenue.IsZero())
		assert.Equal(t, dto.RevenueUnavailable, got.RevenueSource)
		assert.Len(t, got.Failures, 2)
	})
}

func TestRawCounterDegradesSingleQuery(t *testing.T) {
	org := uuid.New()
	f := seededCounterSource(org).
		fail("students", errors.New("connection reset")).
		fail("child_registration_requests", &pgconn.PgError{Code: "42P01", Message: `relation "child_registration_requests" does not exist`})

	got, err := newTestCounter(f).Count(context.Background(), org, "")
	require.NoError(t, err)

	assert.Zero(t, got.Students)
	assert.Equal(t, 4, got.Classes, "other counters are unaffected")
	require.Len(t, got.Failures, 2)
	assert.Equal(t, "child_registration_requests", got.Failures[0].Query)
	assert.Contains(t, got.Failures[0].Message, "does not exist")
	assert.Equal(t, "students", got.Failures[1].Query)
}

func TestRawCounterAllQueriesFailed(t *testing.T) {
	org := uuid.New()
	f := seededCounterSource(org)
	down := errors.New("database is down")
	for _, q := range counterQueries {
		f.fail(q, down)
	}
	f.fail("payments_legacy_revenue", down)

	got, err := newTestCounter(f).Count(context.Background(), org, "")
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Len(t, got.Failures, len(counterQueries)+1)
}

func TestRawCounterCanceledContext(t *testing.T) {
	org := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCounter(seededCounterSource(org)).Count(ctx, org, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSchoolName(t *testing.T) {
	assert.Equal(t, "Sunrise", schoolName(model.Preschool{Name: ptr("  Sunrise ")}, "Other"))
	assert.Equal(t, "Other", schoolName(model.Preschool{Name: ptr(" ")}, " Other "))
	assert.Equal(t, "School", schoolName(model.Preschool{}, ""))
}
