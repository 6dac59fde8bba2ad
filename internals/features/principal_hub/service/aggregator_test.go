package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/model"
)

func TestAggregatorRunAssemblesAllPhases(t *testing.T) {
	org := uuid.New()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	f := seededCounterSource(org)
	f.financeMonths["2025-03-01"] = model.FinanceMonthSnapshot{CollectedAmount: dec("12000"), Expenses: dec("6000")}
	f.financeMonths["2025-02-01"] = model.FinanceMonthSnapshot{CollectedAmount: dec("10000")}
	f.fail("vw_teacher_overview", errors.New("view missing"))
	f.fail("payments", errors.New("timeout"))

	agg := NewAggregator(f, AggregatorOptions{TeacherWorkers: 2, Now: fixedClock(now)}, zerolog.Nop())
	d, err := agg.Run(context.Background(), Identity{UserID: uuid.New(), OrganizationID: org})
	require.NoError(t, err)

	assert.Equal(t, org, d.OrganizationID)
	assert.Equal(t, "Little Acorns", d.SchoolName)
	assert.Equal(t, now, d.GeneratedAt)

	assert.Equal(t, float64(60), d.Stats.Students.Total)
	assert.Equal(t, dto.TrendUp, d.Stats.Students.Trend)
	assert.Equal(t, dto.TrendUp, d.Stats.MonthlyRevenue.Trend, "growth of 20% feeds the revenue badge")
	assert.Equal(t, dto.RevenueFromSnapshot, d.RevenueSource)

	require.Len(t, d.Teachers, 1)
	assert.Equal(t, "a@school.test", d.Teachers[0].Email)

	assert.Equal(t, "2025-03-01", d.FinancialSummary.Month)
	assert.Equal(t, 20, d.FinancialSummary.RevenueGrowth)
	assert.Equal(t, 50, d.FinancialSummary.ProfitMargin)

	assert.Equal(t, 80, d.CapacityMetrics.Capacity)
	assert.Equal(t, dto.CapacityHigh, d.CapacityMetrics.Status)
	assert.Equal(t, 1, d.EnrollmentPipeline.Pending)

	assert.Equal(t, []string{"payments"}, d.UniformPayments.FailedSteps)
	require.Len(t, d.RecentActivities, 2)
	assert.True(t, d.RecentActivities[0].Synthetic)

	queries := make([]string, 0, len(d.DegradedQueries))
	for _, q := range d.DegradedQueries {
		queries = append(queries, q.Query)
	}
	assert.Equal(t, []string{"payments", "vw_teacher_overview"}, queries)
}

func TestAggregatorEmptySchool(t *testing.T) {
	org := uuid.New()
	f := newFakeSource()
	f.org = model.Preschool{ID: org, Name: ptr("New Sprouts"), Capacity: ptr(40)}

	agg := NewAggregator(f, AggregatorOptions{Now: fixedClock(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))}, zerolog.Nop())
	d, err := agg.Run(context.Background(), Identity{UserID: uuid.New(), OrganizationID: org})
	require.NoError(t, err)

	assert.Equal(t, dto.StatMetric{Total: 0, Trend: dto.TrendLow}, d.Stats.Students)
	assert.Equal(t, dto.TrendLow, d.Stats.Classes.Trend)
	assert.Zero(t, d.Stats.Staff.Total)
	assert.Empty(t, d.Teachers)
	assert.NotNil(t, d.Teachers)

	assert.Equal(t, dto.CapacityAvailable, d.CapacityMetrics.Status)
	assert.Equal(t, 40, d.CapacityMetrics.AvailableSpots)
	assert.Zero(t, d.CapacityMetrics.UtilizationPercentage)

	assert.Zero(t, d.EnrollmentPipeline.Total)
	assert.Zero(t, d.EnrollmentPipeline.Pending)
	assert.Empty(t, d.DegradedQueries)
}

func TestAggregatorStopsWhenSourceIsDown(t *testing.T) {
	org := uuid.New()
	f := seededCounterSource(org)
	down := errors.New("connection refused")
	for _, q := range counterQueries {
		f.fail(q, down)
	}
	f.fail("payments_legacy_revenue", down)

	agg := NewAggregator(f, AggregatorOptions{}, zerolog.Nop())
	_, err := agg.Run(context.Background(), Identity{UserID: uuid.New(), OrganizationID: org})

	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Zero(t, f.called("vw_teacher_overview"), "phase 2 never starts")
	assert.Zero(t, f.called("activity_logs"))
}

func TestAggregatorSetClockReachesComponents(t *testing.T) {
	agg := NewAggregator(newFakeSource(), AggregatorOptions{}, zerolog.Nop())
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	agg.SetClock(fixedClock(at))

	assert.Equal(t, at, agg.Counter.now())
	assert.Equal(t, at, agg.Teachers.now())
	assert.Equal(t, at, agg.Finance.now())
	assert.Equal(t, at, agg.Activity.now())
}
