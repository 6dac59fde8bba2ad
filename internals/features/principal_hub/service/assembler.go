package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"edudash_backend/internals/features/principal_hub/dto"
)

/* ===================== TREND CUTOFFS ===================== */

const (
	studentsUp     = 50
	studentsStable = 10

	staffUp     = 8
	staffStable = 3

	classesUp     = 10
	classesStable = 3

	pendingApplicationsHigh = 10
	pendingApplicationsUp   = 5

	revenueGrowthUp   = 5
	revenueGrowthDown = -5

	attendanceExcellent = 95
	attendanceGood      = 85

	pendingPaymentsHigh = 5
	pendingPaymentsUp   = 2

	popUploadsHigh = 3

	pendingReportsHigh = 5

	pendingRegistrationsHigh = 5
	pendingRegistrationsUp   = 2

	approvalsHigh = 5
)

const (
	capacityFullPercent = 90
	capacityHighPercent = 70
)

// Placeholder age split of total enrollment; not derived from birth dates.
const (
	ageBand2To3Percent = 30
	ageBand4To5Percent = 40
)

// growthTrend: > up → up, else > stable → stable, else low.
func growthTrend(v, up, stable int) dto.Trend {
	switch {
	case v > up:
		return dto.TrendUp
	case v > stable:
		return dto.TrendStable
	default:
		return dto.TrendLow
	}
}

// queueTrend: > high → high, else > up → up, else stable.
func queueTrend(v, high, up int) dto.Trend {
	switch {
	case v > high:
		return dto.TrendHigh
	case v > up:
		return dto.TrendUp
	default:
		return dto.TrendStable
	}
}

func revenueTrend(growth int) dto.Trend {
	switch {
	case growth > revenueGrowthUp:
		return dto.TrendUp
	case growth < revenueGrowthDown:
		return dto.TrendDown
	default:
		return dto.TrendStable
	}
}

func attendanceTrend(rate int) dto.Trend {
	switch {
	case rate >= attendanceExcellent:
		return dto.TrendExcellent
	case rate >= attendanceGood:
		return dto.TrendGood
	default:
		return dto.TrendAttention
	}
}

func metric(v int, t dto.Trend) dto.StatMetric {
	return dto.StatMetric{Total: float64(v), Trend: t}
}

/* ===================== BUILDERS ===================== */

// BuildSchoolStats pairs every counter with its trend badge.
func BuildSchoolStats(c RawCounts, revenueGrowth int) dto.SchoolStats {
	revenue, _ := c.MonthlyRevenue.Float64()
	fees, _ := c.RegistrationFeesCollected.Float64()

	return dto.SchoolStats{
		Students:                  metric(c.Students, growthTrend(c.Students, studentsUp, studentsStable)),
		Staff:                     metric(len(c.Teachers), growthTrend(len(c.Teachers), staffUp, staffStable)),
		Classes:                   metric(c.Classes, growthTrend(c.Classes, classesUp, classesStable)),
		PendingApplications:       metric(c.Applications.Pending, queueTrend(c.Applications.Pending, pendingApplicationsHigh, pendingApplicationsUp)),
		MonthlyRevenue:            dto.StatMetric{Total: revenue, Trend: revenueTrend(revenueGrowth)},
		AttendanceRate:            metric(c.AttendanceRate, attendanceTrend(c.AttendanceRate)),
		PendingReports:            metric(c.PendingReports, queueTrend(c.PendingReports, pendingReportsHigh, 0)),
		PendingRegistrations:      metric(c.PendingRegistrations, queueTrend(c.PendingRegistrations, pendingRegistrationsHigh, pendingRegistrationsUp)),
		PendingPayments:           metric(c.PendingPayments, queueTrend(c.PendingPayments, pendingPaymentsHigh, pendingPaymentsUp)),
		PendingPOPUploads:         metric(c.PendingPOPUploads, queueTrend(c.PendingPOPUploads, popUploadsHigh, 0)),
		PendingActivityApprovals:  metric(c.PendingActivityApprovals, queueTrend(c.PendingActivityApprovals, approvalsHigh, 0)),
		PendingHomeworkApprovals:  metric(c.PendingHomeworkApprovals, queueTrend(c.PendingHomeworkApprovals, approvalsHigh, 0)),
		RegistrationFeesCollected: dto.StatMetric{Total: fees, Trend: dto.TrendStable},
	}
}

// BuildCapacityMetrics derives utilization and status from raw counts.
func BuildCapacityMetrics(capacity, enrolled int) dto.CapacityMetrics {
	m := dto.CapacityMetrics{
		Capacity:              capacity,
		CurrentEnrollment:     enrolled,
		Status:                dto.CapacityAvailable,
		AgeBreakdownEstimated: true,
	}
	if capacity > 0 {
		m.AvailableSpots = capacity - enrolled
		if m.AvailableSpots < 0 {
			m.AvailableSpots = 0
		}
		m.UtilizationPercentage = ratePercent(int64(enrolled), int64(capacity))

		// Integer compare so exactly 90% is full.
		switch {
		case enrolled*100 >= capacity*capacityFullPercent:
			m.Status = dto.CapacityFull
		case enrolled*100 >= capacity*capacityHighPercent:
			m.Status = dto.CapacityHigh
		}
	}

	young := enrolled * ageBand2To3Percent / 100
	middle := enrolled * ageBand4To5Percent / 100
	m.EnrollmentByAge = dto.EnrollmentByAge{
		Age2To3: young,
		Age4To5: middle,
		Age6To7: enrolled - young - middle,
	}
	return m
}

func BuildEnrollmentPipeline(a ApplicationCounts) dto.EnrollmentPipeline {
	return dto.EnrollmentPipeline{
		Pending:    a.Pending,
		Approved:   a.Approved,
		Rejected:   a.Rejected,
		Waitlisted: a.Waitlisted,
		Total:      a.Total(),
	}
}

// Phases is everything the assembler combines.
type Phases struct {
	OrganizationID uuid.UUID
	Counts         RawCounts
	Uniforms       dto.UniformPaymentSummary
	Teachers       []dto.TeacherSummary
	Finance        dto.FinancialSummary
	Activity       []dto.ActivitySummary
	Failures       []dto.QueryFailure
	GeneratedAt    time.Time
}

// Assemble is Phase 3. It performs no I/O.
func Assemble(p Phases) dto.DashboardData {
	teachers := p.Teachers
	if teachers == nil {
		teachers = []dto.TeacherSummary{}
	}
	activity := p.Activity
	if activity == nil {
		activity = []dto.ActivitySummary{}
	}
	return dto.DashboardData{
		OrganizationID:     p.OrganizationID,
		SchoolName:         p.Counts.SchoolName,
		Stats:              BuildSchoolStats(p.Counts, p.Finance.RevenueGrowth),
		Teachers:           teachers,
		FinancialSummary:   p.Finance,
		RevenueSource:      p.Counts.RevenueSource,
		CapacityMetrics:    BuildCapacityMetrics(p.Counts.Capacity, p.Counts.Students),
		EnrollmentPipeline: BuildEnrollmentPipeline(p.Counts.Applications),
		UniformPayments:    p.Uniforms,
		RecentActivities:   activity,
		DegradedQueries:    p.Failures,
		GeneratedAt:        p.GeneratedAt,
	}
}

/* ===================== VIEWS ===================== */

// MetricCards is the getMetrics() tile list.
func MetricCards(d dto.DashboardData) []dto.MetricCard {
	s := d.Stats
	return []dto.MetricCard{
		{Title: "Total Students", Value: fmt.Sprintf("%.0f", s.Students.Total), Icon: "people-outline", Color: "#4F46E5", Trend: s.Students.Trend, Raw: s.Students.Total},
		{Title: "Teaching Staff", Value: fmt.Sprintf("%.0f", s.Staff.Total), Icon: "school-outline", Color: "#059669", Trend: s.Staff.Trend, Raw: s.Staff.Total},
		{Title: "Active Classes", Value: fmt.Sprintf("%.0f", s.Classes.Total), Icon: "library-outline", Color: "#7C3AED", Trend: s.Classes.Trend, Raw: s.Classes.Total},
		{Title: "Attendance Rate", Value: fmt.Sprintf("%.0f%%", s.AttendanceRate.Total), Icon: "checkmark-circle-outline", Color: attendanceColor(s.AttendanceRate.Trend), Trend: s.AttendanceRate.Trend, Raw: s.AttendanceRate.Total},
		{Title: "Monthly Revenue", Value: fmt.Sprintf("R%.2f", s.MonthlyRevenue.Total), Icon: "card-outline", Color: "#10B981", Trend: s.MonthlyRevenue.Trend, Raw: s.MonthlyRevenue.Total},
		{Title: "Pending Applications", Value: fmt.Sprintf("%.0f", s.PendingApplications.Total), Icon: "document-text-outline", Color: "#F59E0B", Trend: s.PendingApplications.Trend, Raw: s.PendingApplications.Total},
		{Title: "Pending Payments", Value: fmt.Sprintf("%.0f", s.PendingPayments.Total), Icon: "cash-outline", Color: "#EF4444", Trend: s.PendingPayments.Trend, Raw: s.PendingPayments.Total},
		{Title: "Proof of Payment Uploads", Value: fmt.Sprintf("%.0f", s.PendingPOPUploads.Total), Icon: "cloud-upload-outline", Color: "#0EA5E9", Trend: s.PendingPOPUploads.Trend, Raw: s.PendingPOPUploads.Total},
	}
}

func attendanceColor(t dto.Trend) string {
	switch t {
	case dto.TrendExcellent:
		return "#059669"
	case dto.TrendGood:
		return "#F59E0B"
	default:
		return "#DC2626"
	}
}

var bandStatus = map[dto.PerformanceBand][2]string{
	dto.BandExcellent:      {"Excellent", "#059669"},
	dto.BandGood:           {"Good", "#3B82F6"},
	dto.BandNeedsAttention: {"Needs attention", "#F59E0B"},
}

// TeachersWithStatus is the getTeachersWithStatus() view.
func TeachersWithStatus(d dto.DashboardData) []dto.TeacherStatusView {
	out := make([]dto.TeacherStatusView, 0, len(d.Teachers))
	for _, t := range d.Teachers {
		st := bandStatus[t.Performance]
		out = append(out, dto.TeacherStatusView{TeacherSummary: t, Status: st[0], StatusColor: st[1]})
	}
	return out
}
