// internals/features/principal_hub/dto/principal_hub_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ===================== TRENDS & BANDS ===================== */

type Trend string

const (
	TrendUp        Trend = "up"
	TrendDown      Trend = "down"
	TrendStable    Trend = "stable"
	TrendLow       Trend = "low"
	TrendHigh      Trend = "high"
	TrendExcellent Trend = "excellent"
	TrendGood      Trend = "good"
	TrendAttention Trend = "attention"
)

type PerformanceBand string

const (
	BandExcellent      PerformanceBand = "excellent"
	BandGood           PerformanceBand = "good"
	BandNeedsAttention PerformanceBand = "needs_attention"
)

type CapacityStatus string

const (
	CapacityFull      CapacityStatus = "full"
	CapacityHigh      CapacityStatus = "high"
	CapacityAvailable CapacityStatus = "available"
)

type UniformStatus string

const (
	UniformPaid    UniformStatus = "paid"
	UniformPending UniformStatus = "pending"
	UniformUnpaid  UniformStatus = "unpaid"
)

type ActivityType string

const (
	ActivityEnrollment  ActivityType = "enrollment"
	ActivityApplication ActivityType = "application"
	ActivityOther       ActivityType = "other"
)

type RevenueSource string

const (
	RevenueFromSnapshot RevenueSource = "receivables_snapshot"
	RevenueFromPayments RevenueSource = "legacy_payments"
	RevenueUnavailable  RevenueSource = "unavailable"
)

/* ===================== SCHOOL STATS ===================== */

type StatMetric struct {
	Total float64 `json:"total"`
	Trend Trend   `json:"trend"`
}

type SchoolStats struct {
	Students                  StatMetric `json:"students"`
	Staff                     StatMetric `json:"staff"`
	Classes                   StatMetric `json:"classes"`
	PendingApplications       StatMetric `json:"pending_applications"`
	MonthlyRevenue            StatMetric `json:"monthly_revenue"`
	AttendanceRate            StatMetric `json:"attendance_rate"`
	PendingReports            StatMetric `json:"pending_reports"`
	PendingRegistrations      StatMetric `json:"pending_registrations"`
	PendingPayments           StatMetric `json:"pending_payments"`
	PendingPOPUploads         StatMetric `json:"pending_pop_uploads"`
	PendingActivityApprovals  StatMetric `json:"pending_activity_approvals"`
	PendingHomeworkApprovals  StatMetric `json:"pending_homework_approvals"`
	RegistrationFeesCollected StatMetric `json:"registration_fees_collected"`
}

/* ===================== TEACHERS ===================== */

type TeacherSummary struct {
	ID                uuid.UUID       `json:"id"`
	UserID            *uuid.UUID      `json:"user_id,omitempty"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	ClassesAssigned   int             `json:"classes_assigned"`
	StudentsCount     int             `json:"students_count"`
	StudentClassRatio float64         `json:"student_class_ratio"`
	AttendanceRate    int             `json:"attendance_rate"`
	Performance       PerformanceBand `json:"performance"`
	PerformanceNote   string          `json:"performance_note,omitempty"`
	CountsFromView    bool            `json:"counts_from_view"`
}

// TeacherStatusView is one row of getTeachersWithStatus().
type TeacherStatusView struct {
	TeacherSummary
	Status      string `json:"status"`
	StatusColor string `json:"status_color"`
}

/* ===================== FINANCE ===================== */

type FinancialSummary struct {
	Month                string          `json:"month"`
	PreviousMonth        string          `json:"previous_month"`
	MonthlyRevenue       decimal.Decimal `json:"monthly_revenue"`
	PreviousMonthRevenue decimal.Decimal `json:"previous_month_revenue"`
	Expenses             decimal.Decimal `json:"expenses"`
	NetProfit            decimal.Decimal `json:"net_profit"`
	ProfitMargin         int             `json:"profit_margin"`
	RevenueGrowth        int             `json:"revenue_growth"`
	GrowthAvailable      bool            `json:"growth_available"`
	HasDataError         bool            `json:"has_data_error"`
	DataErrorMessage     string          `json:"data_error_message,omitempty"`
}

/* ===================== CAPACITY & PIPELINE ===================== */

type EnrollmentByAge struct {
	Age2To3 int `json:"age_2_3"`
	Age4To5 int `json:"age_4_5"`
	Age6To7 int `json:"age_6_7"`
}

type CapacityMetrics struct {
	Capacity              int             `json:"capacity"`
	CurrentEnrollment     int             `json:"current_enrollment"`
	AvailableSpots        int             `json:"available_spots"`
	UtilizationPercentage int             `json:"utilization_percentage"`
	Status                CapacityStatus  `json:"status"`
	EnrollmentByAge       EnrollmentByAge `json:"enrollment_by_age"`
	AgeBreakdownEstimated bool            `json:"age_breakdown_estimated"`
}

type EnrollmentPipeline struct {
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
	Waitlisted int `json:"waitlisted"`
	Total      int `json:"total"`
}

/* ===================== UNIFORMS ===================== */

type UniformPayment struct {
	ID          uuid.UUID       `json:"id"`
	StudentID   *uuid.UUID      `json:"student_id,omitempty"`
	StudentName string          `json:"student_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

type UniformStudentStatus struct {
	StudentID   uuid.UUID     `json:"student_id"`
	StudentName string        `json:"student_name"`
	Status      UniformStatus `json:"status"`
}

type UniformStudentBreakdown struct {
	TotalStudents int                    `json:"total_students"`
	Submitted     int                    `json:"submitted"`
	NotSubmitted  int                    `json:"not_submitted"`
	Paid          int                    `json:"paid"`
	Pending       int                    `json:"pending"`
	Unpaid        int                    `json:"unpaid"`
	Students      []UniformStudentStatus `json:"students"`
}

type UniformPaymentSummary struct {
	TotalPaid           decimal.Decimal         `json:"total_paid"`
	TotalOutstanding    decimal.Decimal         `json:"total_outstanding"`
	PaidCount           int                     `json:"paid_count"`
	PendingCount        int                     `json:"pending_count"`
	PendingUploads      int                     `json:"pending_uploads"`
	PendingUploadAmount decimal.Decimal         `json:"pending_upload_amount"`
	OutstandingFromPOP  bool                    `json:"outstanding_from_pop"`
	RecentPayments      []UniformPayment        `json:"recent_payments"`
	StudentBreakdown    UniformStudentBreakdown `json:"student_breakdown"`
	FailedSteps         []string                `json:"failed_steps,omitempty"`
}

/* ===================== ACTIVITY ===================== */

type ActivitySummary struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	UserName    string       `json:"user_name,omitempty"`
	Icon        string       `json:"icon"`
	Timestamp   time.Time    `json:"timestamp"`
	Synthetic   bool         `json:"synthetic,omitempty"`
}

/* ===================== DASHBOARD ===================== */

// QueryFailure names one degraded query of a run.
type QueryFailure struct {
	Query   string `json:"query"`
	Message string `json:"message"`
}

type DashboardData struct {
	OrganizationID     uuid.UUID             `json:"organization_id"`
	SchoolName         string                `json:"school_name"`
	Stats              SchoolStats           `json:"stats"`
	Teachers           []TeacherSummary      `json:"teachers"`
	FinancialSummary   FinancialSummary      `json:"financial_summary"`
	RevenueSource      RevenueSource         `json:"revenue_source"`
	CapacityMetrics    CapacityMetrics       `json:"capacity_metrics"`
	EnrollmentPipeline EnrollmentPipeline    `json:"enrollment_pipeline"`
	UniformPayments    UniformPaymentSummary `json:"uniform_payments"`
	RecentActivities   []ActivitySummary     `json:"recent_activities"`
	DegradedQueries    []QueryFailure        `json:"degraded_queries,omitempty"`
	GeneratedAt        time.Time             `json:"generated_at"`
}

type HubStatus string

const (
	HubIdle     HubStatus = "idle"
	HubFetching HubStatus = "fetching"
	HubReady    HubStatus = "ready"
	HubError    HubStatus = "error"
)

// HubState is the read surface of one user:organization entry.
type HubState struct {
	Status      HubStatus      `json:"status"`
	Data        *DashboardData `json:"data"`
	Loading     bool           `json:"loading"`
	Error       string         `json:"error,omitempty"`
	LastRefresh *time.Time     `json:"last_refresh,omitempty"`
	HasData     bool           `json:"has_data"`
	IsReady     bool           `json:"is_ready"`
	IsEmpty     bool           `json:"is_empty"`
}

// MetricCard is one tile of getMetrics().
type MetricCard struct {
	Title string  `json:"title"`
	Value string  `json:"value"`
	Icon  string  `json:"icon"`
	Color string  `json:"color"`
	Trend Trend   `json:"trend"`
	Raw   float64 `json:"raw"`
}

/* ===================== REQUESTS ===================== */

// RefreshRequest is the optional body of POST /principal-hub/refresh.
type RefreshRequest struct {
	SchoolName string `json:"school_name" validate:"omitempty,max=200"`
}
