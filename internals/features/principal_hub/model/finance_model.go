package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// =========================================================
// ENUMS
// =========================================================

type FeeStatus string

const (
	FeeStatusPending FeeStatus = "pending"
	FeeStatusPartial FeeStatus = "partial"
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusOverdue FeeStatus = "overdue"
	FeeStatusWaived  FeeStatus = "waived"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type POPStatus string

const (
	POPStatusPending   POPStatus = "pending"
	POPStatusSubmitted POPStatus = "submitted"
	POPStatusApproved  POPStatus = "approved"
	POPStatusRejected  POPStatus = "rejected"
)

// =========================================================
// school_fee_structures (canonical) / fee_structures (legacy)
// =========================================================

type SchoolFeeStructure struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID *uuid.UUID      `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	Name        string          `gorm:"column:name" json:"name"`
	FeeCategory *string         `gorm:"column:fee_category" json:"fee_category,omitempty"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	Amount      decimal.Decimal `gorm:"column:amount" json:"amount"`
}

func (SchoolFeeStructure) TableName() string { return "school_fee_structures" }

func (f SchoolFeeStructure) TenantID() uuid.UUID { return firstTenant(f.PreschoolID) }

type FeeStructure struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	Name        string     `gorm:"column:name" json:"name"`
	FeeType     *string    `gorm:"column:fee_type" json:"fee_type,omitempty"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (f FeeStructure) TenantID() uuid.UUID { return firstTenant(f.PreschoolID) }

// =========================================================
// student_fees (ledger)
// =========================================================

type StudentFee struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StudentID         uuid.UUID           `gorm:"column:student_id;type:uuid" json:"student_id"`
	FeeStructureID    uuid.UUID           `gorm:"column:fee_structure_id;type:uuid" json:"fee_structure_id"`
	Amount            decimal.Decimal     `gorm:"column:amount" json:"amount"`
	FinalAmount       decimal.NullDecimal `gorm:"column:final_amount" json:"final_amount"`
	AmountPaid        decimal.NullDecimal `gorm:"column:amount_paid" json:"amount_paid"`
	AmountOutstanding decimal.NullDecimal `gorm:"column:amount_outstanding" json:"amount_outstanding"`
	Status            FeeStatus           `gorm:"column:status" json:"status"`
	PaidDate          *time.Time          `gorm:"column:paid_date" json:"paid_date,omitempty"`
	DueDate           *time.Time          `gorm:"column:due_date" json:"due_date,omitempty"`
	UpdatedAt         *time.Time          `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (StudentFee) TableName() string { return "student_fees" }

// Total is final_amount when present, else amount.
func (f StudentFee) Total() decimal.Decimal {
	if f.FinalAmount.Valid {
		return f.FinalAmount.Decimal
	}
	return f.Amount
}

func (f StudentFee) Paid() decimal.Decimal {
	if f.AmountPaid.Valid {
		return f.AmountPaid.Decimal
	}
	return decimal.Zero
}

// =========================================================
// payments (transactions)
// =========================================================

type Payment struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID *uuid.UUID      `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	StudentID   *uuid.UUID      `gorm:"column:student_id;type:uuid" json:"student_id,omitempty"`
	Amount      decimal.Decimal `gorm:"column:amount" json:"amount"`
	Status      PaymentStatus   `gorm:"column:status" json:"status"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	FeeIDs      pq.StringArray  `gorm:"column:fee_ids;type:uuid[]" json:"fee_ids"`
	Metadata    datatypes.JSON  `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	PaidAt      *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
}

func (Payment) TableName() string { return "payments" }

func (p Payment) TenantID() uuid.UUID { return firstTenant(p.PreschoolID) }

func (p Payment) IsSettled() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusApproved
}

// =========================================================
// parent_payments (pending count only)
// =========================================================

type ParentPayment struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	Status      string     `gorm:"column:status" json:"status"`
}

func (ParentPayment) TableName() string { return "parent_payments" }

// =========================================================
// pop_uploads (proof of payment)
// =========================================================

type POPUpload struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID   *uuid.UUID          `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	StudentID     *uuid.UUID          `gorm:"column:student_id;type:uuid" json:"student_id,omitempty"`
	UploadType    string              `gorm:"column:upload_type" json:"upload_type"`
	Status        POPStatus           `gorm:"column:status" json:"status"`
	PaymentAmount decimal.NullDecimal `gorm:"column:payment_amount" json:"payment_amount"`
	CategoryCode  *string             `gorm:"column:category_code" json:"category_code,omitempty"`
	Title         *string             `gorm:"column:title" json:"title,omitempty"`
	Description   *string             `gorm:"column:description" json:"description,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at" json:"created_at"`
}

func (POPUpload) TableName() string { return "pop_uploads" }

func (p POPUpload) TenantID() uuid.UUID { return firstTenant(p.PreschoolID) }

const POPUploadTypeProofOfPayment = "proof_of_payment"

// =========================================================
// uniform_requests
// =========================================================

type UniformRequest struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PreschoolID *uuid.UUID `gorm:"column:preschool_id;type:uuid" json:"preschool_id,omitempty"`
	StudentID   uuid.UUID  `gorm:"column:student_id;type:uuid" json:"student_id"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (UniformRequest) TableName() string { return "uniform_requests" }

func (u UniformRequest) TenantID() uuid.UUID { return firstTenant(u.PreschoolID) }

// =========================================================
// snapshots
// =========================================================

// FinanceMonthSnapshot is one row of get_finance_month_snapshot(org, 'YYYY-MM-01').
type FinanceMonthSnapshot struct {
	CollectedAmount decimal.Decimal `gorm:"column:collected_amount" json:"collected_amount"`
	Expenses        decimal.Decimal `gorm:"column:expenses" json:"expenses"`
}

// ReceivablesSnapshot is one row of vw_finance_receivables_snapshot.
type ReceivablesSnapshot struct {
	OrganizationID  uuid.UUID       `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	BillingMonth    time.Time       `gorm:"column:billing_month;type:date" json:"billing_month"`
	ExpectedAmount  decimal.Decimal `gorm:"column:expected_amount" json:"expected_amount"`
	CollectedAmount decimal.Decimal `gorm:"column:collected_amount" json:"collected_amount"`
}

func (ReceivablesSnapshot) TableName() string { return "vw_finance_receivables_snapshot" }
