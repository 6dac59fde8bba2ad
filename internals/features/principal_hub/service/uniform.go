package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/model"
	"edudash_backend/internals/features/principal_hub/repository"
)

const recentUniformPayments = 5

const (
	uniformSourceFee     = "student_fee"
	uniformSourcePayment = "payment"
)

// POP statuses the summarizer reads; rejected uploads carry no signal.
var uniformPOPStatuses = []model.POPStatus{
	model.POPStatusPending,
	model.POPStatusSubmitted,
	model.POPStatusApproved,
}

type UniformSummarizer struct {
	src repository.UniformSource
	log zerolog.Logger
}

func NewUniformSummarizer(src repository.UniformSource, logger zerolog.Logger) *UniformSummarizer {
	return &UniformSummarizer{
		src: src,
		log: logger.With().Str("component", "principal_hub_uniform_summarizer").Logger(),
	}
}

/* ===================== PAYMENT SIGNALS ===================== */

// paymentSignals are the per-student facts gathered from payments and POP uploads.
type paymentSignals struct {
	paid    bool
	pending bool
}

// status applies the precedence: any paid signal wins, then any pending signal.
func (s paymentSignals) status() dto.UniformStatus {
	switch {
	case s.paid:
		return dto.UniformPaid
	case s.pending:
		return dto.UniformPending
	default:
		return dto.UniformUnpaid
	}
}

type signalBook map[uuid.UUID]paymentSignals

func (b signalBook) notePOP(p model.POPUpload) {
	if p.StudentID == nil {
		return
	}
	s := b[*p.StudentID]
	switch p.Status {
	case model.POPStatusApproved:
		s.paid = true
	case model.POPStatusPending, model.POPStatusSubmitted:
		s.pending = true
	}
	b[*p.StudentID] = s
}

func (b signalBook) notePayment(p model.Payment) {
	if p.StudentID == nil {
		return
	}
	s := b[*p.StudentID]
	switch {
	case p.IsSettled():
		s.paid = true
	case p.Status == model.PaymentStatusPending:
		s.pending = true
	}
	b[*p.StudentID] = s
}

/* ===================== SUMMARIZE ===================== */

type uniformInputs struct {
	structures Result[[]model.SchoolFeeStructure]
	legacy     Result[[]model.FeeStructure]
	payments   Result[[]model.Payment]
	pops       Result[[]model.POPUpload]
	students   Result[[]model.Student]
	requests   Result[[]model.UniformRequest]
	fees       Result[[]model.StudentFee]
}

// Summarize reconciles fee ledger rows, payment transactions and POP uploads.
// Every step degrades on its own; failed steps are named in FailedSteps.
func (u *UniformSummarizer) Summarize(ctx context.Context, orgID uuid.UUID) (dto.UniformPaymentSummary, []dto.QueryFailure) {
	fails := &failures{}
	log := u.log.With().Str("organization_id", orgID.String()).Logger()

	var in uniformInputs
	b := newBatch(ctx, fails, log)
	goFetch(b, "school_fee_structures", &in.structures, func(ctx context.Context) ([]model.SchoolFeeStructure, error) {
		return u.src.ListSchoolFeeStructures(ctx, orgID)
	}, noRows[model.SchoolFeeStructure])
	goFetch(b, "fee_structures", &in.legacy, func(ctx context.Context) ([]model.FeeStructure, error) {
		return u.src.ListLegacyFeeStructures(ctx, orgID)
	}, noRows[model.FeeStructure])
	goFetch(b, "payments", &in.payments, func(ctx context.Context) ([]model.Payment, error) {
		return u.src.ListPayments(ctx, orgID)
	}, noRows[model.Payment])
	goFetch(b, "pop_uploads_uniform", &in.pops, func(ctx context.Context) ([]model.POPUpload, error) {
		return u.src.ListPOPUploads(ctx, orgID, uniformPOPStatuses)
	}, noRows[model.POPUpload])
	goFetch(b, "students_active", &in.students, func(ctx context.Context) ([]model.Student, error) {
		return u.src.ListActiveStudents(ctx, orgID)
	}, noRows[model.Student])
	goFetch(b, "uniform_requests", &in.requests, func(ctx context.Context) ([]model.UniformRequest, error) {
		return u.src.ListUniformRequests(ctx, orgID)
	}, noRows[model.UniformRequest])
	b.wait()

	structureIDs := uniformStructureIDs(orgID, in.structures.Value, in.legacy.Value)
	if len(structureIDs) > 0 {
		b = newBatch(ctx, fails, log)
		goFetch(b, "student_fees", &in.fees, func(ctx context.Context) ([]model.StudentFee, error) {
			return u.src.ListStudentFeesByStructures(ctx, structureIDs)
		}, noRows[model.StudentFee])
		b.wait()
	}

	summary := buildUniformSummary(orgID, in)
	failed := fails.sorted()
	for _, f := range failed {
		summary.FailedSteps = append(summary.FailedSteps, f.Query)
	}

	log.Info().
		Str("total_paid", summary.TotalPaid.StringFixed(2)).
		Str("total_outstanding", summary.TotalOutstanding.StringFixed(2)).
		Int("submitted", summary.StudentBreakdown.Submitted).
		Int("failed_steps", len(failed)).
		Msg("👕 uniform summary ready")

	return summary, failed
}

// uniformStructureIDs is the union of uniform-labeled canonical and legacy structures.
func uniformStructureIDs(orgID uuid.UUID, canonical []model.SchoolFeeStructure, legacy []model.FeeStructure) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, f := range canonical {
		if model.BelongsTo(f, orgID) && isUniformStructure(f) {
			add(f.ID)
		}
	}
	for _, f := range legacy {
		if model.BelongsTo(f, orgID) && isUniformLegacyStructure(f) {
			add(f.ID)
		}
	}
	return ids
}

type datedPayment struct {
	dto.UniformPayment
	at time.Time
}

func buildUniformSummary(orgID uuid.UUID, in uniformInputs) dto.UniformPaymentSummary {
	s := dto.UniformPaymentSummary{
		TotalPaid:           decimal.Zero,
		TotalOutstanding:    decimal.Zero,
		PendingUploadAmount: decimal.Zero,
		RecentPayments:      []dto.UniformPayment{},
	}

	names := make(map[uuid.UUID]string, len(in.students.Value))
	var active []model.Student
	for _, st := range in.students.Value {
		if model.BelongsTo(st, orgID) {
			names[st.ID] = st.FullName()
			active = append(active, st)
		}
	}

	// Step 2: fee ledger.
	var recent []datedPayment
	feeIDs := make(map[string]struct{}, len(in.fees.Value))
	countedFees := make(map[string]struct{})
	for _, f := range in.fees.Value {
		feeIDs[f.ID.String()] = struct{}{}
		paid := f.Paid()
		if paid.IsPositive() || f.Status == model.FeeStatusPaid {
			amount := paid
			if !amount.IsPositive() {
				amount = f.Total()
			}
			s.TotalPaid = s.TotalPaid.Add(amount)
			s.PaidCount++
			countedFees[f.ID.String()] = struct{}{}

			sid := f.StudentID
			recent = append(recent, datedPayment{
				UniformPayment: dto.UniformPayment{
					ID:          f.ID,
					StudentID:   &sid,
					StudentName: names[sid],
					Amount:      amount,
					Source:      uniformSourceFee,
					PaidAt:      feeDate(f),
				},
				at: derefTime(feeDate(f)),
			})
			continue
		}

		var outstanding decimal.Decimal
		if f.AmountOutstanding.Valid && f.AmountOutstanding.Decimal.IsPositive() {
			outstanding = f.AmountOutstanding.Decimal
		} else {
			outstanding = maxDecimal(f.Total().Sub(paid), decimal.Zero)
		}
		s.TotalOutstanding = s.TotalOutstanding.Add(outstanding)
		s.PendingCount++
	}

	// Step 3: payment transactions not already counted through the ledger.
	signals := signalBook{}
	for _, p := range in.payments.Value {
		if !model.BelongsTo(p, orgID) {
			continue
		}
		linked := false
		counted := false
		for _, id := range p.FeeIDs {
			if _, ok := feeIDs[id]; ok {
				linked = true
			}
			if _, ok := countedFees[id]; ok {
				counted = true
			}
		}
		if !linked && !isUniformPayment(p) {
			continue
		}
		signals.notePayment(p)

		if !p.IsSettled() || counted {
			continue
		}
		s.TotalPaid = s.TotalPaid.Add(p.Amount)
		s.PaidCount++
		at := p.CreatedAt
		if p.PaidAt != nil {
			at = *p.PaidAt
		}
		paidAt := at
		recent = append(recent, datedPayment{
			UniformPayment: dto.UniformPayment{
				ID:          p.ID,
				StudentID:   p.StudentID,
				StudentName: nameOf(names, p.StudentID),
				Amount:      p.Amount,
				Source:      uniformSourcePayment,
				PaidAt:      &paidAt,
			},
			at: at,
		})
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].at.After(recent[j].at) })
	for i := 0; i < len(recent) && i < recentUniformPayments; i++ {
		s.RecentPayments = append(s.RecentPayments, recent[i].UniformPayment)
	}

	// Step 4: proof-of-payment uploads.
	for _, p := range in.pops.Value {
		if !model.BelongsTo(p, orgID) || !isUniformPOP(p) {
			continue
		}
		signals.notePOP(p)
		if p.Status == model.POPStatusPending || p.Status == model.POPStatusSubmitted {
			s.PendingUploads++
			if p.PaymentAmount.Valid {
				s.PendingUploadAmount = s.PendingUploadAmount.Add(p.PaymentAmount.Decimal)
			}
		}
	}
	if !s.TotalOutstanding.IsPositive() && s.PendingUploadAmount.IsPositive() {
		s.TotalOutstanding = s.PendingUploadAmount
		s.OutstandingFromPOP = true
	}

	// Step 5: per-student breakdown of uniform order submitters.
	submitted := make(map[uuid.UUID]struct{})
	for _, r := range in.requests.Value {
		if model.BelongsTo(r, orgID) {
			submitted[r.StudentID] = struct{}{}
		}
	}
	s.StudentBreakdown = buildStudentBreakdown(active, submitted, signals)

	return s
}

func buildStudentBreakdown(active []model.Student, submitted map[uuid.UUID]struct{}, signals signalBook) dto.UniformStudentBreakdown {
	br := dto.UniformStudentBreakdown{
		TotalStudents: len(active),
		Students:      []dto.UniformStudentStatus{},
	}
	for _, st := range active {
		if _, ok := submitted[st.ID]; !ok {
			continue
		}
		status := signals[st.ID].status()
		switch status {
		case dto.UniformPaid:
			br.Paid++
		case dto.UniformPending:
			br.Pending++
		default:
			br.Unpaid++
		}
		br.Students = append(br.Students, dto.UniformStudentStatus{
			StudentID:   st.ID,
			StudentName: st.FullName(),
			Status:      status,
		})
	}
	br.Submitted = len(br.Students)
	br.NotSubmitted = br.TotalStudents - br.Submitted

	sort.SliceStable(br.Students, func(i, j int) bool {
		return strings.ToLower(br.Students[i].StudentName) < strings.ToLower(br.Students[j].StudentName)
	})
	return br
}

// feeDate is paid_date, else updated_at, else due_date.
func feeDate(f model.StudentFee) *time.Time {
	switch {
	case f.PaidDate != nil:
		return f.PaidDate
	case f.UpdatedAt != nil:
		return f.UpdatedAt
	default:
		return f.DueDate
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func nameOf(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}
