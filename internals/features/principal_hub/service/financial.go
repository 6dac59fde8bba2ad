package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/model"
	"edudash_backend/internals/features/principal_hub/repository"
)

const monthKeyLayout = "2006-01-02"

type FinancialSnapshotter struct {
	src repository.FinanceSource
	log zerolog.Logger
	now func() time.Time
}

func NewFinancialSnapshotter(src repository.FinanceSource, logger zerolog.Logger) *FinancialSnapshotter {
	return &FinancialSnapshotter{
		src: src,
		log: logger.With().Str("component", "principal_hub_financial_snapshotter").Logger(),
		now: time.Now,
	}
}

// monthKeys returns the YYYY-MM-01 keys of the current and previous month.
func monthKeys(now time.Time) (current, previous string) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start.Format(monthKeyLayout), start.AddDate(0, -1, 0).Format(monthKeyLayout)
}

// Snapshot reads both months concurrently; either may fail on its own.
// excludeFeeStructureIDs is reserved and not applied yet.
func (f *FinancialSnapshotter) Snapshot(ctx context.Context, orgID uuid.UUID, excludeFeeStructureIDs []uuid.UUID) (dto.FinancialSummary, []dto.QueryFailure) {
	_ = excludeFeeStructureIDs

	cur, prev := monthKeys(f.now())
	fails := &failures{}
	b := newBatch(ctx, fails, f.log.With().Str("organization_id", orgID.String()).Logger())

	var current, previous Result[model.FinanceMonthSnapshot]
	goFetch(b, "finance_snapshot_current", &current, func(ctx context.Context) (model.FinanceMonthSnapshot, error) {
		return f.src.GetFinanceMonthSnapshot(ctx, orgID, cur)
	}, nil)
	goFetch(b, "finance_snapshot_previous", &previous, func(ctx context.Context) (model.FinanceMonthSnapshot, error) {
		return f.src.GetFinanceMonthSnapshot(ctx, orgID, prev)
	}, nil)
	b.wait()

	return buildFinancialSummary(cur, prev, current, previous), fails.sorted()
}

func buildFinancialSummary(curKey, prevKey string, current, previous Result[model.FinanceMonthSnapshot]) dto.FinancialSummary {
	revenue := current.Value.CollectedAmount
	prevRevenue := previous.Value.CollectedAmount
	expenses := current.Value.Expenses
	net := revenue.Sub(expenses)

	s := dto.FinancialSummary{
		Month:                curKey,
		PreviousMonth:        prevKey,
		MonthlyRevenue:       revenue,
		PreviousMonthRevenue: prevRevenue,
		Expenses:             expenses,
		NetProfit:            net,
		ProfitMargin:         percentOf(net, revenue),
	}

	// A failed current month must not turn into a -100% growth figure.
	if !current.Failed() && !previous.Failed() && prevRevenue.GreaterThan(decimal.Zero) {
		s.RevenueGrowth = percentOf(revenue.Sub(prevRevenue), prevRevenue)
		s.GrowthAvailable = true
	}

	var msgs []string
	if current.Failed() {
		msgs = append(msgs, "current month: "+current.Message())
	}
	if previous.Failed() {
		msgs = append(msgs, "previous month: "+previous.Message())
	}
	if len(msgs) > 0 {
		s.HasDataError = true
		s.DataErrorMessage = "Financial data unavailable (" + strings.Join(msgs, "; ") + ")"
	}
	return s
}
