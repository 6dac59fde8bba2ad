package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/repository"
)

// Aggregator runs one dashboard build: Phase 1 (raw counter and uniform
// summarizer), then Phase 2 (teachers, finance, activity), then assembly.
type Aggregator struct {
	Counter  *RawCounter
	Uniforms *UniformSummarizer
	Teachers *TeacherEnricher
	Finance  *FinancialSnapshotter
	Activity *ActivityFetcher

	log zerolog.Logger
	now func() time.Time
}

type AggregatorOptions struct {
	TeacherWorkers int
	Now            func() time.Time
}

func NewAggregator(src repository.Source, opts AggregatorOptions, logger zerolog.Logger) *Aggregator {
	a := &Aggregator{
		Counter:  NewRawCounter(src, logger),
		Uniforms: NewUniformSummarizer(src, logger),
		Teachers: NewTeacherEnricher(src, opts.TeacherWorkers, logger),
		Finance:  NewFinancialSnapshotter(src, logger),
		Activity: NewActivityFetcher(src, logger),
		log:      logger.With().Str("component", "principal_hub_aggregator").Logger(),
		now:      time.Now,
	}
	if opts.Now != nil {
		a.SetClock(opts.Now)
	}
	return a
}

// SetClock replaces the clock of every component.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
	a.Counter.now = now
	a.Teachers.now = now
	a.Finance.now = now
	a.Activity.now = now
}

func (a *Aggregator) Run(ctx context.Context, id Identity) (dto.DashboardData, error) {
	start := a.now()
	fails := &failures{}

	// Phase 1
	var (
		counts   RawCounts
		countErr error
		uniforms dto.UniformPaymentSummary
	)
	var p1 errgroup.Group
	p1.Go(func() error {
		counts, countErr = a.Counter.Count(ctx, id.OrganizationID, id.SchoolName)
		return nil
	})
	p1.Go(func() error {
		var f []dto.QueryFailure
		uniforms, f = a.Uniforms.Summarize(ctx, id.OrganizationID)
		fails.merge(f)
		return nil
	})
	_ = p1.Wait()
	if countErr != nil {
		return dto.DashboardData{}, countErr
	}
	fails.merge(counts.Failures)

	// Phase 2
	var (
		teachers []dto.TeacherSummary
		finance  dto.FinancialSummary
		activity []dto.ActivitySummary
	)
	var p2 errgroup.Group
	p2.Go(func() error {
		var f []dto.QueryFailure
		teachers, f = a.Teachers.Enrich(ctx, id.OrganizationID, counts.Teachers)
		fails.merge(f)
		return nil
	})
	p2.Go(func() error {
		var f []dto.QueryFailure
		finance, f = a.Finance.Snapshot(ctx, id.OrganizationID, nil)
		fails.merge(f)
		return nil
	})
	p2.Go(func() error {
		var f []dto.QueryFailure
		activity, f = a.Activity.Recent(ctx, id.OrganizationID, counts)
		fails.merge(f)
		return nil
	})
	_ = p2.Wait()
	if err := ctx.Err(); err != nil {
		return dto.DashboardData{}, err
	}

	// Phase 3
	data := Assemble(Phases{
		OrganizationID: id.OrganizationID,
		Counts:         counts,
		Uniforms:       uniforms,
		Teachers:       teachers,
		Finance:        finance,
		Activity:       activity,
		Failures:       fails.sorted(),
		GeneratedAt:    a.now(),
	})

	a.log.Info().
		Str("organization_id", id.OrganizationID.String()).
		Str("user_id", id.UserID.String()).
		Int("degraded_queries", len(data.DegradedQueries)).
		Dur("took", a.now().Sub(start)).
		Msg("✅ principal hub dashboard assembled")

	return data, nil
}
