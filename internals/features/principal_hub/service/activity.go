package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/model"
	"edudash_backend/internals/features/principal_hub/repository"
	"edudash_backend/internals/helpers/dbtime"
)

const recentActivityLimit = 8

var activityIcons = map[dto.ActivityType]string{
	dto.ActivityEnrollment:  "person-add",
	dto.ActivityApplication: "document-text",
	dto.ActivityOther:       "notifications",
}

type ActivityFetcher struct {
	src repository.ActivitySource
	log zerolog.Logger
	now func() time.Time
}

func NewActivityFetcher(src repository.ActivitySource, logger zerolog.Logger) *ActivityFetcher {
	return &ActivityFetcher{
		src: src,
		log: logger.With().Str("component", "principal_hub_activity_fetcher").Logger(),
		now: time.Now,
	}
}

// Recent returns up to eight activity entries, newest first. An empty log is
// replaced by two synthetic entries built from the Phase 1 counts.
func (a *ActivityFetcher) Recent(ctx context.Context, orgID uuid.UUID, counts RawCounts) ([]dto.ActivitySummary, []dto.QueryFailure) {
	fails := &failures{}
	log := a.log.With().Str("organization_id", orgID.String()).Logger()

	res := fetch(ctx, func(ctx context.Context) ([]model.ActivityLog, error) {
		return a.src.ListRecentActivity(ctx, orgID, recentActivityLimit)
	}, noRows[model.ActivityLog])
	if res.Failed() {
		fails.add("activity_logs", res.Err)
		logQueryFailure(log, "activity_logs", res.Err)
	}

	now := a.now()
	out := make([]dto.ActivitySummary, 0, recentActivityLimit)
	for _, row := range res.Value {
		if !model.BelongsTo(row, orgID) {
			log.Warn().Str("activity_id", row.ID.String()).Msg("activity row from another organization dropped")
			continue
		}
		out = append(out, toActivitySummary(row, now.Location()))
		if len(out) == recentActivityLimit {
			break
		}
	}

	if len(out) == 0 {
		out = syntheticActivity(counts, now)
	}
	return out, fails.sorted()
}

func classifyActivity(activityType string) dto.ActivityType {
	t := strings.ToLower(activityType)
	switch {
	case strings.Contains(t, "enrol"), strings.Contains(t, "student"):
		return dto.ActivityEnrollment
	case strings.Contains(t, "application"), strings.Contains(t, "registration"):
		return dto.ActivityApplication
	default:
		return dto.ActivityOther
	}
}

func toActivitySummary(row model.ActivityLog, loc *time.Location) dto.ActivitySummary {
	kind := classifyActivity(row.ActivityType)
	title := humanizeActivityType(row.ActivityType)
	desc := strings.TrimSpace(deref(row.Description))
	if desc == "" {
		desc = title
	}
	return dto.ActivitySummary{
		ID:          row.ID.String(),
		Type:        kind,
		Title:       title,
		Description: desc,
		UserName:    strings.TrimSpace(deref(row.UserName)),
		Icon:        activityIcons[kind],
		Timestamp:   dbtime.ToSchoolTime(loc, row.CreatedAt),
	}
}

// "student_enrolled" → "Student enrolled"
func humanizeActivityType(t string) string {
	t = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(t))
	if t == "" {
		return "Activity"
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

func syntheticActivity(c RawCounts, now time.Time) []dto.ActivitySummary {
	return []dto.ActivitySummary{
		{
			ID:          "synthetic-enrollment",
			Type:        dto.ActivityEnrollment,
			Title:       "Current enrollment",
			Description: fmt.Sprintf("%d students currently enrolled", c.Students),
			Icon:        activityIcons[dto.ActivityEnrollment],
			Timestamp:   now,
			Synthetic:   true,
		},
		{
			ID:          "synthetic-applications",
			Type:        dto.ActivityApplication,
			Title:       "Pending applications",
			Description: fmt.Sprintf("%d applications awaiting review", c.Applications.Pending),
			Icon:        activityIcons[dto.ActivityApplication],
			Timestamp:   now,
			Synthetic:   true,
		},
	}
}
