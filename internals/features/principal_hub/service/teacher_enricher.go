package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/model"
	"edudash_backend/internals/features/principal_hub/repository"
)

const defaultTeacherWorkers = 4

type TeacherEnricher struct {
	src     repository.TeacherSource
	workers int
	log     zerolog.Logger
	now     func() time.Time
}

func NewTeacherEnricher(src repository.TeacherSource, workers int, logger zerolog.Logger) *TeacherEnricher {
	if workers <= 0 {
		workers = defaultTeacherWorkers
	}
	return &TeacherEnricher{
		src:     src,
		workers: workers,
		log:     logger.With().Str("component", "principal_hub_teacher_enricher").Logger(),
		now:     time.Now,
	}
}

// Enrich derives class, student, attendance and band figures for every
// teacher. The output keeps the input order.
func (e *TeacherEnricher) Enrich(ctx context.Context, orgID uuid.UUID, teachers []model.Teacher) ([]dto.TeacherSummary, []dto.QueryFailure) {
	out := make([]dto.TeacherSummary, len(teachers))
	if len(teachers) == 0 {
		return out, nil
	}

	fails := &failures{}
	log := e.log.With().Str("organization_id", orgID.String()).Logger()
	since := e.now().Add(-attendanceWindow)

	// Shared lookups: the overview view, and the single-teacher heuristic.
	var (
		overview   Result[[]model.TeacherOverview]
		assigned   Result[int64]
		unassigned Result[[]model.Class]
	)
	b := newBatch(ctx, fails, log)
	goFetch(b, "vw_teacher_overview", &overview, func(ctx context.Context) ([]model.TeacherOverview, error) {
		return e.src.ListTeacherOverview(ctx, orgID)
	}, noRows[model.TeacherOverview])
	if len(teachers) == 1 {
		goFetch(b, "classes_assigned", &assigned, func(ctx context.Context) (int64, error) {
			return e.src.CountAssignedClasses(ctx, orgID)
		}, zeroCount)
		goFetch(b, "classes_unassigned", &unassigned, func(ctx context.Context) ([]model.Class, error) {
			return e.src.ListUnassignedClasses(ctx, orgID)
		}, noRows[model.Class])
	}
	b.wait()

	byEmail := make(map[string]model.TeacherOverview, len(overview.Value))
	for _, o := range overview.Value {
		if model.BelongsTo(o, orgID) {
			byEmail[strings.ToLower(strings.TrimSpace(o.Email))] = o
		}
	}

	// A school with one teacher and no assigned classes gets every unassigned
	// class attributed to that teacher.
	var fallbackClasses []model.Class
	if len(teachers) == 1 && assigned.Kind == KindEmpty {
		for _, c := range unassigned.Value {
			if model.BelongsTo(c, orgID) {
				fallbackClasses = append(fallbackClasses, c)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range teachers {
		i := i
		g.Go(func() error {
			out[i] = e.enrichOne(gctx, orgID, teachers[i], byEmail, fallbackClasses, since, fails, log)
			return nil
		})
	}
	_ = g.Wait()

	return out, fails.sorted()
}

func (e *TeacherEnricher) enrichOne(
	ctx context.Context,
	orgID uuid.UUID,
	t model.Teacher,
	byEmail map[string]model.TeacherOverview,
	fallbackClasses []model.Class,
	since time.Time,
	fails *failures,
	log zerolog.Logger,
) dto.TeacherSummary {
	s := dto.TeacherSummary{
		ID:       t.ID,
		FullName: t.FullName(),
		Email:    t.Email,
	}
	log = log.With().Str("teacher_id", t.ID.String()).Logger()

	// Effective identity: teachers.user_id, else the profile with the same email.
	identity := uuid.Nil
	if t.UserID != nil && *t.UserID != uuid.Nil {
		identity = *t.UserID
	} else {
		res := fetch(ctx, func(ctx context.Context) (uuid.UUID, error) {
			return e.src.FindProfileIDByEmail(ctx, orgID, t.Email)
		}, func(id uuid.UUID) bool { return id == uuid.Nil })
		if res.Failed() {
			e.degrade(fails, log, "profiles", res.Err)
		}
		identity = res.Value
	}
	if identity != uuid.Nil {
		id := identity
		s.UserID = &id
	}

	var classes []model.Class
	switch {
	case len(fallbackClasses) > 0:
		classes = fallbackClasses
	case identity != uuid.Nil:
		res := fetch(ctx, func(ctx context.Context) ([]model.Class, error) {
			return e.src.ListClassesByTeacher(ctx, orgID, identity)
		}, noRows[model.Class])
		if res.Failed() {
			e.degrade(fails, log, "classes", res.Err)
		}
		for _, c := range res.Value {
			if model.BelongsTo(c, orgID) {
				classes = append(classes, c)
			}
		}
	}
	classIDs := make([]uuid.UUID, 0, len(classes))
	for _, c := range classes {
		classIDs = append(classIDs, c.ID)
	}

	// Counts: prefer the overview view unless the single-teacher fallback applied.
	if o, ok := byEmail[strings.ToLower(strings.TrimSpace(t.Email))]; ok && len(fallbackClasses) == 0 {
		s.ClassesAssigned = o.ClassCount
		s.StudentsCount = o.StudentCount
		s.CountsFromView = true
	} else {
		s.ClassesAssigned = len(classes)
		res := fetch(ctx, func(ctx context.Context) (int64, error) {
			return e.src.CountActiveStudentsInClasses(ctx, orgID, classIDs)
		}, zeroCount)
		if res.Failed() {
			e.degrade(fails, log, "students_in_classes", res.Err)
		}
		s.StudentsCount = int(res.Value)
	}

	// The view knows the class count but the classes themselves could not be
	// listed, so attendance cannot be measured.
	if s.CountsFromView && s.ClassesAssigned > 0 && len(classIDs) == 0 {
		log.Warn().
			Str("email", t.Email).
			Bool("identity_resolved", identity != uuid.Nil).
			Msg("teacher classes unavailable, banding without attendance")
		ratio := studentClassRatio(s.StudentsCount, s.ClassesAssigned)
		s.Performance, s.PerformanceNote = classifyByLoad(s.ClassesAssigned, ratio)
		s.StudentClassRatio = math.Round(ratio*10) / 10
		return s
	}

	att := fetch(ctx, func(ctx context.Context) (model.AttendanceCount, error) {
		return e.src.CountAttendanceForClasses(ctx, orgID, classIDs, since)
	}, func(c model.AttendanceCount) bool { return c.Total == 0 })
	if att.Failed() {
		e.degrade(fails, log, "attendance_for_classes", att.Err)
	}
	s.AttendanceRate = ratePercent(att.Value.Present, att.Value.Total)

	ratio := studentClassRatio(s.StudentsCount, s.ClassesAssigned)
	s.Performance, s.PerformanceNote = classifyPerformance(s.ClassesAssigned, ratio, s.AttendanceRate)
	s.StudentClassRatio = math.Round(ratio*10) / 10
	return s
}

func (e *TeacherEnricher) degrade(fails *failures, log zerolog.Logger, query string, err error) {
	fails.add(query, err)
	logQueryFailure(log, query, err)
}
