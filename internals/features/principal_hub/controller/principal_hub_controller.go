// internals/features/principal_hub/controller/principal_hub_controller.go
package controller

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edudash_backend/internals/constants"
	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/service"
	helper "edudash_backend/internals/helpers"
	helperAuth "edudash_backend/internals/helpers/auth"
)

// Hub is the part of *service.Hub the controller drives.
type Hub interface {
	Load(ctx context.Context, id service.Identity) (dto.HubState, error)
	Refresh(ctx context.Context, id service.Identity) (dto.HubState, error)
	State(id service.Identity) dto.HubState
	Metrics(ctx context.Context, id service.Identity) ([]dto.MetricCard, dto.HubState, error)
	TeachersWithStatus(ctx context.Context, id service.Identity) ([]dto.TeacherStatusView, dto.HubState, error)
	Release(id service.Identity) bool
}

type PrincipalHubController struct {
	Hub       Hub
	Validator *validator.Validate
	log       zerolog.Logger
}

func NewPrincipalHubController(hub Hub, logger zerolog.Logger) *PrincipalHubController {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	return &PrincipalHubController{
		Hub:       hub,
		Validator: v,
		log:       logger.With().Str("component", "principal_hub_controller").Logger(),
	}
}

/* ===================== IDENTITY ===================== */

// identity resolves user and organization. Missing values are left as uuid.Nil
// so the hub reports them as orchestration errors. The school name falls back
// from the body to ?school_name to the token's display name.
func (h *PrincipalHubController) identity(c *fiber.Ctx, schoolName string) (service.Identity, error) {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil && !errors.Is(err, helperAuth.ErrUserMissing) {
		return service.Identity{}, err
	}

	orgID, err := helperAuth.ResolveOrganizationID(c, constants.PlatformRoles...)
	if err != nil && !errors.Is(err, helperAuth.ErrOrganizationContextMissing) {
		return service.Identity{}, err
	}

	if schoolName == "" {
		schoolName = strings.TrimSpace(c.Query("school_name"))
	}
	if schoolName == "" {
		schoolName = helperAuth.GetDisplayNameFromToken(c)
	}
	return service.Identity{UserID: userID, OrganizationID: orgID, SchoolName: schoolName}, nil
}

func (h *PrincipalHubController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingOrganization):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return helper.JsonError(c, fiber.StatusGatewayTimeout, "Dashboard is still loading, try again shortly")
	default:
		return helper.JsonError(c, fiber.StatusServiceUnavailable, helper.ErrorMessage(err))
	}
}

// respondState serves the last good data whenever there is some, even when
// the latest fetch failed; the state carries the error for the banner.
func (h *PrincipalHubController) respondState(c *fiber.Ctx, msg string, st dto.HubState, err error) error {
	if err != nil {
		h.log.Warn().Err(err).Str("path", c.Path()).Bool("has_data", st.HasData).Msg("principal hub request degraded")
		if !st.HasData {
			return h.fail(c, err)
		}
	}
	return helper.JsonOK(c, msg, st)
}

/* ===================== HANDLERS ===================== */

// GET /api/a/principal-hub
func (h *PrincipalHubController) GetDashboard(c *fiber.Ctx) error {
	id, err := h.identity(c, "")
	if err != nil {
		return err
	}
	st, err := h.Hub.Load(c.UserContext(), id)
	return h.respondState(c, "Principal hub loaded", st, err)
}

// GET /api/a/principal-hub/state
func (h *PrincipalHubController) GetState(c *fiber.Ctx) error {
	id, err := h.identity(c, "")
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Principal hub state", h.Hub.State(id))
}

// POST /api/a/principal-hub/refresh
func (h *PrincipalHubController) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	req.SchoolName = strings.TrimSpace(req.SchoolName)
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}

	id, err := h.identity(c, req.SchoolName)
	if err != nil {
		return err
	}
	st, err := h.Hub.Refresh(c.UserContext(), id)
	return h.respondState(c, "Principal hub refreshed", st, err)
}

// GET /api/a/principal-hub/metrics
func (h *PrincipalHubController) GetMetrics(c *fiber.Ctx) error {
	id, err := h.identity(c, "")
	if err != nil {
		return err
	}
	cards, st, err := h.Hub.Metrics(c.UserContext(), id)
	if err != nil && !st.HasData {
		return h.fail(c, err)
	}
	return helper.JsonList(c, "Principal hub metrics", cards, len(cards))
}

// GET /api/a/principal-hub/teachers
func (h *PrincipalHubController) GetTeachers(c *fiber.Ctx) error {
	id, err := h.identity(c, "")
	if err != nil {
		return err
	}
	teachers, st, err := h.Hub.TeachersWithStatus(c.UserContext(), id)
	if err != nil && !st.HasData {
		return h.fail(c, err)
	}
	return helper.JsonList(c, "Teachers with status", teachers, len(teachers))
}

// DELETE /api/a/principal-hub
func (h *PrincipalHubController) Release(c *fiber.Ctx) error {
	id, err := h.identity(c, "")
	if err != nil {
		return err
	}
	if id.UserID == uuid.Nil || id.OrganizationID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Organization and user are required")
	}
	released := h.Hub.Release(id)
	return helper.JsonDeleted(c, "Principal hub released", fiber.Map{"released": released})
}

func validationErrors(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = append(out[fe.Field()], fe.Tag())
		}
		return out
	}
	out["body"] = []string{err.Error()}
	return out
}
