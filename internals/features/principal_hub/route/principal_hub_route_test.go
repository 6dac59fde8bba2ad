package route

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudash_backend/internals/features/principal_hub/dto"
	"edudash_backend/internals/features/principal_hub/service"
	helper "edudash_backend/internals/helpers"
	helperAuth "edudash_backend/internals/helpers/auth"
)

type stubRunner struct {
	mu    sync.Mutex
	err   error
	calls int
	last  service.Identity
}

func (r *stubRunner) Run(_ context.Context, id service.Identity) (dto.DashboardData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = id
	if r.err != nil {
		return dto.DashboardData{}, r.err
	}
	return dto.DashboardData{
		OrganizationID: id.OrganizationID,
		SchoolName:     id.SchoolName,
		Stats:          dto.SchoolStats{Students: dto.StatMetric{Total: 42}},
		Teachers: []dto.TeacherSummary{
			{FullName: "Thandi Mokoena", Performance: dto.BandExcellent},
		},
	}, nil
}

type principal struct {
	userID      uuid.UUID
	orgID       uuid.UUID
	roles       []string
	displayName string
}

func newTestApp(runner *stubRunner, who principal) (*fiber.App, *service.Hub) {
	hub := service.NewHub(runner, service.HubOptions{}, zerolog.Nop())
	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	api := app.Group("/api/a", func(c *fiber.Ctx) error {
		if who.userID != uuid.Nil {
			c.Locals(helperAuth.LocUserID, who.userID.String())
		}
		if who.orgID != uuid.Nil {
			c.Locals(helperAuth.LocOrganizationID, who.orgID.String())
		}
		if who.displayName != "" {
			c.Locals(helperAuth.LocDisplayName, who.displayName)
		}
		c.Locals(helperAuth.LocRoles, who.roles)
		return c.Next()
	})
	PrincipalHubAdminRoutes(api, hub, zerolog.Nop())
	return app, hub
}

func call(t *testing.T, app *fiber.App, method, target, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func principalUser() principal {
	return principal{userID: uuid.New(), orgID: uuid.New(), roles: []string{"principal"}}
}

func TestGetDashboard(t *testing.T) {
	r := &stubRunner{}
	who := principalUser()
	app, _ := newTestApp(r, who)

	code, body := call(t, app, fiber.MethodGet, "/api/a/principal-hub?school_name=Little%20Acorns", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["success"])

	state := body["data"].(map[string]any)
	assert.Equal(t, "ready", state["status"])
	assert.Equal(t, true, state["is_ready"])
	data := state["data"].(map[string]any)
	assert.Equal(t, "Little Acorns", data["school_name"])
	assert.Equal(t, who.orgID.String(), data["organization_id"])

	assert.Equal(t, who.userID, r.last.UserID)
}

func TestSchoolNameFallsBackToDisplayName(t *testing.T) {
	r := &stubRunner{}
	who := principalUser()
	who.displayName = "Sunflower Creche"
	app, _ := newTestApp(r, who)

	code, _ := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Sunflower Creche", r.last.SchoolName)

	code, _ = call(t, app, fiber.MethodPost, "/api/a/principal-hub/refresh", `{"school_name":"Little Acorns"}`, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Little Acorns", r.last.SchoolName, "an explicit name wins")
}

func TestRolesAndOrganizationContext(t *testing.T) {
	t.Run("parent is forbidden", func(t *testing.T) {
		who := principalUser()
		who.roles = []string{"parent"}
		app, _ := newTestApp(&stubRunner{}, who)

		code, body := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", nil)
		assert.Equal(t, fiber.StatusForbidden, code)
		assert.Equal(t, "FORBIDDEN", body["error_code"])
	})

	t.Run("no roles is unauthorized", func(t *testing.T) {
		who := principalUser()
		who.roles = nil
		app, _ := newTestApp(&stubRunner{}, who)

		code, _ := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("missing organization", func(t *testing.T) {
		r := &stubRunner{}
		who := principalUser()
		who.orgID = uuid.Nil
		app, _ := newTestApp(r, who)

		code, body := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", nil)
		assert.Equal(t, fiber.StatusBadRequest, code)
		assert.Equal(t, service.ErrMissingOrganization.Error(), body["message"])
		assert.Zero(t, r.calls)
	})

	t.Run("principal cannot switch organization", func(t *testing.T) {
		app, _ := newTestApp(&stubRunner{}, principalUser())

		code, _ := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", map[string]string{
			"X-Active-Organization-ID": uuid.NewString(),
		})
		assert.Equal(t, fiber.StatusForbidden, code)
	})

	t.Run("superadmin can switch organization", func(t *testing.T) {
		r := &stubRunner{}
		who := principalUser()
		who.roles = []string{"superadmin"}
		app, _ := newTestApp(r, who)
		target := uuid.New()

		code, _ := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", map[string]string{
			"X-Active-Organization-ID": target.String(),
		})
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, target, r.last.OrganizationID)
	})
}

func TestRefresh(t *testing.T) {
	r := &stubRunner{}
	app, _ := newTestApp(r, principalUser())

	code, body := call(t, app, fiber.MethodPost, "/api/a/principal-hub/refresh", `{"school_name":"  Sunflower Creche "}`, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Principal hub refreshed", body["message"])
	assert.Equal(t, "Sunflower Creche", r.last.SchoolName)

	code, _ = call(t, app, fiber.MethodPost, "/api/a/principal-hub/refresh", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 2, r.calls, "refresh bypasses the dedup window")

	code, body = call(t, app, fiber.MethodPost, "/api/a/principal-hub/refresh",
		`{"school_name":"`+strings.Repeat("a", 201)+`"}`, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Equal(t, map[string]any{"school_name": []any{"max"}}, body["errors"])

	code, _ = call(t, app, fiber.MethodPost, "/api/a/principal-hub/refresh", `{"school_name":`, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestFailedFetchWithoutData(t *testing.T) {
	r := &stubRunner{err: errors.New("principal hub: all dashboard queries failed")}
	app, _ := newTestApp(r, principalUser())

	code, body := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "INTERNAL_ERROR", body["error_code"])
	assert.Equal(t, r.err.Error(), body["message"])
}

func TestMetricsTeachersAndState(t *testing.T) {
	app, _ := newTestApp(&stubRunner{}, principalUser())

	code, body := call(t, app, fiber.MethodGet, "/api/a/principal-hub/state", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "idle", body["data"].(map[string]any)["status"])

	code, body = call(t, app, fiber.MethodGet, "/api/a/principal-hub/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(8), body["count"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Total Students", first["title"])
	assert.Equal(t, "42", first["value"])

	code, body = call(t, app, fiber.MethodGet, "/api/a/principal-hub/teachers", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	teacher := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Excellent", teacher["status"])

	code, body = call(t, app, fiber.MethodGet, "/api/a/principal-hub/state", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ready", body["data"].(map[string]any)["status"])
}

func TestRelease(t *testing.T) {
	app, hub := newTestApp(&stubRunner{}, principalUser())

	code, _ := call(t, app, fiber.MethodGet, "/api/a/principal-hub", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	require.Equal(t, 1, hub.Len())

	code, body := call(t, app, fiber.MethodDelete, "/api/a/principal-hub", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["data"].(map[string]any)["released"])
	assert.Zero(t, hub.Len())

	_, body = call(t, app, fiber.MethodDelete, "/api/a/principal-hub", "", nil)
	assert.Equal(t, false, body["data"].(map[string]any)["released"])
}
