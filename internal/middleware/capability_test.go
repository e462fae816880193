package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/company-dashboard/internal/model"
)

func runWithRole(t *testing.T, role interface{}, action model.Action) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	h := RequireCapability(action)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireCapabilityAllowed(t *testing.T) {
	rec := runWithRole(t, model.RoleTL, model.ActionApproveRequests)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCapabilityDenied(t *testing.T) {
	rec := runWithRole(t, model.RoleEmployee, model.ActionApproveRequests)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCapabilityAdminOnly(t *testing.T) {
	assert.Equal(t, http.StatusOK, runWithRole(t, model.RoleAdmin, model.ActionDeleteUsers).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, model.RoleManager, model.ActionDeleteUsers).Code)
}

func TestRequireCapabilityMissingRole(t *testing.T) {
	rec := runWithRole(t, nil, model.ActionApproveRequests)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCapabilityNonStringRole(t *testing.T) {
	rec := runWithRole(t, 42, model.ActionApproveRequests)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
