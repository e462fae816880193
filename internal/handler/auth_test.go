package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/company-dashboard/internal/config"
	"github.com/crmdesk/company-dashboard/internal/repository"
)

func newLogoutContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder, *AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewAuthHandler(config.Config{JWTSecret: "test-secret"},
		repository.NewUserRepo(db), repository.NewTokenRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec, h, mock
}

func TestLogoutWithoutBodyTokenRevokesAllSessions(t *testing.T) {
	c, rec, h, mock := newLogoutContext(t, `{}`)
	c.Set("user_id", float64(42))
	c.Set("role", "employee")

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutWithoutIdentityOrTokenIsUnauthorized(t *testing.T) {
	c, rec, h, mock := newLogoutContext(t, `{}`)

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Nothing was revoked.
	assert.NoError(t, mock.ExpectationsWereMet())
}
