package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/company-dashboard/internal/repository"
	"github.com/crmdesk/company-dashboard/internal/service"
)

func newStatusContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder, *DataRequestHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	requests := repository.NewDataRequestRepo(db)
	engine := service.NewAssignmentEngine(db, requests,
		repository.NewCompanyRepo(db), repository.NewFacebookRepo(db), 10)
	h := NewDataRequestHandler(requests, engine)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/data-requests/7/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/data-requests/:id/status")
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", float64(9))
	c.Set("role", "manager")
	return c, rec, h, mock
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	for _, body := range []string{
		`{"status":"pending"}`,
		`{"status":"cancelled"}`,
		`{"status":""}`,
		`{}`,
	} {
		c, rec, h, mock := newStatusContext(t, body)
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		// The engine never ran: no transaction was opened.
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestUpdateStatusInvalidID(t *testing.T) {
	c, rec, h, _ := newStatusContext(t, `{"status":"approved"}`)
	c.SetParamValues("not-a-number")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusMissingUser(t *testing.T) {
	c, rec, h, _ := newStatusContext(t, `{"status":"approved"}`)
	c.Set("user_id", nil)
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
