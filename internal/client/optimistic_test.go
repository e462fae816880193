package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/company-dashboard/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-token")
}

func TestCreateDataRequestReconcilesTempRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/data-requests", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Idempotency-Key"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":88,"user_id":42,"request_type":"company_data","justification":"need leads","status":"pending","companies_assigned":0}`))
	})
	c.Cache.Set(KeyDataRequests, []byte(`[]`))

	dr, err := c.CreateDataRequest(context.Background(), "company_data", nil, "need leads")
	require.NoError(t, err)
	assert.Equal(t, uint64(88), dr.ID)

	// The temp entry was replaced by the server record and the list
	// flagged for refetch.
	data, stale, ok := c.Cache.Get(KeyDataRequests)
	require.True(t, ok)
	assert.True(t, stale)
	var list []model.DataRequest
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, uint64(88), list[0].ID)
	assert.Equal(t, model.RequestStatusPending, list[0].Status)
}

func TestFailedMutationRestoresListByteForByte(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"request already decided"}`))
	})
	original := []byte(`[{"id":7,"user_id":42,"request_type":"company_data","industry":null,"justification":"need leads","status":"pending","approved_by":null,"companies_assigned":0,"created_at":"2026-03-09T10:00:00Z","updated_at":"2026-03-09T10:00:00Z"}]`)
	pending := []byte(`[{"id":7,"user_id":42,"request_type":"company_data","industry":null,"justification":"need leads","status":"pending","approved_by":null,"companies_assigned":0,"created_at":"2026-03-09T10:00:00Z","updated_at":"2026-03-09T10:00:00Z"}]`)
	c.Cache.Set(KeyDataRequests, original)
	c.Cache.Set(KeyPendingRequests, pending)

	_, err := c.UpdateRequestStatus(context.Background(), 7, model.RequestStatusApproved)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "request already decided", apiErr.Message)

	// Both affected lists are back to their exact pre-mutation bytes.
	gotAll, _, _ := c.Cache.Get(KeyDataRequests)
	gotPending, _, _ := c.Cache.Get(KeyPendingRequests)
	assert.Equal(t, original, gotAll)
	assert.Equal(t, pending, gotPending)
}

func TestUpdateRequestStatusAppliesToBothLists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data-requests/7/status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "approved", body["status"])
		_, _ = w.Write([]byte(`{"id":7,"user_id":42,"status":"approved","companies_assigned":10}`))
	})
	c.Cache.Set(KeyDataRequests, []byte(`[{"id":7,"status":"pending"}]`))
	c.Cache.Set(KeyPendingRequests, []byte(`[{"id":7,"status":"pending"},{"id":8,"status":"pending"}]`))

	dr, err := c.UpdateRequestStatus(context.Background(), 7, model.RequestStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 10, dr.CompaniesAssigned)

	var all []model.DataRequest
	data, _, _ := c.Cache.Get(KeyDataRequests)
	require.NoError(t, json.Unmarshal(data, &all))
	require.Len(t, all, 1)
	assert.Equal(t, model.RequestStatusApproved, all[0].Status)

	var pend []model.DataRequest
	data, _, _ = c.Cache.Get(KeyPendingRequests)
	require.NoError(t, json.Unmarshal(data, &pend))
	require.Len(t, pend, 1)
	assert.Equal(t, uint64(8), pend[0].ID)
}

func TestDeleteCompanyRollsBackOnForbidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	})
	original := []byte(`[{"id":5,"name":"Alpha Tech Solutions"}]`)
	c.Cache.Set(KeyCompanies, original)
	c.Cache.Set(KeyMyCompanies, original)

	err := c.DeleteCompany(context.Background(), 5)
	require.Error(t, err)

	gotAll, _, _ := c.Cache.Get(KeyCompanies)
	gotMine, _, _ := c.Cache.Get(KeyMyCompanies)
	assert.Equal(t, original, gotAll)
	assert.Equal(t, original, gotMine)
}

func TestFetchListFillsCache(t *testing.T) {
	payload := `[{"id":1,"name":"Alpha Tech Solutions","category":"assigned"}]`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/companies", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	})

	companies, err := c.Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Alpha Tech Solutions", companies[0].Name)

	data, stale, ok := c.Cache.Get(KeyCompanies)
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, []byte(payload), data)
}

func TestPendingFacebookRequestsFillCache(t *testing.T) {
	payload := `[{"id":3,"user_id":42,"status":"pending"}]`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/facebook-requests/pending", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	})

	reqs, err := c.PendingFacebookRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, uint64(3), reqs[0].ID)

	data, _, ok := c.Cache.Get(KeyPendingFacebook)
	require.True(t, ok)
	assert.Equal(t, []byte(payload), data)
}

func TestAPIErrorCarriesDuplicateField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"employee_id already exists","field":"employee_id"}`))
	})

	err := c.CreateUser(context.Background(), "jdoe", "jdoe@company.local", "secret", "J Doe", "EMP0042", "employee")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "employee_id", apiErr.Field)
	assert.Contains(t, apiErr.Error(), "employee_id")
}
