package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// TempID returns a placeholder ID for an optimistically inserted
// record: the negated nanosecond clock. Successive calls are distinct,
// and when embedded into a uint64 ID field the two's-complement value
// lands far above any real auto-increment ID, so temp records can
// never be mistaken for server records.
func TempID() int64 {
	return -time.Now().UnixNano()
}

// Mutation describes one optimistic write. Apply edits the cache
// speculatively before the request is sent; Reconcile replaces the
// speculative state with the server's response after success. Both may
// be nil. Affected lists every cache key the mutation touches; they
// are snapshotted before Apply and restored as one unit when the
// server rejects the request.
type Mutation struct {
	Method    string
	Path      string
	Body      interface{}
	Affected  []ListKey
	Apply     func(s *Store)
	Reconcile func(s *Store, response []byte)
}

// Do executes a mutation against the API. On any error — transport or
// non-2xx — every affected list is restored byte-for-byte to its
// pre-mutation state and the error returned. On success Reconcile runs
// and all affected keys are marked stale so the next read refetches.
// Each attempt carries a fresh idempotency key so a retried request
// can be deduplicated server-side.
func (c *Client) Do(ctx context.Context, m Mutation) ([]byte, error) {
	snap := c.Cache.Snapshot(m.Affected...)
	if m.Apply != nil {
		m.Apply(c.Cache)
	}

	headers := http.Header{}
	headers.Set("X-Idempotency-Key", uuid.NewString())

	raw, err := c.do(ctx, m.Method, m.Path, m.Body, headers)
	if err != nil {
		c.Cache.Restore(snap)
		return nil, err
	}

	if m.Reconcile != nil {
		m.Reconcile(c.Cache, raw)
	}
	for _, k := range m.Affected {
		c.Cache.MarkStale(k)
	}
	return raw, nil
}

// appendToList decodes the cached list under key, appends item and
// writes the list back. A missing cache entry is left missing: there
// is nothing to edit optimistically.
func appendToList[T any](s *Store, key ListKey, item T) {
	data, _, ok := s.Get(key)
	if !ok {
		return
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return
	}
	list = append(list, item)
	if buf, err := json.Marshal(list); err == nil {
		s.Set(key, buf)
	}
}

// removeFromList drops the entries for which match returns true.
func removeFromList[T any](s *Store, key ListKey, match func(T) bool) {
	data, _, ok := s.Get(key)
	if !ok {
		return
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return
	}
	kept := list[:0]
	for _, it := range list {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	if buf, err := json.Marshal(kept); err == nil {
		s.Set(key, buf)
	}
}

// replaceByID swaps the entry whose ID matches tempID for the server
// record decoded from response.
func replaceByID[T any](s *Store, key ListKey, tempID uint64, response []byte, idOf func(T) uint64) {
	var record T
	if err := json.Unmarshal(response, &record); err != nil {
		return
	}
	data, _, ok := s.Get(key)
	if !ok {
		return
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return
	}
	for i := range list {
		if idOf(list[i]) == tempID {
			list[i] = record
		}
	}
	if buf, err := json.Marshal(list); err == nil {
		s.Set(key, buf)
	}
}

// ----- typed mutation helpers -----

// CreateDataRequest optimistically appends a pending request to the
// user's request list, then reconciles it with the stored record.
func (c *Client) CreateDataRequest(ctx context.Context, requestType string, industry *string, justification string) (*model.DataRequest, error) {
	tempID := uint64(TempID())
	temp := model.DataRequest{
		ID:            tempID,
		RequestType:   requestType,
		Industry:      industry,
		Justification: justification,
		Status:        model.RequestStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	raw, err := c.Do(ctx, Mutation{
		Method: http.MethodPost,
		Path:   "/api/data-requests",
		Body: map[string]interface{}{
			"request_type":  requestType,
			"industry":      industry,
			"justification": justification,
		},
		Affected: []ListKey{KeyDataRequests},
		Apply: func(s *Store) {
			appendToList(s, KeyDataRequests, temp)
		},
		Reconcile: func(s *Store, response []byte) {
			replaceByID(s, KeyDataRequests, tempID, response,
				func(r model.DataRequest) uint64 { return r.ID })
		},
	})
	if err != nil {
		return nil, err
	}
	var dr model.DataRequest
	if err := json.Unmarshal(raw, &dr); err != nil {
		return nil, err
	}
	return &dr, nil
}

// CreateFacebookRequest mirrors CreateDataRequest for the facebook
// data pool.
func (c *Client) CreateFacebookRequest(ctx context.Context, justification string) (*model.FacebookDataRequest, error) {
	tempID := uint64(TempID())
	temp := model.FacebookDataRequest{
		ID:            tempID,
		Justification: justification,
		Status:        model.RequestStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	raw, err := c.Do(ctx, Mutation{
		Method:   http.MethodPost,
		Path:     "/api/facebook-requests",
		Body:     map[string]string{"justification": justification},
		Affected: []ListKey{KeyFacebookRequests},
		Apply: func(s *Store) {
			appendToList(s, KeyFacebookRequests, temp)
		},
		Reconcile: func(s *Store, response []byte) {
			replaceByID(s, KeyFacebookRequests, tempID, response,
				func(r model.FacebookDataRequest) uint64 { return r.ID })
		},
	})
	if err != nil {
		return nil, err
	}
	var fr model.FacebookDataRequest
	if err := json.Unmarshal(raw, &fr); err != nil {
		return nil, err
	}
	return &fr, nil
}

// UpdateRequestStatus decides a pending request. The pending list and
// the requester-visible list change together: the request disappears
// from pending and flips status in the full list, and both roll back
// together when the server refuses (e.g. 409 already decided).
func (c *Client) UpdateRequestStatus(ctx context.Context, id uint64, status string) (*model.DataRequest, error) {
	raw, err := c.Do(ctx, Mutation{
		Method:   http.MethodPut,
		Path:     "/api/data-requests/" + itoa(id) + "/status",
		Body:     map[string]string{"status": status},
		Affected: []ListKey{KeyDataRequests, KeyPendingRequests},
		Apply: func(s *Store) {
			removeFromList(s, KeyPendingRequests,
				func(r model.DataRequest) bool { return r.ID == id })
			setRequestStatus(s, KeyDataRequests, id, status)
		},
	})
	if err != nil {
		return nil, err
	}
	var dr model.DataRequest
	if err := json.Unmarshal(raw, &dr); err != nil {
		return nil, err
	}
	return &dr, nil
}

// setRequestStatus flips the status of one request in a cached list.
func setRequestStatus(s *Store, key ListKey, id uint64, status string) {
	data, _, ok := s.Get(key)
	if !ok {
		return
	}
	var list []model.DataRequest
	if err := json.Unmarshal(data, &list); err != nil {
		return
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Status = status
		}
	}
	if buf, err := json.Marshal(list); err == nil {
		s.Set(key, buf)
	}
}

// CreateCompany optimistically appends to both the full and the
// per-user company lists.
func (c *Client) CreateCompany(ctx context.Context, company model.Company) (*model.Company, error) {
	tempID := uint64(TempID())
	temp := company
	temp.ID = tempID
	if temp.Status == "" {
		temp.Status = model.CompanyStatusActive
	}
	if temp.Category == "" {
		temp.Category = model.CategoryAssigned
	}
	raw, err := c.Do(ctx, Mutation{
		Method:   http.MethodPost,
		Path:     "/api/companies",
		Body:     company,
		Affected: []ListKey{KeyCompanies, KeyMyCompanies},
		Apply: func(s *Store) {
			appendToList(s, KeyCompanies, temp)
			appendToList(s, KeyMyCompanies, temp)
		},
		Reconcile: func(s *Store, response []byte) {
			idOf := func(cm model.Company) uint64 { return cm.ID }
			replaceByID(s, KeyCompanies, tempID, response, idOf)
			replaceByID(s, KeyMyCompanies, tempID, response, idOf)
		},
	})
	if err != nil {
		return nil, err
	}
	var created model.Company
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCompany optimistically removes the company from both lists.
func (c *Client) DeleteCompany(ctx context.Context, id uint64) error {
	match := func(cm model.Company) bool { return cm.ID == id }
	_, err := c.Do(ctx, Mutation{
		Method:   http.MethodDelete,
		Path:     "/api/companies/" + itoa(id),
		Affected: []ListKey{KeyCompanies, KeyMyCompanies},
		Apply: func(s *Store) {
			removeFromList(s, KeyCompanies, match)
			removeFromList(s, KeyMyCompanies, match)
		},
	})
	return err
}

// CreateHoliday optimistically appends to the holiday calendar.
func (c *Client) CreateHoliday(ctx context.Context, name, date string, description *string, duration string) (*model.Holiday, error) {
	tempID := uint64(TempID())
	parsed, _ := time.Parse("2006-01-02", date)
	temp := model.Holiday{
		ID: tempID, Name: name, Date: parsed,
		Description: description, Duration: duration,
	}
	raw, err := c.Do(ctx, Mutation{
		Method: http.MethodPost,
		Path:   "/api/holidays",
		Body: map[string]interface{}{
			"name": name, "date": date,
			"description": description, "duration": duration,
		},
		Affected: []ListKey{KeyHolidays},
		Apply: func(s *Store) {
			appendToList(s, KeyHolidays, temp)
		},
		Reconcile: func(s *Store, response []byte) {
			replaceByID(s, KeyHolidays, tempID, response,
				func(hd model.Holiday) uint64 { return hd.ID })
		},
	})
	if err != nil {
		return nil, err
	}
	var created model.Holiday
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteHoliday optimistically removes a calendar entry.
func (c *Client) DeleteHoliday(ctx context.Context, id uint64) error {
	_, err := c.Do(ctx, Mutation{
		Method:   http.MethodDelete,
		Path:     "/api/holidays/" + itoa(id),
		Affected: []ListKey{KeyHolidays},
		Apply: func(s *Store) {
			removeFromList(s, KeyHolidays,
				func(hd model.Holiday) bool { return hd.ID == id })
		},
	})
	return err
}

// CreateUser registers a new account through the admin flow. The users
// list is only marked stale, not edited: the server response nests the
// user inside an auth payload, so there is no clean record to splice.
func (c *Client) CreateUser(ctx context.Context, username, email, password, fullName, employeeID, role string) error {
	_, err := c.Do(ctx, Mutation{
		Method: http.MethodPost,
		Path:   "/api/auth/register",
		Body: map[string]string{
			"username": username, "email": email, "password": password,
			"full_name": fullName, "employee_id": employeeID, "role": role,
		},
		Affected: []ListKey{KeyUsers},
	})
	return err
}

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }
