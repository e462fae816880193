package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// APIError is a decoded error response from the dashboard API.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api: %d %s (field %s)", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the dashboard API and mirrors list responses into a
// local Store. All methods take a context and are safe for concurrent
// use.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Cache   *Store
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Cache:   NewStore(),
	}
}

// do performs one API call and returns the raw response body. Non-2xx
// responses are decoded into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers http.Header) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}
		_ = json.Unmarshal(raw, apiErr)
		return nil, apiErr
	}
	return raw, nil
}

// fetchList GETs a list endpoint, stores the raw payload under key and
// unmarshals it into out.
func (c *Client) fetchList(ctx context.Context, path string, key ListKey, out interface{}) error {
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return err
	}
	c.Cache.Set(key, raw)
	return nil
}

// Well-known cache keys for the dashboard lists.
const (
	KeyCompanies        ListKey = "companies"
	KeyMyCompanies      ListKey = "companies/my"
	KeyDataRequests     ListKey = "data-requests"
	KeyPendingRequests  ListKey = "data-requests/pending"
	KeyFacebookRequests ListKey = "facebook-requests"
	KeyPendingFacebook  ListKey = "facebook-requests/pending"
	KeyHolidays         ListKey = "holidays"
	KeyUsers            ListKey = "admin/users"
	KeyTodayComments    ListKey = "comments/today"
)

// CategoryKey returns the cache key for a category-filtered list.
func CategoryKey(category string, mine bool) ListKey {
	if mine {
		return ListKey("companies/category/" + category + "/my")
	}
	return ListKey("companies/category/" + category)
}

func (c *Client) Companies(ctx context.Context) ([]model.Company, error) {
	var out []model.Company
	err := c.fetchList(ctx, "/api/companies", KeyCompanies, &out)
	return out, err
}

func (c *Client) MyCompanies(ctx context.Context) ([]model.Company, error) {
	var out []model.Company
	err := c.fetchList(ctx, "/api/companies/my", KeyMyCompanies, &out)
	return out, err
}

func (c *Client) CompaniesByCategory(ctx context.Context, category string, mine bool) ([]model.Company, error) {
	path := "/api/companies/category/" + category
	if mine {
		path += "?mine=true"
	}
	var out []model.Company
	err := c.fetchList(ctx, path, CategoryKey(category, mine), &out)
	return out, err
}

func (c *Client) DataRequests(ctx context.Context) ([]model.DataRequest, error) {
	var out []model.DataRequest
	err := c.fetchList(ctx, "/api/data-requests", KeyDataRequests, &out)
	return out, err
}

func (c *Client) PendingDataRequests(ctx context.Context) ([]model.DataRequest, error) {
	var out []model.DataRequest
	err := c.fetchList(ctx, "/api/data-requests/pending", KeyPendingRequests, &out)
	return out, err
}

func (c *Client) FacebookRequests(ctx context.Context) ([]model.FacebookDataRequest, error) {
	var out []model.FacebookDataRequest
	err := c.fetchList(ctx, "/api/facebook-requests", KeyFacebookRequests, &out)
	return out, err
}

func (c *Client) PendingFacebookRequests(ctx context.Context) ([]model.FacebookDataRequest, error) {
	var out []model.FacebookDataRequest
	err := c.fetchList(ctx, "/api/facebook-requests/pending", KeyPendingFacebook, &out)
	return out, err
}

func (c *Client) Holidays(ctx context.Context) ([]model.Holiday, error) {
	var out []model.Holiday
	err := c.fetchList(ctx, "/api/holidays", KeyHolidays, &out)
	return out, err
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := c.fetchList(ctx, "/api/admin/users", KeyUsers, &out)
	return out, err
}

func (c *Client) TodayComments(ctx context.Context) ([]model.Comment, error) {
	var out []model.Comment
	err := c.fetchList(ctx, "/api/comments/today", KeyTodayComments, &out)
	return out, err
}
