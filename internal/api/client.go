package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lis_client/internal/model"
)

// Client speaks the LIS backend's HTTP interface: query-parameter requests,
// a "token" header on authenticated calls, and {"detail": "..."} error
// bodies. It is the only place in the client that talks HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LoginResponse is the payload returned by POST /login/.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
}

// detailResponse is the backend's error (and some success) body shape.
type detailResponse struct {
	Detail string `json:"detail"`
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses become *Error of the given kind, except 401 which is
// always ErrAuth. Transport failures become ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, kind error, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if token != "" {
		req.Header.Set("token", token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: ErrNetwork, Detail: fmt.Sprintf("request %s %s failed: %v", method, path, err)}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &Error{Kind: ErrNetwork, Detail: fmt.Sprintf("read response for %s %s: %v", method, path, err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		k := kind
		if res.StatusCode == http.StatusUnauthorized {
			k = ErrAuth
		}
		var dr detailResponse
		_ = json.Unmarshal(body, &dr)
		if dr.Detail == "" {
			dr.Detail = strings.TrimSpace(string(body))
		}
		return &Error{Kind: k, StatusCode: res.StatusCode, Detail: dr.Detail}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response for %s %s: %w", method, path, err)
		}
	}
	return nil
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, name, password string) (*LoginResponse, error) {
	q := url.Values{"name": {name}, "password": {password}}
	var res LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login/", q, "", ErrAuth, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateUser creates a new user account. Admin only; the backend enforces it.
func (c *Client) CreateUser(ctx context.Context, token, name, password string, role model.Role) (*model.User, error) {
	q := url.Values{"name": {name}, "password": {password}, "role": {role.String()}}
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/Users/", q, token, ErrValidation, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every user account. Admin only.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/Users/", nil, token, ErrValidation, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user account and returns the backend's confirmation
// message. Deletion is irreversible.
func (c *Client) DeleteUser(ctx context.Context, token, targetID, adminID string) (string, error) {
	q := url.Values{"admin_id": {adminID}}
	var dr detailResponse
	if err := c.do(ctx, http.MethodDelete, "/Users/"+url.PathEscape(targetID), q, token, ErrValidation, &dr); err != nil {
		return "", err
	}
	return dr.Detail, nil
}

// PromoteUser rewrites a user's role in place and returns the backend's
// confirmation message.
func (c *Client) PromoteUser(ctx context.Context, token, targetID string, newRole model.Role, adminID string) (string, error) {
	q := url.Values{"new_role": {newRole.String()}, "admin_id": {adminID}}
	var dr detailResponse
	if err := c.do(ctx, http.MethodPost, "/Users/"+url.PathEscape(targetID)+"/promote", q, token, ErrValidation, &dr); err != nil {
		return "", err
	}
	return dr.Detail, nil
}

// GeneratePatients asks the backend to generate a fresh pool of patients and
// returns it. Patients already consumed by an entry survive the regeneration.
func (c *Client) GeneratePatients(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := c.do(ctx, http.MethodPost, "/Patients/", nil, "", ErrValidation, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// ListPatients returns the current patient pool without generating.
func (c *Client) ListPatients(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := c.do(ctx, http.MethodGet, "/Patients/", nil, "", ErrValidation, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// ListEntries returns every entry regardless of status.
func (c *Client) ListEntries(ctx context.Context) ([]model.Entry, error) {
	var entries []model.Entry
	if err := c.do(ctx, http.MethodGet, "/Entry/", nil, "", ErrValidation, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateEntry orders a test for a patient. The backend rejects a patient id
// already referenced by an existing entry.
func (c *Client) CreateEntry(ctx context.Context, patientID, testName, userID, userName string) (*model.Entry, error) {
	q := url.Values{
		"patient_id": {patientID},
		"test_name":  {testName},
		"user_id":    {userID},
		"user_name":  {userName},
	}
	var e model.Entry
	if err := c.do(ctx, http.MethodPost, "/Entry/", q, "", ErrValidation, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ProcessEntry moves a Pending entry to Processed.
func (c *Client) ProcessEntry(ctx context.Context, entryID int, userID string) (*model.Entry, error) {
	q := url.Values{"user_id": {userID}}
	var e model.Entry
	if err := c.do(ctx, http.MethodPost, "/Entry/"+strconv.Itoa(entryID)+"/process", q, "", ErrState, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// VerifyEntry moves a Processed entry to Verified and records its result.
func (c *Client) VerifyEntry(ctx context.Context, entryID int, result model.Result, userID string) (*model.Entry, error) {
	q := url.Values{"result": {string(result)}, "user_id": {userID}}
	var e model.Entry
	if err := c.do(ctx, http.MethodPost, "/Entry/"+strconv.Itoa(entryID)+"/verify", q, "", ErrState, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
