// Package api is a thin HTTP client for the TaskKeeper server. It keeps the
// session token in memory for the lifetime of the process.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledovskis/taskkeeper/internal/common"
)

// ErrUnavailable reports that the server could not be reached at all, as
// opposed to an error response it returned.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Profile is the public part of the authenticated user.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task mirrors the wire representation of a task.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Client calls the TaskKeeper HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// Register creates an account and stores the issued session token.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	if err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// Login authenticates and stores the issued session token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// Logout invalidates the session token on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Profile returns the authenticated user's public profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTask adds a new task.
func (c *Client) CreateTask(ctx context.Context, description string) (*Task, error) {
	var out Task
	err := c.do(ctx, http.MethodPost, "/tasks", map[string]string{"description": description}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks lists the user's tasks. Empty filter/orderBy use server defaults.
func (c *Client) ListTasks(ctx context.Context, filter, orderBy string) ([]Task, error) {
	path := "/tasks"
	q := make([]string, 0, 2)
	if filter != "" {
		q = append(q, "filter="+filter)
	}
	if orderBy != "" {
		q = append(q, "orderBy="+orderBy)
	}
	for i, p := range q {
		if i == 0 {
			path += "?" + p
		} else {
			path += "&" + p
		}
	}

	var out []Task
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteTask marks the task complete.
func (c *Client) CompleteTask(ctx context.Context, id string) (*Task, error) {
	var out Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+id, map[string]string{"state": "COMPLETE"}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes the task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}
