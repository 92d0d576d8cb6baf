// Package client is the typed façade the editor front-end toolchain uses to
// talk to the publishing API. Every method is a single HTTP round trip with a
// bearer token; any non-2xx response surfaces as an *APIError named after the
// failed operation. There is no retry or request coalescing — failures are
// the caller's to handle.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// APIError is the typed failure for any non-2xx response.
type APIError struct {
	// Op is the failed operation, e.g. "getUsers".
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: %s (status %d)", e.Op, e.Message, e.StatusCode)
}

// Client issues authenticated requests against the publishing API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New returns a Client for the API at baseURL authenticating with token.
// The base URL comes from the environment of the embedding application.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Wire types ---

type Role struct {
	Name string `json:"name"`
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NullableTime distinguishes leaving published_at untouched (zero value,
// omitted from the patch) from sending an explicit null, which is the
// unpublish transition.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

// PublishAt marks the patch to set published_at to t.
func PublishAt(t time.Time) NullableTime {
	return NullableTime{Set: true, Value: &t}
}

// Unpublish marks the patch to clear published_at, returning the post to
// draft.
func Unpublish() NullableTime {
	return NullableTime{Set: true}
}

func (n NullableTime) IsZero() bool { return !n.Set }

func (n NullableTime) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// PostFields is the payload for creating or updating a post. Omitted fields
// are left untouched on update.
type PostFields struct {
	Title       *string      `json:"title,omitempty"`
	Slug        *string      `json:"slug,omitempty"`
	Body        *string      `json:"body,omitempty"`
	Tags        *[]string    `json:"tags,omitempty"`
	Author      *string      `json:"author,omitempty"`
	PublishedAt NullableTime `json:"published_at,omitzero"`
}

type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// --- Auth ---

// Login authenticates and returns the bearer token plus the user record.
// The token is retained for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, *User, error) {
	body := map[string]string{"username": username, "password": password}
	var out loginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return "", nil, err
	}
	c.token = out.Token
	return out.Token, out.User, nil
}

// --- Users ---

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, "getMe", http.MethodGet, "/users/me", url.Values{"populate": {"*"}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMe(ctx context.Context, patch UserPatch) (*User, error) {
	var out User
	if err := c.do(ctx, "updateMe", http.MethodPut, "/users/me", nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, "getUsers", http.MethodGet, "/users", url.Values{"populate": {"*"}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserExists reports whether a user with the given email exists,
// case-insensitively.
func (c *Client) UserExists(ctx context.Context, email string) (bool, error) {
	var out []json.RawMessage
	q := url.Values{"filters[email][$eqi]": {email}}
	if err := c.do(ctx, "userExists", http.MethodGet, "/users", q, nil, &out); err != nil {
		return false, err
	}
	return len(out) > 0, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var out User
	q := url.Values{"populate": {"role"}}
	if err := c.do(ctx, "getUser", http.MethodGet, "/users/"+userID, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID string, patch UserPatch) (*User, error) {
	var out User
	if err := c.do(ctx, "updateUser", http.MethodPut, "/users/"+userID, nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, "deleteUser", http.MethodDelete, "/users/"+userID, nil, nil, nil)
}

// --- Posts ---

// GetPosts lists posts. Zero-value filter fields are omitted from the query.
func (c *Client) GetPosts(ctx context.Context, author, tag, status string) ([]Post, error) {
	q := url.Values{}
	if author != "" {
		q.Set("author", author)
	}
	if tag != "" {
		q.Set("tag", tag)
	}
	if status != "" {
		q.Set("status", status)
	}

	var out dataEnvelope[[]Post]
	if err := c.do(ctx, "getPosts", http.MethodGet, "/posts", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) GetPost(ctx context.Context, idOrSlug string) (*Post, error) {
	var out dataEnvelope[*Post]
	if err := c.do(ctx, "getPost", http.MethodGet, "/posts/"+idOrSlug, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreatePost creates a post. A fresh Idempotency-Key accompanies every call
// so a retried request cannot create a second post server-side.
func (c *Client) CreatePost(ctx context.Context, fields PostFields) (*Post, error) {
	headers := http.Header{"Idempotency-Key": {uuid.NewString()}}
	var out dataEnvelope[*Post]
	if err := c.doWithHeaders(ctx, "createPost", http.MethodPost, "/posts", nil, dataEnvelope[PostFields]{Data: fields}, &out, headers); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID string, fields PostFields) (*Post, error) {
	var out dataEnvelope[*Post]
	if err := c.do(ctx, "updatePost", http.MethodPut, "/posts/"+postID, nil, dataEnvelope[PostFields]{Data: fields}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, "deletePost", http.MethodDelete, "/posts/"+postID, nil, nil, nil)
}

// --- Tags ---

func (c *Client) GetTags(ctx context.Context) ([]Tag, error) {
	var out dataEnvelope[[]Tag]
	if err := c.do(ctx, "getTags", http.MethodGet, "/tags", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (*Tag, error) {
	var out dataEnvelope[*Tag]
	if err := c.do(ctx, "createTag", http.MethodPost, "/tags", nil, map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// --- Transport ---

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	return c.doWithHeaders(ctx, op, method, path, query, body, out, nil)
}

func (c *Client) doWithHeaders(ctx context.Context, op, method, path string, query url.Values, body, out any, headers http.Header) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{Op: op, StatusCode: res.StatusCode, Message: readErrorMessage(res.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// readErrorMessage extracts the {"error": ...} envelope; callers must not
// rely on partial parsing of failed responses beyond this message.
func readErrorMessage(r io.Reader) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil || envelope.Error == "" {
		return "unexpected response"
	}
	return envelope.Error
}
