package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	apimw "github.com/publishcms/publish-api/internal/api/middleware"
	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/ports"
)

// stubUserService records calls and returns canned results.
type stubUserService struct {
	user    *domain.User
	users   []*domain.User
	exists  bool
	err     error
	gotID   string
	gotMail string
}

func (s *stubUserService) GetUser(_ context.Context, _ domain.Identity, userID string) (*domain.User, error) {
	s.gotID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) ListUsers(_ context.Context, _ domain.Identity) ([]*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

func (s *stubUserService) UpdateUser(_ context.Context, _ domain.Identity, userID string, _ ports.UpdateUserInput) (*domain.User, error) {
	s.gotID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) DeleteUser(_ context.Context, _ domain.Identity, userID string) error {
	s.gotID = userID
	return s.err
}

func (s *stubUserService) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.gotMail = email
	return s.exists, s.err
}

type identityAuthenticator struct {
	identity domain.Identity
}

func (a identityAuthenticator) Authenticate(context.Context, string) (domain.Identity, error) {
	return a.identity, nil
}

func serveUsers(t *testing.T, svc *stubUserService, id domain.Identity, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()
	h := NewUserHandler(svc)

	auth := apimw.Auth(identityAuthenticator{identity: id})
	g := e.Group("/users", auth)
	g.GET("", h.List)
	g.GET("/me", h.Me)
	g.PUT("/me", h.UpdateMe)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer t")
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func testUser() *domain.User {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.User{
		ID:        "u1",
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      domain.RoleEditor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserHandler_MeEmbedsRole(t *testing.T) {
	svc := &stubUserService{user: testUser()}
	id := domain.Identity{UserID: "u1", Username: "alice", Role: domain.RoleEditor}

	rec := serveUsers(t, svc, id, http.MethodGet, "/users/me?populate=*", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotID != "u1" {
		t.Fatalf("expected lookup of caller, got %q", svc.gotID)
	}

	var body struct {
		ID   string `json:"id"`
		Role struct {
			Name string `json:"name"`
		} `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != "u1" || body.Role.Name != domain.RoleEditor {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestUserHandler_EmailProbe(t *testing.T) {
	id := domain.Identity{UserID: "u1", Role: domain.RoleEditor}

	svc := &stubUserService{exists: true}
	rec := serveUsers(t, svc, id, http.MethodGet, "/users?filters[email][$eqi]=Bob@Example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotMail != "Bob@Example.com" {
		t.Fatalf("filter value not passed through, got %q", svc.gotMail)
	}
	var hits []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &hits); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}

	svc = &stubUserService{exists: false}
	rec = serveUsers(t, svc, id, http.MethodGet, "/users?filters[email][$eqi]=nobody@example.com", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &hits); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty result, got %d", len(hits))
	}
}

func TestUserHandler_UpdateMeValidation(t *testing.T) {
	svc := &stubUserService{user: testUser()}
	id := domain.Identity{UserID: "u1", Role: domain.RoleEditor}

	rec := serveUsers(t, svc, id, http.MethodPut, "/users/me", `{"email":"not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", rec.Code)
	}

	rec = serveUsers(t, svc, id, http.MethodPut, "/users/me", `{"email":"new@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_DeleteNoContent(t *testing.T) {
	svc := &stubUserService{}
	id := domain.Identity{UserID: "u1", Role: domain.RoleAdmin}

	rec := serveUsers(t, svc, id, http.MethodDelete, "/users/u2", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.gotID != "u2" {
		t.Fatalf("expected delete of u2, got %q", svc.gotID)
	}
}
