package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/publishcms/publish-api/internal/core/domain"
)

type stubAuthService struct {
	user     *domain.User
	token    string
	err      error
	called   bool
	gotRole  string
	gotName  string
	gotEmail string
}

func (s *stubAuthService) Register(_ context.Context, username, email, _, role string) (*domain.User, error) {
	s.called = true
	s.gotName = username
	s.gotEmail = email
	s.gotRole = role
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.token, s.user, nil
}

func (s *stubAuthService) IssueToken(context.Context, string) (string, error) {
	return s.token, s.err
}

func (s *stubAuthService) Authenticate(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, s.err
}

func serveAuth(t *testing.T, svc *stubAuthService, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()
	h := NewAuthHandler(svc)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_RegisterRejectsAdminRole(t *testing.T) {
	svc := &stubAuthService{user: testUser()}

	rec := serveAuth(t, svc, "/auth/register",
		`{"username":"mallory","email":"mallory@example.com","password":"longenough","role":"admin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for role=admin, got %d", rec.Code)
	}
	if svc.called {
		t.Fatal("service reached despite forbidden role in payload")
	}
}

func TestAuthHandler_RegisterDefaultsToEditor(t *testing.T) {
	svc := &stubAuthService{user: testUser()}

	rec := serveAuth(t, svc, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"longenough"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.called {
		t.Fatal("service not reached")
	}
	if svc.gotRole != "" {
		t.Fatalf("expected empty role passed through (service defaults to editor), got %q", svc.gotRole)
	}
}

func TestAuthHandler_RegisterAcceptsExplicitEditor(t *testing.T) {
	svc := &stubAuthService{user: testUser()}

	rec := serveAuth(t, svc, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"longenough","role":"editor"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotRole != domain.RoleEditor {
		t.Fatalf("expected editor role, got %q", svc.gotRole)
	}
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	svc := &stubAuthService{user: testUser()}

	rec := serveAuth(t, svc, "/auth/register", `{"username":"al","email":"bad","password":"short"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.called {
		t.Fatal("service reached despite invalid payload")
	}
}
