package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/publishcms/publish-api/internal/core/domain"
)

type stubAuthenticator struct {
	identity domain.Identity
	err      error
	gotToken string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	s.gotToken = token
	if s.err != nil {
		return domain.Identity{}, s.err
	}
	return s.identity, nil
}

func runAuth(t *testing.T, auth *stubAuthenticator, header string) (*httptest.ResponseRecorder, domain.Identity, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen domain.Identity
	var ok bool
	handler := Auth(auth)(func(c echo.Context) error {
		seen, ok = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen, ok
}

func TestAuth_ValidToken(t *testing.T) {
	auth := &stubAuthenticator{identity: domain.Identity{UserID: "u1", Username: "alice", Role: domain.RoleEditor}}

	rec, id, ok := runAuth(t, auth, "Bearer good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth.gotToken != "good-token" {
		t.Fatalf("expected token %q passed through, got %q", "good-token", auth.gotToken)
	}
	if !ok || id.UserID != "u1" {
		t.Fatalf("identity not injected: %+v ok=%v", id, ok)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	auth := &stubAuthenticator{}

	rec, _, ok := runAuth(t, auth, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if ok {
		t.Fatal("handler ran despite missing header")
	}
	if auth.gotToken != "" {
		t.Fatal("authenticator called without a header")
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	auth := &stubAuthenticator{}

	rec, _, _ := runAuth(t, auth, "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	auth := &stubAuthenticator{err: domain.ErrUnauthenticated}

	rec, _, ok := runAuth(t, auth, "Bearer expired")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if ok {
		t.Fatal("handler ran despite rejected token")
	}
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	auth := &stubAuthenticator{identity: domain.Identity{UserID: "u1", Role: domain.RoleEditor}}

	rec, _, _ := runAuth(t, auth, "bearer lowercased")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for lowercase scheme, got %d", rec.Code)
	}
}
