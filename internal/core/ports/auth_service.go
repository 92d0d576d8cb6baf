package ports

import (
	"context"

	"github.com/publishcms/publish-api/internal/core/domain"
)

// AuthService covers registration, login and token handling: the identity
// store's token minting plus the session gateway's authenticate step.
type AuthService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	// Login verifies credentials by username and returns a signed token plus
	// the user record.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// IssueToken mints a signed token asserting the given user id as subject.
	// Stateless: no session record is persisted.
	IssueToken(ctx context.Context, userID string) (string, error)
	// Authenticate validates a bearer token's signature and expiry and
	// resolves it to an identity. Returns domain.ErrUnauthenticated for
	// missing, malformed or expired tokens.
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}
