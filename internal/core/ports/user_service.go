package ports

import (
	"context"

	"github.com/publishcms/publish-api/internal/core/domain"
)

// UpdateUserInput is a partial patch on a user record; nil fields are left
// untouched. Role changes are admin-only regardless of target.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UserService defines admin-facing identity management plus the self-service
// operations the editor exposes ("me").
type UserService interface {
	// GetUser returns a user by id. Any authenticated identity may look up
	// users (author bylines in the editor need this).
	GetUser(ctx context.Context, id domain.Identity, userID string) (*domain.User, error)
	// ListUsers returns all users. Admin only.
	ListUsers(ctx context.Context, id domain.Identity) ([]*domain.User, error)
	// UpdateUser patches a user record. Self or admin.
	UpdateUser(ctx context.Context, id domain.Identity, userID string, patch UpdateUserInput) (*domain.User, error)
	// DeleteUser removes a user. Admin only; fails with domain.ErrReferenced
	// while the user still authors posts.
	DeleteUser(ctx context.Context, id domain.Identity, userID string) error
	// ExistsByEmail reports a case-insensitive email match.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
