package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/ports"
)

// UserService implements identity management on top of the user repository
// and the policy engine.
type UserService struct {
	users  ports.UserRepository
	posts  ports.PostRepository
	policy *domain.PolicyEngine
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, posts ports.PostRepository, policy *domain.PolicyEngine, logger zerolog.Logger) *UserService {
	return &UserService{users: users, posts: posts, policy: policy, logger: logger}
}

func (s *UserService) GetUser(ctx context.Context, _ domain.Identity, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users. Admin only.
func (s *UserService) ListUsers(ctx context.Context, id domain.Identity) ([]*domain.User, error) {
	if err := s.policy.Authorize(id, domain.ActionUserList, domain.Resource{}); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	return users, nil
}

// UpdateUser patches a user record. Non-admins may only patch themselves, and
// may not change roles.
func (s *UserService) UpdateUser(ctx context.Context, id domain.Identity, userID string, patch ports.UpdateUserInput) (*domain.User, error) {
	if err := s.policy.Authorize(id, domain.ActionUserUpdate, domain.Resource{OwnerID: userID}); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if patch.Role != nil && *patch.Role != user.Role {
		if !id.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		if !domain.ValidRole(*patch.Role) {
			return nil, domain.ErrInvalidInput
		}
		user.Role = *patch.Role
	}

	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update user")
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("user updated")
	return updated, nil
}

// DeleteUser removes a user. Admin only, even for one's own account. The
// restrict policy rejects deletion while posts still reference the author.
func (s *UserService) DeleteUser(ctx context.Context, id domain.Identity, userID string) error {
	if err := s.policy.Authorize(id, domain.ActionUserDelete, domain.Resource{}); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	n, err := s.posts.CountByAuthor(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to count authored posts")
		return err
	}
	if n > 0 {
		return domain.ErrReferenced
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete user")
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ok, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to check email existence")
		return false, err
	}
	return ok, nil
}
