package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/ports"
)

// TagService implements the shared tag vocabulary.
type TagService struct {
	tags   ports.TagRepository
	posts  ports.PostRepository
	policy *domain.PolicyEngine
	logger zerolog.Logger
}

func NewTagService(tags ports.TagRepository, posts ports.PostRepository, policy *domain.PolicyEngine, logger zerolog.Logger) *TagService {
	return &TagService{tags: tags, posts: posts, policy: policy, logger: logger}
}

func (s *TagService) ListTags(ctx context.Context, id domain.Identity) ([]*domain.Tag, error) {
	if err := s.policy.Authorize(id, domain.ActionTagList, domain.Resource{}); err != nil {
		return nil, err
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tags")
		return nil, err
	}
	return tags, nil
}

// CreateTag is idempotent by name: an existing tag with the same name
// (case-insensitive) is returned instead of a conflict.
func (s *TagService) CreateTag(ctx context.Context, id domain.Identity, name string) (*domain.Tag, error) {
	if err := s.policy.Authorize(id, domain.ActionTagCreate, domain.Resource{}); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.tags.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrTagNotFound) {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to look up tag")
		return nil, err
	}

	created, err := s.tags.Create(ctx, &domain.Tag{Name: name})
	if err != nil {
		// lost a race to another create; the unique index wins, return theirs
		if errors.Is(err, domain.ErrTagExists) {
			return s.tags.FindByName(ctx, name)
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create tag")
		return nil, err
	}

	s.logger.Info().Str("tag_id", created.ID).Str("name", name).Msg("tag created")
	return created, nil
}

// DeleteTag removes a tag. Admin only; restrict policy while referenced.
func (s *TagService) DeleteTag(ctx context.Context, id domain.Identity, tagID string) error {
	if err := s.policy.Authorize(id, domain.ActionTagDelete, domain.Resource{}); err != nil {
		return err
	}

	if _, err := s.tags.FindByID(ctx, tagID); err != nil {
		return err
	}

	n, err := s.posts.CountByTag(ctx, tagID)
	if err != nil {
		s.logger.Error().Err(err).Str("tag_id", tagID).Msg("failed to count tagged posts")
		return err
	}
	if n > 0 {
		return domain.ErrReferenced
	}

	if err := s.tags.Delete(ctx, tagID); err != nil {
		s.logger.Error().Err(err).Str("tag_id", tagID).Msg("failed to delete tag")
		return err
	}

	s.logger.Info().Str("tag_id", tagID).Msg("tag deleted")
	return nil
}
