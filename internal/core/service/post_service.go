package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/ports"
)

// IdempotencyStore abstracts the replay-protection store (Redis) used by
// post creation.
type IdempotencyStore interface {
	// Lookup returns the post id previously stored under key, if any.
	Lookup(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, postID string) error
}

// PostService implements the content query/command layer over posts.
type PostService struct {
	posts       ports.PostRepository
	users       ports.UserRepository
	tags        ports.TagRepository
	policy      *domain.PolicyEngine
	idempotency IdempotencyStore
	logger      zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	tags ports.TagRepository,
	policy *domain.PolicyEngine,
	idempotency IdempotencyStore,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		posts:       posts,
		users:       users,
		tags:        tags,
		policy:      policy,
		idempotency: idempotency,
		logger:      logger,
	}
}

// ListPosts returns posts matching input, default order updated_at descending.
// Drafts the caller may not see are filtered out after the store query.
func (s *PostService) ListPosts(ctx context.Context, id domain.Identity, input ports.ListPostsInput) ([]*domain.Post, error) {
	filter := ports.ListPostsFilter{
		AuthorID:  input.AuthorID,
		TagID:     input.TagID,
		SortField: input.SortField,
		SortAsc:   input.SortAsc,
	}
	switch input.Status {
	case "":
	case string(domain.StatusDraft), string(domain.StatusPublished):
		filter.Status = domain.PostStatus(input.Status)
	default:
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	all, err := s.posts.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list posts")
		return nil, err
	}

	visible := make([]*domain.Post, 0, len(all))
	for _, p := range all {
		if p.VisibleTo(id) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// GetPost resolves a post by id first, then by slug.
func (s *PostService) GetPost(ctx context.Context, id domain.Identity, idOrSlug string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, idOrSlug)
	if errors.Is(err, domain.ErrPostNotFound) {
		post, err = s.posts.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrPostNotFound) {
			s.logger.Error().Err(err).Str("post", idOrSlug).Msg("failed to get post")
		}
		return nil, err
	}

	if !post.VisibleTo(id) {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, id domain.Identity, input ports.CreatePostInput) (*domain.Post, error) {
	if err := s.policy.Authorize(id, domain.ActionPostCreate, domain.Resource{}); err != nil {
		return nil, err
	}

	// keys are scoped per caller so a colliding key cannot replay, and thereby
	// disclose, another author's post
	var idemKey string
	if input.IdempotencyKey != "" {
		idemKey = id.UserID + ":" + input.IdempotencyKey
		postID, ok, err := s.idempotency.Lookup(ctx, idemKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", idemKey).Msg("idempotency lookup failed, creating anyway")
		} else if ok {
			s.logger.Info().Str("key", idemKey).Str("post_id", postID).Msg("idempotent replay")
			return s.posts.FindByID(ctx, postID)
		}
	}

	authorID := input.AuthorID
	if authorID == "" {
		authorID = id.UserID
	}
	if authorID != id.UserID && !id.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: author %s does not exist", domain.ErrInvalidInput, authorID)
		}
		return nil, err
	}
	if err := s.checkTags(ctx, input.TagIDs); err != nil {
		return nil, err
	}

	slug := input.Slug
	if slug == "" {
		// the editor creates untitled drafts without a slug; a uuid nonce
		// keeps the uniqueness invariant until the author picks one
		slug = uuid.NewString()
	}
	if err := s.checkSlugFree(ctx, slug, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:       input.Title,
		Slug:        slug,
		Body:        input.Body,
		AuthorID:    authorID,
		TagIDs:      input.TagIDs,
		PublishedAt: input.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if post.TagIDs == nil {
		post.TagIDs = []string{}
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to create post")
		return nil, err
	}

	if idemKey != "" {
		if err := s.idempotency.Save(ctx, idemKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("key", idemKey).Msg("failed to save idempotency key")
		}
	}

	s.logger.Info().Str("post_id", created.ID).Str("slug", created.Slug).Str("author", authorID).Msg("post created")
	return created, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id domain.Identity, postID string, patch ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(id, domain.ActionPostUpdate, domain.Resource{OwnerID: post.AuthorID}); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Body != nil {
		post.Body = *patch.Body
	}
	if patch.Slug != nil && *patch.Slug != post.Slug {
		if err := s.checkSlugFree(ctx, *patch.Slug, post.ID); err != nil {
			return nil, err
		}
		post.Slug = *patch.Slug
	}
	if patch.AuthorID != nil && *patch.AuthorID != post.AuthorID {
		// reassigning authorship is an admin operation
		if !id.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		if _, err := s.users.FindByID(ctx, *patch.AuthorID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("%w: author %s does not exist", domain.ErrInvalidInput, *patch.AuthorID)
			}
			return nil, err
		}
		post.AuthorID = *patch.AuthorID
	}
	if patch.TagIDs != nil {
		if err := s.checkTags(ctx, *patch.TagIDs); err != nil {
			return nil, err
		}
		post.TagIDs = *patch.TagIDs
		if post.TagIDs == nil {
			post.TagIDs = []string{}
		}
	}
	if patch.PublishedAt != nil {
		// publish (nil -> timestamp) and unpublish (timestamp -> nil) are both
		// plain updates; no separate lifecycle state exists
		post.PublishedAt = *patch.PublishedAt
	}

	post.UpdatedAt = time.Now().UTC()

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("failed to update post")
		return nil, err
	}

	s.logger.Info().Str("post_id", postID).Str("status", string(updated.Status())).Msg("post updated")
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id domain.Identity, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.policy.Authorize(id, domain.ActionPostDelete, domain.Resource{OwnerID: post.AuthorID}); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("failed to delete post")
		return err
	}

	s.logger.Info().Str("post_id", postID).Str("slug", post.Slug).Msg("post deleted")
	return nil
}

func (s *PostService) checkSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return domain.ErrSlugTaken
}

func (s *PostService) checkTags(ctx context.Context, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := s.tags.FindByID(ctx, tagID); err != nil {
			if errors.Is(err, domain.ErrTagNotFound) {
				return fmt.Errorf("%w: tag %s does not exist", domain.ErrInvalidInput, tagID)
			}
			return err
		}
	}
	return nil
}
