package ports

import (
	"context"
	"time"

	"github.com/publishcms/publish-api/internal/core/domain"
)

// CreatePostInput carries all data needed to create a post. AuthorID defaults
// to the caller when empty; only admins may set a different author.
type CreatePostInput struct {
	Title    string
	Slug     string
	Body     string
	TagIDs   []string
	AuthorID string
	// PublishedAt is nil for the usual draft-first flow; a non-nil value
	// creates the post already published.
	PublishedAt *time.Time
	// IdempotencyKey, when non-empty, makes the create replay-safe: a repeated
	// key returns the previously created post without side effects.
	IdempotencyKey string
}

// UpdatePostInput is a partial patch; nil fields are left untouched.
// PublishedAt uses a double pointer so the patch can distinguish "unset"
// (outer nil) from "set to null", which is the unpublish transition.
type UpdatePostInput struct {
	Title       *string
	Slug        *string
	Body        *string
	TagIDs      *[]string
	AuthorID    *string
	PublishedAt **time.Time
}

// ListPostsInput carries the list query plus the caller for draft filtering.
type ListPostsInput struct {
	AuthorID  string
	TagID     string
	Status    string
	SortField string
	SortAsc   bool
}

// PostService defines the query/command operations over posts. Every call is
// scoped by the caller identity; mutations pass through the policy engine.
type PostService interface {
	ListPosts(ctx context.Context, id domain.Identity, input ListPostsInput) ([]*domain.Post, error)
	// GetPost resolves by id or slug. Drafts are only visible to author/admin.
	GetPost(ctx context.Context, id domain.Identity, idOrSlug string) (*domain.Post, error)
	CreatePost(ctx context.Context, id domain.Identity, input CreatePostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, id domain.Identity, postID string, patch UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id domain.Identity, postID string) error
}
