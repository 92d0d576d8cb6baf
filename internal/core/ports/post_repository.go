package ports

import (
	"context"

	"github.com/publishcms/publish-api/internal/core/domain"
)

// ListPostsFilter carries all query parameters for listing posts.
type ListPostsFilter struct {
	AuthorID string            // optional: filter by author
	TagID    string            // optional: filter by tag membership
	Status   domain.PostStatus // optional: draft or published
	// SortField is "updated_at", "created_at", "published_at" or "title".
	// Empty means updated_at.
	SortField string
	// SortAsc orders ascending when true; default is descending.
	SortAsc bool
}

// PostRepository defines persistence operations for the content store.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	// List returns all posts matching filter in a stable order by the
	// requested sort key. The sequence is materialized fully; pagination is
	// not part of the contract.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// CountByAuthor reports how many posts reference the author. Used to
	// enforce the restrict delete policy on users.
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	// CountByTag reports how many posts reference the tag.
	CountByTag(ctx context.Context, tagID string) (int64, error)
}
