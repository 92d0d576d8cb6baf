package ports

import (
	"context"

	"github.com/publishcms/publish-api/internal/core/domain"
)

// TagService defines the tag vocabulary operations.
type TagService interface {
	ListTags(ctx context.Context, id domain.Identity) ([]*domain.Tag, error)
	// CreateTag is idempotent by name: when a tag with the same name already
	// exists (case-insensitive) it is returned instead of an error.
	CreateTag(ctx context.Context, id domain.Identity, name string) (*domain.Tag, error)
	// DeleteTag removes a tag. Admin only; fails with domain.ErrReferenced
	// while posts still reference it.
	DeleteTag(ctx context.Context, id domain.Identity, tagID string) error
}
