package ports

import (
	"context"

	"github.com/publishcms/publish-api/internal/core/domain"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error)
	FindByID(ctx context.Context, id string) (*domain.Tag, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*domain.Tag, error)
	// List returns all tags ordered by name.
	List(ctx context.Context) ([]*domain.Tag, error)
	Delete(ctx context.Context, id string) error
}
