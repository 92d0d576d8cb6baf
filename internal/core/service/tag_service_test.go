package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/publishcms/publish-api/internal/core/domain"
)

func newTagFixture() (*TagService, *stubTagRepo, *stubPostRepo) {
	tags := newStubTagRepo()
	posts := newStubPostRepo()
	svc := NewTagService(tags, posts, domain.NewPolicyEngine(), zerolog.Nop())
	return svc, tags, posts
}

var (
	tagAdmin  = domain.Identity{UserID: "u1", Username: "root", Role: domain.RoleAdmin}
	tagEditor = domain.Identity{UserID: "u2", Username: "alice", Role: domain.RoleEditor}
)

func TestTagService_CreateIdempotentByName(t *testing.T) {
	svc, tags, _ := newTagFixture()
	ctx := context.Background()

	first, err := svc.CreateTag(ctx, tagEditor, "Go")
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// same name again, different case: same tag back, no duplicate
	second, err := svc.CreateTag(ctx, tagEditor, "go")
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected tag %q, got %q", first.ID, second.ID)
	}
	if len(tags.tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags.tags))
	}
}

func TestTagService_CreateRejectsBlankName(t *testing.T) {
	svc, _, _ := newTagFixture()

	if _, err := svc.CreateTag(context.Background(), tagEditor, "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTagService_DeleteAdminOnly(t *testing.T) {
	svc, _, _ := newTagFixture()
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, tagEditor, "go")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.DeleteTag(ctx, tagEditor, tag.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for editor delete, got %v", err)
	}
	if err := svc.DeleteTag(ctx, tagAdmin, tag.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := svc.DeleteTag(ctx, tagAdmin, tag.ID); !errors.Is(err, domain.ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound on second delete, got %v", err)
	}
}

func TestTagService_DeleteRestrictedWhileReferenced(t *testing.T) {
	svc, tags, posts := newTagFixture()
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, tagAdmin, "go")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := posts.Create(ctx, &domain.Post{Title: "T", Slug: "t", AuthorID: "u2", TagIDs: []string{tag.ID}}); err != nil {
		t.Fatalf("seeding post: %v", err)
	}

	if err := svc.DeleteTag(ctx, tagAdmin, tag.ID); !errors.Is(err, domain.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	if _, err := tags.FindByID(ctx, tag.ID); err != nil {
		t.Fatalf("restricted delete must leave the tag intact: %v", err)
	}
}

func TestTagService_ListRequiresKnownRole(t *testing.T) {
	svc, _, _ := newTagFixture()

	nobody := domain.Identity{UserID: "u9", Role: "ghost"}
	if _, err := svc.ListTags(context.Background(), nobody); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown role, got %v", err)
	}
}
