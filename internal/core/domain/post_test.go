package domain

import (
	"testing"
	"time"
)

func TestPost_Status(t *testing.T) {
	p := Post{}
	if p.Status() != StatusDraft {
		t.Fatalf("expected draft, got %q", p.Status())
	}

	now := time.Now()
	p.PublishedAt = &now
	if p.Status() != StatusPublished {
		t.Fatalf("expected published, got %q", p.Status())
	}
}

func TestPost_VisibleTo(t *testing.T) {
	author := Identity{UserID: "u1", Role: RoleEditor}
	stranger := Identity{UserID: "u2", Role: RoleEditor}
	admin := Identity{UserID: "u3", Role: RoleAdmin}

	draft := Post{AuthorID: "u1"}
	if !draft.VisibleTo(author) {
		t.Fatal("author cannot see own draft")
	}
	if !draft.VisibleTo(admin) {
		t.Fatal("admin cannot see draft")
	}
	if draft.VisibleTo(stranger) {
		t.Fatal("stranger can see foreign draft")
	}

	now := time.Now()
	published := Post{AuthorID: "u1", PublishedAt: &now}
	if !published.VisibleTo(stranger) {
		t.Fatal("published post hidden from authenticated reader")
	}
}
