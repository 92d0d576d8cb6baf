package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
	err    error // when set, every call fails with it
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && (u.Username == user.Username || strings.EqualFold(u.Email, user.Email)) {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type stubPostRepo struct {
	posts  map[string]*domain.Post
	nextID int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	clone.TagIDs = append([]string(nil), p.TagIDs...)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		clone.PublishedAt = &t
	}
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return nil, domain.ErrSlugTaken
		}
	}
	r.nextID++
	clone := clonePost(post)
	clone.ID = fmt.Sprintf("p%d", r.nextID)
	r.posts[clone.ID] = clone
	return clonePost(clone), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if p, ok := r.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) FindBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) List(_ context.Context, filter ports.ListPostsFilter) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.TagID != "" && !contains(p.TagIDs, filter.TagID) {
			continue
		}
		if filter.Status == domain.StatusDraft && p.PublishedAt != nil {
			continue
		}
		if filter.Status == domain.StatusPublished && p.PublishedAt == nil {
			continue
		}
		out = append(out, clonePost(p))
	}
	return out, nil
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	for id, p := range r.posts {
		if id != post.ID && p.Slug == post.Slug {
			return nil, domain.ErrSlugTaken
		}
	}
	r.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) CountByAuthor(_ context.Context, authorID string) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (r *stubPostRepo) CountByTag(_ context.Context, tagID string) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if contains(p.TagIDs, tagID) {
			n++
		}
	}
	return n, nil
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

type stubTagRepo struct {
	tags   map[string]*domain.Tag
	nextID int
}

func newStubTagRepo() *stubTagRepo {
	return &stubTagRepo{tags: make(map[string]*domain.Tag)}
}

func (r *stubTagRepo) Create(_ context.Context, tag *domain.Tag) (*domain.Tag, error) {
	for _, t := range r.tags {
		if strings.EqualFold(t.Name, tag.Name) {
			return nil, domain.ErrTagExists
		}
	}
	r.nextID++
	created := &domain.Tag{ID: fmt.Sprintf("t%d", r.nextID), Name: tag.Name}
	r.tags[created.ID] = created
	return &domain.Tag{ID: created.ID, Name: created.Name}, nil
}

func (r *stubTagRepo) FindByID(_ context.Context, id string) (*domain.Tag, error) {
	if t, ok := r.tags[id]; ok {
		return &domain.Tag{ID: t.ID, Name: t.Name}, nil
	}
	return nil, domain.ErrTagNotFound
}

func (r *stubTagRepo) FindByName(_ context.Context, name string) (*domain.Tag, error) {
	for _, t := range r.tags {
		if strings.EqualFold(t.Name, name) {
			return &domain.Tag{ID: t.ID, Name: t.Name}, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

func (r *stubTagRepo) List(_ context.Context) ([]*domain.Tag, error) {
	out := make([]*domain.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, &domain.Tag{ID: t.ID, Name: t.Name})
	}
	return out, nil
}

func (r *stubTagRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tags[id]; !ok {
		return domain.ErrTagNotFound
	}
	delete(r.tags, id)
	return nil
}

type stubIdempotency struct {
	entries map[string]string
	lookups int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{entries: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, key string) (string, bool, error) {
	s.lookups++
	id, ok := s.entries[key]
	return id, ok, nil
}

func (s *stubIdempotency) Save(_ context.Context, key, postID string) error {
	s.entries[key] = postID
	return nil
}
