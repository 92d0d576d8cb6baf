package domain

import "time"

// PostStatus is the lifecycle state of a post, derived from PublishedAt.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Post is the core content aggregate. Body is opaque markdown-compatible HTML;
// the editor owns its internal document model.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	AuthorID    string     `json:"author"`
	TagIDs      []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Status reports the lifecycle state: nil PublishedAt means draft.
func (p *Post) Status() PostStatus {
	if p.PublishedAt == nil {
		return StatusDraft
	}
	return StatusPublished
}

// VisibleTo reports whether the identity may read this post. Published posts
// are readable by any authenticated identity; drafts only by author or admin.
func (p *Post) VisibleTo(id Identity) bool {
	if p.PublishedAt != nil {
		return true
	}
	return id.IsAdmin() || p.AuthorID == id.UserID
}

// Tag is shared reference data, many-to-many with posts.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
