package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/publishcms/publish-api/internal/core/domain"
)

// nullableTime distinguishes an absent published_at (no-op) from an explicit
// null (the unpublish transition). UnmarshalJSON only runs when the key is
// present, so Set doubles as the presence flag.
type nullableTime struct {
	Set   bool       `json:"-"`
	Value *time.Time `json:"-"`
}

func (n *nullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, []byte("null")) {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

// --- Request types ---

// postFields is the payload the editor sends inside the {data: ...} envelope.
type postFields struct {
	Title       string     `json:"title" validate:"required"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Tags        []string   `json:"tags"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at"`
}

type createPostRequest struct {
	Data postFields `json:"data"`
}

// postPatch carries a partial update; nil fields are no-ops.
type postPatch struct {
	Title       *string      `json:"title"`
	Slug        *string      `json:"slug" validate:"omitempty,min=1"`
	Body        *string      `json:"body"`
	Tags        *[]string    `json:"tags"`
	Author      *string      `json:"author"`
	PublishedAt nullableTime `json:"published_at"`
}

// an empty patch is valid and updates nothing
type updatePostRequest struct {
	Data postPatch `json:"data"`
}

// --- Response types ---

type postResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type postEnvelope struct {
	Data *postResponse `json:"data"`
}

type postListEnvelope struct {
	Data []*postResponse `json:"data"`
}

func toPostResponse(p *domain.Post) *postResponse {
	return &postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Body:        p.Body,
		Author:      p.AuthorID,
		Tags:        p.TagIDs,
		Status:      string(p.Status()),
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
