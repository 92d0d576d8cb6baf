package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/publishcms/publish-api/internal/api/metrics"
	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List handles GET /posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        author  query     string  false  "Filter by author id"
// @Param        tag     query     string  false  "Filter by tag id"
// @Param        status  query     string  false  "draft or published"
// @Param        sort    query     string  false  "Sort key, e.g. updated_at:desc or title:asc"
// @Success      200     {object}  postListEnvelope
// @Failure      400     {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	field, asc := parseSort(c.QueryParam("sort"))
	posts, err := h.service.ListPosts(c.Request().Context(), id, ports.ListPostsInput{
		AuthorID:  c.QueryParam("author"),
		TagID:     c.QueryParam("tag"),
		Status:    c.QueryParam("status"),
		SortField: field,
		SortAsc:   asc,
	})
	if err != nil {
		return err
	}

	out := make([]*postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return c.JSON(http.StatusOK, postListEnvelope{Data: out})
}

// Get handles GET /posts/:idOrSlug.
//
// @Summary      Get a post by id or slug
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        idOrSlug  path      string  true  "Post id or slug"
// @Success      200       {object}  postEnvelope
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /posts/{idOrSlug} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	post, err := h.service.GetPost(c.Request().Context(), id, c.Param("idOrSlug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postEnvelope{Data: toPostResponse(post)})
}

// Create handles POST /posts. The optional Idempotency-Key header makes
// retried creates replay the original post.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replay-protection key"
// @Param        body             body      createPostRequest  true   "Post fields"
// @Success      201              {object}  postEnvelope
// @Failure      400              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.CreatePost(c.Request().Context(), id, ports.CreatePostInput{
		Title:          req.Data.Title,
		Slug:           req.Data.Slug,
		Body:           req.Data.Body,
		TagIDs:         req.Data.Tags,
		AuthorID:       req.Data.Author,
		PublishedAt:    req.Data.PublishedAt,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(post.Status())).Inc()
	return c.JSON(http.StatusCreated, postEnvelope{Data: toPostResponse(post)})
}

// Update handles PUT /posts/:id. Author or admin; setting published_at from
// null to a timestamp is the publish transition, back to null unpublishes.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Partial post patch"
// @Success      200   {object}  postEnvelope
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.UpdatePostInput{
		Title:    req.Data.Title,
		Slug:     req.Data.Slug,
		Body:     req.Data.Body,
		TagIDs:   req.Data.Tags,
		AuthorID: req.Data.Author,
	}
	if req.Data.PublishedAt.Set {
		patch.PublishedAt = &req.Data.PublishedAt.Value
	}

	wasPublishing := req.Data.PublishedAt.Set && req.Data.PublishedAt.Value != nil

	post, err := h.service.UpdatePost(c.Request().Context(), id, c.Param("id"), patch)
	if err != nil {
		return err
	}

	if wasPublishing && post.Status() == domain.StatusPublished {
		metrics.PostsPublishedTotal.Inc()
	}
	return c.JSON(http.StatusOK, postEnvelope{Data: toPostResponse(post)})
}

// Delete handles DELETE /posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// parseSort splits "field:dir" into a sort field and direction. Bare field
// names default to descending, matching the post list's updated_at ordering.
func parseSort(s string) (field string, asc bool) {
	if s == "" {
		return "", false
	}
	parts := strings.SplitN(s, ":", 2)
	field = parts[0]
	if len(parts) == 2 && strings.EqualFold(parts[1], "asc") {
		asc = true
	}
	return field, asc
}
