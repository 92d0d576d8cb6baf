package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/ports"
)

type TagHandler struct {
	service ports.TagService
}

func NewTagHandler(service ports.TagService) *TagHandler {
	return &TagHandler{service: service}
}

type createTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type tagListEnvelope struct {
	Data []*domain.Tag `json:"data"`
}

type tagEnvelope struct {
	Data *domain.Tag `json:"data"`
}

// List handles GET /tags.
//
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tagListEnvelope
// @Router       /tags [get]
func (h *TagHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	tags, err := h.service.ListTags(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tagListEnvelope{Data: tags})
}

// Create handles POST /tags. Idempotent by name: posting an existing name
// returns the existing tag instead of a conflict.
//
// @Summary      Create a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTagRequest  true  "Tag name"
// @Success      201   {object}  tagEnvelope
// @Router       /tags [post]
func (h *TagHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tag, err := h.service.CreateTag(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tagEnvelope{Data: tag})
}

// Delete handles DELETE /tags/:id. Admin only; 409 while posts reference it.
//
// @Summary      Delete a tag
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Tag id"
// @Success      204
// @Failure      409  {object}  map[string]string
// @Router       /tags/{id} [delete]
func (h *TagHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTag(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
