package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/publishcms/publish-api/internal/api/middleware"
	"github.com/publishcms/publish-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call when the middleware did not run.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := apimw.IdentityFrom(c)
	if !ok || id.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
