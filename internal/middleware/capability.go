package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// RequireCapability returns a middleware that enforces that the
// authenticated user's role may perform the given action, as decided
// by the single capability table in the model package. It assumes
// JWTAuth has already stored the role claim in the context under
// "role". Requests whose role is missing, unknown or not allowed are
// aborted with 403.
func RequireCapability(action model.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !model.Can(role, action) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
