// Package router wires HTTP routes to their handlers and attaches the
// authentication and capability middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/crmdesk/company-dashboard/internal/handler"
	"github.com/crmdesk/company-dashboard/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login and
// refresh are unauthenticated; logout and the current-user endpoints
// sit behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/api", middleware.JWTAuth(jwtSecret))
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/user", a.Me)
	auth.POST("/user/login-time", a.UpdateLoginTime)
}
