package router

import (
	"github.com/labstack/echo/v4"

	"github.com/crmdesk/company-dashboard/internal/handler"
	"github.com/crmdesk/company-dashboard/internal/middleware"
	"github.com/crmdesk/company-dashboard/internal/model"
)

// APIHandlers bundles the handlers mounted under /api.
type APIHandlers struct {
	Companies *handler.CompanyHandler
	Comments  *handler.CommentHandler
	Requests  *handler.DataRequestHandler
	Facebook  *handler.FacebookRequestHandler
	Holidays  *handler.HolidayHandler
	Users     *handler.AdminUserHandler
}

// RegisterAPI mounts the authenticated dashboard API under /api. Every
// route runs the JWT middleware; privileged routes additionally check
// the capability table. Extra middleware (response cache, rate limit)
// is applied to the whole group.
func RegisterAPI(e *echo.Echo, h APIHandlers, jwtSecret string, extra ...echo.MiddlewareFunc) {
	api := e.Group("/api", middleware.JWTAuth(jwtSecret))
	api.Use(extra...)

	companies := api.Group("/companies")
	companies.GET("", h.Companies.List)
	companies.GET("/my", h.Companies.Mine)
	companies.GET("/category/:category", h.Companies.ByCategory)
	companies.GET("/:id", h.Companies.Get)
	companies.POST("", h.Companies.Create)
	companies.PUT("/:id", h.Companies.Update)
	companies.DELETE("/:id", h.Companies.Delete,
		middleware.RequireCapability(model.ActionDeleteCompanies))

	comments := api.Group("/comments")
	comments.GET("/today", h.Comments.Today)
	comments.GET("/company/:companyId", h.Comments.ByCompany)
	comments.POST("", h.Comments.Create)

	requests := api.Group("/data-requests")
	requests.GET("", h.Requests.Mine)
	requests.POST("", h.Requests.Create)
	requests.GET("/pending", h.Requests.Pending,
		middleware.RequireCapability(model.ActionViewPendingRequests))
	requests.PUT("/:id/status", h.Requests.UpdateStatus,
		middleware.RequireCapability(model.ActionApproveRequests))

	facebook := api.Group("/facebook-requests")
	facebook.GET("", h.Facebook.Mine)
	facebook.POST("", h.Facebook.Create)
	facebook.GET("/pending", h.Facebook.Pending,
		middleware.RequireCapability(model.ActionViewPendingRequests))
	facebook.PUT("/:id/status", h.Facebook.UpdateStatus,
		middleware.RequireCapability(model.ActionApproveRequests))
	facebook.GET("/data", h.Facebook.AssignedData)

	holidays := api.Group("/holidays")
	holidays.GET("", h.Holidays.List)
	holidays.POST("", h.Holidays.Create,
		middleware.RequireCapability(model.ActionManageHolidays))
	holidays.PUT("/:id", h.Holidays.Update,
		middleware.RequireCapability(model.ActionManageHolidays))
	holidays.DELETE("/:id", h.Holidays.Delete,
		middleware.RequireCapability(model.ActionManageHolidays))

	admin := api.Group("/admin/users")
	admin.GET("", h.Users.List,
		middleware.RequireCapability(model.ActionViewAllUsers))
	admin.PUT("/:id", h.Users.Update,
		middleware.RequireCapability(model.ActionManageUsers))
	admin.DELETE("/:id", h.Users.Delete,
		middleware.RequireCapability(model.ActionDeleteUsers))
}
