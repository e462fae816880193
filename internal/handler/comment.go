package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/company-dashboard/internal/repository"
	"github.com/crmdesk/company-dashboard/internal/service"
)

// CommentHandler serves comment reads and the categorizing write that
// goes through the categorization engine.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Engine   *service.CategorizationEngine
}

func NewCommentHandler(comments *repository.CommentRepo, engine *service.CategorizationEngine) *CommentHandler {
	if comments == nil || engine == nil {
		panic("nil dependency passed to NewCommentHandler")
	}
	return &CommentHandler{Comments: comments, Engine: engine}
}

type commentReq struct {
	CompanyID   uint64 `json:"company_id"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	CommentDate string `json:"comment_date"` // YYYY-MM-DD; empty means today
}

// Create records a comment and moves the company into the comment's
// category, atomically.
func (h *CommentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id required"})
	}

	commentDate := time.Now().UTC()
	if s := strings.TrimSpace(req.CommentDate); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment_date must be YYYY-MM-DD"})
		}
		commentDate = d
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Engine.AddComment(ctx, req.CompanyID, uid, req.Content, req.Category, commentDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
		case errors.Is(err, service.ErrInvalidCategory):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category must be followup, hot or block"})
		}
		if handled, herr := domainError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, cm)
}

// ByCompany lists a company's comments, newest first.
func (h *CommentHandler) ByCompany(c echo.Context) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	comments, err := h.Comments.ByCompany(ctx, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, comments)
}

// Today lists the current user's comments created today (UTC).
func (h *CommentHandler) Today(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	comments, err := h.Comments.TodayByUser(ctx, uid, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, comments)
}
