package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/company-dashboard/internal/model"
	"github.com/crmdesk/company-dashboard/internal/queue"
	"github.com/crmdesk/company-dashboard/internal/repository"
	"github.com/crmdesk/company-dashboard/internal/service"
)

// FacebookRequestHandler mirrors the data-request endpoints for the
// shared facebook data pool.
type FacebookRequestHandler struct {
	Facebook *repository.FacebookRepo
	Engine   *service.AssignmentEngine
}

func NewFacebookRequestHandler(facebook *repository.FacebookRepo, engine *service.AssignmentEngine) *FacebookRequestHandler {
	if facebook == nil || engine == nil {
		panic("nil dependency passed to NewFacebookRequestHandler")
	}
	return &FacebookRequestHandler{Facebook: facebook, Engine: engine}
}

type facebookRequestReq struct {
	Justification string `json:"justification"`
}

// Create files a new pending facebook data request.
func (h *FacebookRequestHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req facebookRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Justification = strings.TrimSpace(req.Justification)
	if req.Justification == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "justification required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	fr, err := h.Facebook.CreateRequest(ctx, uid, req.Justification)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, fr)
}

// Mine lists the current user's facebook data requests.
func (h *FacebookRequestHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	reqs, err := h.Facebook.RequestsByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reqs)
}

// Pending lists all pending facebook data requests for approvers.
func (h *FacebookRequestHandler) Pending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	reqs, err := h.Facebook.PendingRequests(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reqs)
}

// UpdateStatus decides a pending facebook data request. Approval hands
// out a random sample from the shared pool in the same transaction.
func (h *FacebookRequestHandler) UpdateStatus(c echo.Context) error {
	approverID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || !model.ValidDecision(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var fr *model.FacebookDataRequest
	if req.Status == model.RequestStatusApproved {
		fr, err = h.Engine.ApproveFacebookDataRequest(ctx, id, approverID)
	} else {
		fr, err = h.Engine.RejectFacebookDataRequest(ctx, id, approverID)
	}
	if err != nil {
		if handled, herr := domainError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decision failed"})
	}

	if fr.Status == model.RequestStatusApproved {
		go func(ev queue.RequestApprovedEvent) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = service.PublishRequestApproved(ctx, ev)
		}(queue.RequestApprovedEvent{
			RequestKind: "facebook",
			RequestID:   fr.ID,
			UserID:      fr.UserID,
			ApprovedBy:  approverID,
			ApprovedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, fr)
}

// AssignedData lists the facebook data rows assigned to the current
// user.
func (h *FacebookRequestHandler) AssignedData(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	data, err := h.Facebook.AssignedData(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, data)
}
