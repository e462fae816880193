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

// DataRequestHandler serves the company data-request endpoints. The
// status decision is the contended path; it runs entirely inside the
// assignment engine's transaction.
type DataRequestHandler struct {
	Requests *repository.DataRequestRepo
	Engine   *service.AssignmentEngine
}

func NewDataRequestHandler(requests *repository.DataRequestRepo, engine *service.AssignmentEngine) *DataRequestHandler {
	if requests == nil || engine == nil {
		panic("nil dependency passed to NewDataRequestHandler")
	}
	return &DataRequestHandler{Requests: requests, Engine: engine}
}

type dataRequestReq struct {
	RequestType   string  `json:"request_type"`
	Industry      *string `json:"industry"`
	Justification string  `json:"justification"`
}

type statusReq struct {
	Status string `json:"status"`
}

// Create files a new pending request for the current user.
func (h *DataRequestHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req dataRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Justification = strings.TrimSpace(req.Justification)
	if req.Justification == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "justification required"})
	}
	if strings.TrimSpace(req.RequestType) == "" {
		req.RequestType = "company_data"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	dr, err := h.Requests.Create(ctx, uid, req.RequestType, req.Industry, req.Justification)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, dr)
}

// Mine lists the current user's requests, newest first.
func (h *DataRequestHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	reqs, err := h.Requests.ByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reqs)
}

// Pending lists all pending requests for approvers.
func (h *DataRequestHandler) Pending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	reqs, err := h.Requests.Pending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reqs)
}

// UpdateStatus decides a pending request. Approval claims a batch of
// unassigned companies for the requester in the same transaction; a
// request already decided comes back as 409.
func (h *DataRequestHandler) UpdateStatus(c echo.Context) error {
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

	var dr *model.DataRequest
	if req.Status == model.RequestStatusApproved {
		dr, err = h.Engine.ApproveDataRequest(ctx, id, approverID)
	} else {
		dr, err = h.Engine.RejectDataRequest(ctx, id, approverID)
	}
	if err != nil {
		if handled, herr := domainError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decision failed"})
	}

	if dr.Status == model.RequestStatusApproved {
		// Best effort: a broker outage never fails the decision.
		go func(ev queue.RequestApprovedEvent) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = service.PublishRequestApproved(ctx, ev)
		}(queue.RequestApprovedEvent{
			RequestKind:     "data",
			RequestID:       dr.ID,
			UserID:          dr.UserID,
			ApprovedBy:      approverID,
			RecordsAssigned: dr.CompaniesAssigned,
			ApprovedAt:      time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, dr)
}
