package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/company-dashboard/internal/model"
	"github.com/crmdesk/company-dashboard/internal/repository"
)

// CompanyHandler serves the company list and CRUD endpoints. Ownership
// and category are read-only here; they change only through the
// assignment and categorization engines.
type CompanyHandler struct {
	Companies *repository.CompanyRepo
}

func NewCompanyHandler(companies *repository.CompanyRepo) *CompanyHandler {
	if companies == nil {
		panic("nil repository passed to NewCompanyHandler")
	}
	return &CompanyHandler{Companies: companies}
}

type companyReq struct {
	Name        string  `json:"name"`
	Industry    string  `json:"industry"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Website     *string `json:"website"`
	CompanySize *string `json:"company_size"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status"`
}

// List returns every company, newest update first.
func (h *CompanyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	companies, err := h.Companies.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, companies)
}

// Mine returns the companies assigned to the current user.
func (h *CompanyHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	companies, err := h.Companies.ByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, companies)
}

// ByCategory returns companies in the given category; with ?mine=true
// the list is restricted to the current user's companies.
func (h *CompanyHandler) ByCategory(c echo.Context) error {
	category := strings.ToLower(strings.TrimSpace(c.Param("category")))
	switch category {
	case model.CategoryAssigned, model.CategoryFollowup, model.CategoryHot, model.CategoryBlock:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}

	var userID *uint64
	if strings.EqualFold(c.QueryParam("mine"), "true") {
		uid, err := getUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		userID = &uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	companies, err := h.Companies.ByCategory(ctx, category, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, companies)
}

// Get returns a single company.
func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	company, err := h.Companies.ByID(ctx, id)
	if err != nil {
		if handled, herr := domainError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, company)
}

// Create inserts a new company into the unassigned pool.
func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	company := &model.Company{
		Name:        req.Name,
		Industry:    strings.TrimSpace(req.Industry),
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Website:     req.Website,
		CompanySize: req.CompanySize,
		Notes:       req.Notes,
	}
	if req.Status != nil {
		company.Status = *req.Status
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	created, err := h.Companies.Create(ctx, company)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Update edits a company's contact fields. Category and ownership are
// not editable through this endpoint.
func (h *CompanyHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Name        *string `json:"name"`
		Industry    *string `json:"industry"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		Address     *string `json:"address"`
		Website     *string `json:"website"`
		CompanySize *string `json:"company_size"`
		Notes       *string `json:"notes"`
		Status      *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil && *req.Status != model.CompanyStatusActive && *req.Status != model.CompanyStatusInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	updated, err := h.Companies.Update(ctx, id, repository.CompanyUpdates{
		Name:        req.Name,
		Industry:    req.Industry,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Website:     req.Website,
		CompanySize: req.CompanySize,
		Notes:       req.Notes,
		Status:      req.Status,
	})
	if err != nil {
		if handled, herr := domainError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a company. Route is gated by the delete_companies
// capability.
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Companies.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
