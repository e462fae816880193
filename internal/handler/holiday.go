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

// HolidayHandler serves the holiday calendar. Reads are open to every
// authenticated user; writes sit behind the manage_holidays capability.
type HolidayHandler struct {
	Holidays *repository.HolidayRepo
}

func NewHolidayHandler(holidays *repository.HolidayRepo) *HolidayHandler {
	if holidays == nil {
		panic("nil repository passed to NewHolidayHandler")
	}
	return &HolidayHandler{Holidays: holidays}
}

type holidayReq struct {
	Name        string  `json:"name"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Description *string `json:"description"`
	Duration    string  `json:"duration"`
}

// List returns all holidays in calendar order.
func (h *HolidayHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	holidays, err := h.Holidays.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, holidays)
}

// Create adds a holiday to the calendar.
func (h *HolidayHandler) Create(c echo.Context) error {
	var req holidayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.Duration == "" {
		req.Duration = model.HolidayFullDay
	}
	if !model.ValidHolidayDuration(req.Duration) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be full_day, half_day or extended"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	created, err := h.Holidays.Create(ctx, req.Name, date, req.Description, req.Duration)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Update edits a holiday.
func (h *HolidayHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Name        *string `json:"name"`
		Date        *string `json:"date"`
		Description *string `json:"description"`
		Duration    *string `json:"duration"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	upd := repository.HolidayUpdates{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(*req.Date))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		upd.Date = &d
	}
	if req.Duration != nil {
		if !model.ValidHolidayDuration(*req.Duration) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be full_day, half_day or extended"})
		}
		upd.Duration = req.Duration
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	updated, err := h.Holidays.Update(ctx, id, upd)
	if err != nil {
		if handled, herr := domainError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a holiday from the calendar.
func (h *HolidayHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Holidays.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
