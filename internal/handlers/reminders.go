package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/clock"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/middleware"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/store"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/utils"
)

// ReminderHandler manages the date-keyed reminder overlays.
type ReminderHandler struct {
	Store store.Store
	Clock clock.Clock
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(s store.Store, clk clock.Clock) *ReminderHandler {
	if clk == nil {
		clk = clock.System()
	}
	return &ReminderHandler{Store: s, Clock: clk}
}

// GetReminders lists reminders in [from, to). Defaults to the next 30 days.
func (h *ReminderHandler) GetReminders(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	now := h.Clock.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 30)

	var err error
	if fromParam := c.Query("from"); fromParam != "" {
		from, err = time.ParseInLocation(dateLayout, fromParam, time.Local)
		if err != nil {
			utils.BadRequest(c, "invalid from date, expected YYYY-MM-DD")
			return
		}
	}
	if toParam := c.Query("to"); toParam != "" {
		to, err = time.ParseInLocation(dateLayout, toParam, time.Local)
		if err != nil {
			utils.BadRequest(c, "invalid to date, expected YYYY-MM-DD")
			return
		}
	}

	reminders, err := h.Store.ListReminders(c.Request.Context(), tenantID, from, to)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, "Reminders fetched successfully", reminders)
}

// CreateReminderRequest represents the request body for creating a reminder.
type CreateReminderRequest struct {
	Date  time.Time `json:"date" binding:"required"`
	Title string    `json:"title" binding:"required"`
	Notes string    `json:"notes"`
}

// CreateReminder inserts a reminder overlay.
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	var req CreateReminderRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(c)
	reminder, err := h.Store.CreateReminder(c.Request.Context(), models.Reminder{
		TenantID: tenantID,
		Date:     req.Date,
		Title:    req.Title,
		Notes:    req.Notes,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Created(c, "Reminder created successfully", reminder)
}
