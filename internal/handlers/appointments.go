package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/composer"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/middleware"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/recurrence"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/store"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Composer *composer.Composer
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(comp *composer.Composer) *AppointmentHandler {
	return &AppointmentHandler{Composer: comp}
}

// CreateAppointmentRequest represents the request body for creating an
// appointment. RecurrenceWeeks > 1 creates a weekly series.
type CreateAppointmentRequest struct {
	TherapistID     string    `json:"therapistId" binding:"required"`
	PatientID       string    `json:"patientId"`
	Title           string    `json:"title"`
	Start           time.Time `json:"start" binding:"required"`
	End             time.Time `json:"end" binding:"required"`
	Type            string    `json:"type" binding:"omitempty,oneof=evaluation treatment re_evaluation discharge time_block"`
	Notes           string    `json:"notes"`
	RecurrenceWeeks int       `json:"recurrenceWeeks" binding:"omitempty,min=2,max=52"`
}

// CreateAppointment handles creating a new appointment or weekly series.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(c)
	cmd := store.CreateCommand{
		TenantID:    tenantID,
		TherapistID: req.TherapistID,
		PatientID:   req.PatientID,
		Title:       req.Title,
		Start:       req.Start,
		End:         req.End,
		Type:        models.AppointmentType(req.Type),
		Notes:       req.Notes,
	}

	created, err := h.Composer.CreateAppointment(c.Request.Context(), cmd, req.RecurrenceWeeks)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Created(c, "Appointment created successfully", created)
}

// UpdateAppointmentRequest represents the request body for editing an
// appointment. Absent fields are left untouched.
type UpdateAppointmentRequest struct {
	TherapistID *string    `json:"therapistId"`
	PatientID   *string    `json:"patientId"`
	Title       *string    `json:"title"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	Type        *string    `json:"type" binding:"omitempty,oneof=evaluation treatment re_evaluation discharge time_block"`
	Notes       *string    `json:"notes"`
}

// UpdateAppointment handles editing an existing appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(c)
	cmd := store.UpdateCommand{
		ID:          c.Param("id"),
		TherapistID: req.TherapistID,
		PatientID:   req.PatientID,
		Title:       req.Title,
		Start:       req.Start,
		End:         req.End,
		Notes:       req.Notes,
	}
	if req.Type != nil {
		typ := models.AppointmentType(*req.Type)
		cmd.Type = &typ
	}

	updated, err := h.Composer.UpdateAppointment(c.Request.Context(), tenantID, cmd)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", updated)
}

// UpdateStatusRequest represents the request body for a status transition.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=scheduled confirmed in_progress completed cancelled"`
}

// UpdateAppointmentStatus handles a status transition.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(c)
	updated, err := h.Composer.ChangeStatus(c.Request.Context(), tenantID, c.Param("id"), req.Status)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", updated)
}

// RequestDelete starts the delete-confirmation flow. For recurring
// appointments the response asks the client for a scope choice.
func (h *AppointmentHandler) RequestDelete(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	scopeRequired, err := h.Composer.RequestDelete(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if scopeRequired {
		utils.Success(c, "Scope choice required", gin.H{"scopeRequired": true})
		return
	}
	utils.Success(c, "Appointment deleted successfully", gin.H{"scopeRequired": false})
}

// CancelDelete abandons the appointment's pending scope choice.
func (h *AppointmentHandler) CancelDelete(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	h.Composer.CancelDelete(tenantID, c.Param("id"))
	utils.Success(c, "Delete cancelled", nil)
}

// DeleteAppointment deletes an appointment. For recurring appointments the
// scope query parameter selects single occurrence vs entire future series;
// without it the handler behaves like RequestDelete.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	ctx := c.Request.Context()

	id := c.Param("id")

	scopeParam := c.Query("scope")
	if scopeParam == "" {
		scopeRequired, err := h.Composer.RequestDelete(ctx, tenantID, id)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		if scopeRequired {
			utils.Conflict(c, "recurring appointment requires a scope choice (scope=single|all)")
			return
		}
		utils.Success(c, "Appointment deleted successfully", nil)
		return
	}

	scope, err := recurrence.ParseScope(scopeParam)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if h.Composer.DeleteFlowState(tenantID, id) != recurrence.FlowAwaitingScope {
		scopeRequired, err := h.Composer.RequestDelete(ctx, tenantID, id)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		if !scopeRequired {
			utils.Success(c, "Appointment deleted successfully", nil)
			return
		}
	}

	if err := h.Composer.ResolveDelete(ctx, tenantID, id, scope); err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}
