package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/middleware"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/utils"
)

// ReferenceHandler serves the read-only lists the edit surface consumes.
type ReferenceHandler struct {
	DB *gorm.DB
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(db *gorm.DB) *ReferenceHandler {
	return &ReferenceHandler{DB: db}
}

// GetPatients lists the tenant's patients.
func (h *ReferenceHandler) GetPatients(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	var patients []models.Patient
	if err := h.DB.Where("tenant_id = ?", tenantID).Order("first_name asc").Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetUsers lists the tenant's staff, optionally filtered by role.
func (h *ReferenceHandler) GetUsers(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	query := h.DB.Where("tenant_id = ?", tenantID)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("first_name asc").Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}
	utils.Success(c, "Users fetched successfully", users)
}

// GetServices lists the tenant's billable services.
func (h *ReferenceHandler) GetServices(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	var services []models.Service
	if err := h.DB.Where("tenant_id = ?", tenantID).Order("name asc").Find(&services).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch services: "+err.Error())
		return
	}
	utils.Success(c, "Services fetched successfully", services)
}

// GetProtocols lists the tenant's treatment protocols.
func (h *ReferenceHandler) GetProtocols(c *gin.Context) {
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	var protocols []models.Protocol
	if err := h.DB.Where("tenant_id = ?", tenantID).Order("name asc").Find(&protocols).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch protocols: "+err.Error())
		return
	}
	utils.Success(c, "Protocols fetched successfully", protocols)
}
