// File: handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/catalog"
	clientRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	professionalRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/professional"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/agenda"
)

// CatalogHandler serves the reference data the booking frontend needs.
type CatalogHandler struct {
	Catalog       catalogRepo.CatalogRepository
	Clients       clientRepo.ClientRepository
	Professionals professionalRepo.ProfessionalRepository
}

func NewCatalogHandler(cr catalogRepo.CatalogRepository, cl clientRepo.ClientRepository,
	pr professionalRepo.ProfessionalRepository) *CatalogHandler {
	return &CatalogHandler{Catalog: cr, Clients: cl, Professionals: pr}
}

// ListServicesHandler returns the bookable services.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Catalog.ListActiveServices(c.Request.Context())
	if err != nil {
		zap.L().Error("service list failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// ListProfessionalsHandler returns the active professionals.
func (h *CatalogHandler) ListProfessionalsHandler(c *gin.Context) {
	pros, err := h.Professionals.ListActive(c.Request.Context())
	if err != nil {
		zap.L().Error("professional list failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pros)
}

// CreateProfessionalHandler registers a new professional with the default
// Monday-to-Friday schedule. Slots appear once the horizon job runs, or
// immediately via the regenerate endpoint.
func (h *CatalogHandler) CreateProfessionalHandler(c *gin.Context) {
	var body struct {
		DisplayName string `json:"displayName" binding:"required"`
		UserID      string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "displayName is required"})
		return
	}
	ctx := c.Request.Context()

	pro := &models.Professional{
		DisplayName:         body.DisplayName,
		Active:              true,
		AcceptsReservations: true,
		UserID:              body.UserID,
	}
	if err := h.Professionals.Create(ctx, pro); err != nil {
		zap.L().Error("professional create failed", zap.Error(err))
		respondError(c, err)
		return
	}
	if err := h.Professionals.CreateWorkSchedules(ctx, agenda.DefaultWeekSchedules(pro.ID)); err != nil {
		zap.L().Error("default schedule create failed",
			zap.String("professionalId", pro.ID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pro)
}

// ListCommunesHandler returns the communes served, for the address form.
func (h *CatalogHandler) ListCommunesHandler(c *gin.Context) {
	communes, err := h.Clients.ListCommunes(c.Request.Context())
	if err != nil {
		zap.L().Error("commune list failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, communes)
}
