// File: handlers/availability.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/services/agenda"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// AvailabilityHandler serves the public availability query.
type AvailabilityHandler struct {
	Availability agenda.AvailabilityService
}

func NewAvailabilityHandler(av agenda.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: av}
}

// GetAvailabilityHandler returns the consolidated offers for a set of services
// on one date. Query: ?services=id1,id2&date=YYYY-MM-DD
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	date := c.Query("date")
	if _, err := utils.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	raw := c.Query("services")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one service id is required"})
		return
	}
	var serviceIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			serviceIDs = append(serviceIDs, id)
		}
	}

	offers, err := h.Availability.Aggregated(c.Request.Context(), serviceIDs, date)
	if err != nil {
		zap.L().Error("availability query failed", zap.String("date", date), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "offers": offers})
}
