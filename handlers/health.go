// File: handlers/health.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NavaUDP/Agenda-Revitek/database"
)

// HealthHandler reports service liveness and database reachability.
func HealthHandler(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if err := database.Ping(c.Request.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status})
}
