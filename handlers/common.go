// File: handlers/common.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NavaUDP/Agenda-Revitek/services/booking"
)

// domainStatus maps a booking domain code to the HTTP status the API returns.
func domainStatus(code string) int {
	switch code {
	case booking.CodeNotFound, booking.CodeSlotNotFound:
		return http.StatusNotFound
	case booking.CodeSlotUnavailable, booking.CodeInsufficientSlots,
		booking.CodePendingDuplicate, booking.CodeStateInvalid,
		booking.CodePrematureCompletion:
		return http.StatusConflict
	case booking.CodeValidation, booking.CodeServiceProMismatch,
		booking.CodeServiceNotAssigned, booking.CodeSlotZeroDuration,
		booking.CodeLeadTimeViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a domain error with its code, or a generic 500.
func respondError(c *gin.Context, err error) {
	if code := booking.CodeOf(err); code != "" {
		c.JSON(domainStatus(code), gin.H{"error": err.Error(), "code": code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
