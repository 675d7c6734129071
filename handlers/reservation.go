// File: handlers/reservation.go
package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	clientRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/booking"
	"github.com/NavaUDP/Agenda-Revitek/services/lifecycle"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// ReservationHandler serves the booking and lifecycle endpoints.
type ReservationHandler struct {
	Booking      booking.BookingService
	Lifecycle    lifecycle.LifecycleService
	Reservations reservationRepo.ReservationRepository
	Clients      clientRepo.ClientRepository
	Slots        slotRepo.SlotRepository
}

func NewReservationHandler(bk booking.BookingService, lc lifecycle.LifecycleService,
	rr reservationRepo.ReservationRepository, cr clientRepo.ClientRepository,
	sr slotRepo.SlotRepository) *ReservationHandler {
	return &ReservationHandler{Booking: bk, Lifecycle: lc, Reservations: rr, Clients: cr, Slots: sr}
}

type createReservationRequest struct {
	models.ReservationRequest
	RecaptchaToken string `json:"recaptchaToken"`
}

// CreateReservationHandler books a reservation from the public site.
func (h *ReservationHandler) CreateReservationHandler(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ctx := c.Request.Context()

	if !utils.VerifyRecaptcha(ctx, req.RecaptchaToken) {
		c.JSON(http.StatusForbidden, gin.H{"error": "recaptcha verification failed"})
		return
	}
	if err := h.Booking.ValidateBookingRules(ctx, req.ReservationRequest); err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.Booking.CreateReservation(ctx, req.ReservationRequest)
	if err != nil {
		zap.L().Warn("reservation create failed",
			zap.String("slotId", req.SlotID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// ListReservationsHandler lists reservations for the admin panel.
// Query: ?date=&status=&professionalId=&includeCancelled=true
func (h *ReservationHandler) ListReservationsHandler(c *gin.Context) {
	filter := models.ReservationFilter{
		Date:             c.Query("date"),
		Status:           c.Query("status"),
		ProfessionalID:   c.Query("professionalId"),
		ClientID:         c.Query("clientId"),
		IncludeCancelled: c.Query("includeCancelled") == "true",
	}
	if filter.Date != "" {
		if _, err := utils.ParseDate(filter.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}
	reservations, err := h.Reservations.List(c.Request.Context(), filter)
	if err != nil {
		zap.L().Error("reservation list failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetReservationHandler returns the full detail of one reservation.
func (h *ReservationHandler) GetReservationHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	detail, err := h.buildDetail(c, res)
	if err != nil {
		zap.L().Error("reservation detail failed", zap.String("id", id), zap.Error(err))
		respondError(c, err)
		return
	}
	history, err := h.Reservations.GetHistory(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": detail, "history": history, "cancelledBy": res.CancelledBy})
}

// ApproveReservationHandler moves PENDING to WAITING_CLIENT and issues the
// confirmation link.
func (h *ReservationHandler) ApproveReservationHandler(c *gin.Context) {
	var body struct {
		Actor   string `json:"actor"`
		ViaChat bool   `json:"viaChat"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.Actor == "" {
		body.Actor = "admin"
	}

	res, err := h.Lifecycle.Approve(c.Request.Context(), c.Param("id"), body.Actor, body.ViaChat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ConfirmByTokenHandler resolves a confirmation-link click.
func (h *ReservationHandler) ConfirmByTokenHandler(c *gin.Context) {
	ok, reason, id := h.Lifecycle.ConfirmByToken(c.Request.Context(), c.Param("token"))
	status := http.StatusOK
	if !ok {
		switch reason {
		case "invalid":
			status = http.StatusNotFound
		case "expired", "cancelled":
			status = http.StatusGone
		}
	}
	c.JSON(status, gin.H{"confirmed": ok, "reason": reason, "reservationId": id})
}

// CancelReservationHandler cancels a reservation and frees its slots.
func (h *ReservationHandler) CancelReservationHandler(c *gin.Context) {
	var body struct {
		By string `json:"by"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.By == "" {
		body.By = models.CancelledByAdmin
	}

	if err := h.Lifecycle.Cancel(c.Request.Context(), c.Param("id"), body.By); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusCancelled})
}

// UpdateStatusHandler applies a state-machine transition requested by the
// admin panel (reconfirm, start work, no-show, complete).
func (h *ReservationHandler) UpdateStatusHandler(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	var err error
	switch body.Status {
	case models.StatusCancelled:
		err = h.Lifecycle.Cancel(ctx, id, models.CancelledByAdmin)
	case models.StatusCompleted:
		err = h.Lifecycle.Complete(ctx, id)
	default:
		if body.Note == "" {
			body.Note = "status changed by admin"
		}
		err = h.Lifecycle.Transition(ctx, id, body.Status, body.Note)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": body.Status})
}

func (h *ReservationHandler) buildDetail(c *gin.Context, res *models.Reservation) (*models.ReservationDetail, error) {
	ctx := c.Request.Context()
	detail := &models.ReservationDetail{
		ID:           res.ID,
		Status:       res.Status,
		TotalMinutes: res.TotalMinutes,
		Note:         res.Note,
		CreatedAt:    res.CreatedAt,
	}

	services, err := h.Reservations.GetServices(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	detail.Services = services

	links, err := h.Reservations.GetSlots(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	var slots []models.Slot
	for _, link := range links {
		slot, err := h.Slots.GetByID(ctx, link.SlotID)
		if err != nil {
			continue
		}
		slots = append(slots, *slot)
	}
	if len(slots) > 0 {
		sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
		detail.SlotsSummary = &models.SlotsSummary{
			SlotIDStart:    slots[0].ID,
			SlotIDEnd:      slots[len(slots)-1].ID,
			Start:          slots[0].Start,
			End:            slots[len(slots)-1].End,
			ProfessionalID: slots[0].ProfessionalID,
		}
	}

	if client, err := h.Clients.GetByID(ctx, res.ClientID); err == nil {
		detail.Client = client
	}
	if res.VehicleID != "" {
		if vehicle, err := h.Clients.GetVehicleByID(ctx, res.VehicleID); err == nil {
			detail.Vehicle = vehicle
		}
	}
	if res.AddressID != "" {
		if address, err := h.Clients.GetAddressByID(ctx, res.AddressID); err == nil {
			detail.Address = address
		}
	}
	return detail, nil
}
