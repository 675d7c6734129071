package booking

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NavaUDP/Agenda-Revitek/config"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// ValidateBookingRules runs the pre-transaction business checks: bookings
// respect the configured lead time, and a client with a PENDING reservation
// (matched by email, case-insensitive, or phone) may not open another.
func (s *DefaultBookingService) ValidateBookingRules(ctx context.Context, req models.ReservationRequest) error {
	slot, err := s.Slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NewDomainError(CodeSlotNotFound, "slot %s does not exist", req.SlotID)
		}
		return err
	}

	slotDay, err := utils.ParseDate(slot.Date)
	if err != nil {
		return err
	}
	leadDays := config.AppConfig.BookingLeadTimeDays
	if slotDay.Before(utils.TodayLocal().AddDate(0, 0, leadDays)) {
		return NewDomainError(CodeLeadTimeViolation,
			"reservations must be booked at least %d day(s) in advance", leadDays)
	}

	if _, err := s.Reservations.FindPendingByClient(ctx, req.Client.Email, req.Client.Phone); err == nil {
		return NewDomainError(CodePendingDuplicate, "a pending reservation already exists for this client")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	return nil
}
