// File: services/notification/service.go
package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	clientRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// NotificationService turns queued reservation events into outbound messages.
type NotificationService interface {
	HandleEvent(ctx context.Context, event models.ReservationEvent) error
}

type DefaultNotificationService struct {
	Reservations reservationRepo.ReservationRepository
	Clients      clientRepo.ClientRepository
	Slots        slotRepo.SlotRepository
	Mailer       Mailer
	Chat         ChatSender
}

func (s *DefaultNotificationService) HandleEvent(ctx context.Context, event models.ReservationEvent) error {
	logger := utils.GetLogger()

	client, err := s.Clients.GetByID(ctx, event.ClientID)
	if err != nil {
		return fmt.Errorf("load client %s: %w", event.ClientID, err)
	}

	switch event.Kind {
	case models.EventClientConfirmationRequested:
		start, _ := s.firstSlot(ctx, event.ReservationID)
		if client.Phone != "" {
			params := []string{client.FirstName, utils.LocalDate(start), utils.LocalClock(start)}
			if err := s.Chat.SendTemplate(ctx, client.Phone, "reservation_confirmation", params, event.ReservationID); err != nil {
				logger.Warn("notify: chat confirmation request failed", zap.Error(err))
			}
		}
		if client.Email != "" {
			if err := s.Mailer.Send(ctx, "reservation_created", []string{client.Email}, map[string]string{
				"firstName": client.FirstName,
				"date":      utils.LocalDate(start),
				"time":      utils.LocalClock(start),
			}); err != nil {
				logger.Warn("notify: email confirmation request failed", zap.Error(err))
			}
		}

	case models.EventConfirmationLinkIssued:
		if event.Token == "" {
			return fmt.Errorf("link issued event without token for %s", event.ReservationID)
		}
		if client.Phone != "" {
			if err := s.Chat.SendConfirmationLink(ctx, client.Phone, event.ReservationID, event.Token); err != nil {
				logger.Warn("notify: chat confirmation link failed", zap.Error(err))
			}
		}
		if client.Email != "" {
			link := fmt.Sprintf("%s/confirmar/%s", config.AppConfig.FrontendURL, event.Token)
			if err := s.Mailer.Send(ctx, "confirmation_link", []string{client.Email}, map[string]string{
				"firstName": client.FirstName,
				"link":      link,
			}); err != nil {
				logger.Warn("notify: email confirmation link failed", zap.Error(err))
			}
		}

	case models.EventProfessionalNotification:
		start, proID := s.firstSlot(ctx, event.ReservationID)
		logger.Info("notify: reservation confirmed for professional",
			zap.String("reservationId", event.ReservationID),
			zap.String("professionalId", proID))
		if client.Email != "" {
			if err := s.Mailer.Send(ctx, "reservation_confirmed", []string{client.Email}, map[string]string{
				"firstName": client.FirstName,
				"date":      utils.LocalDate(start),
				"time":      utils.LocalClock(start),
			}); err != nil {
				logger.Warn("notify: confirmed email failed", zap.Error(err))
			}
		}

	case models.EventReservationCancelled:
		if client.Phone != "" {
			body := "Tu reserva ha sido cancelada. Escribe *menu* si deseas agendar una nueva hora."
			if err := s.Chat.SendText(ctx, client.Phone, body); err != nil {
				logger.Warn("notify: cancellation chat failed", zap.Error(err))
			}
		}
		if client.Email != "" {
			if err := s.Mailer.Send(ctx, "reservation_cancelled", []string{client.Email}, map[string]string{
				"firstName":   client.FirstName,
				"cancelledBy": event.CancelledBy,
			}); err != nil {
				logger.Warn("notify: cancellation email failed", zap.Error(err))
			}
		}

	default:
		logger.Warn("notify: unknown event kind", zap.String("kind", event.Kind))
	}
	return nil
}

// firstSlot returns the reservation's earliest slot start and its professional.
func (s *DefaultNotificationService) firstSlot(ctx context.Context, reservationID string) (time.Time, string) {
	links, err := s.Reservations.GetSlots(ctx, reservationID)
	if err != nil || len(links) == 0 {
		return time.Time{}, ""
	}
	slots := make([]models.Slot, 0, len(links))
	for _, link := range links {
		slot, err := s.Slots.GetByID(ctx, link.SlotID)
		if err != nil {
			continue
		}
		slots = append(slots, *slot)
	}
	if len(slots) == 0 {
		return time.Time{}, links[0].ProfessionalID
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots[0].Start, links[0].ProfessionalID
}
