// File: cron/jobs.go
package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	clientRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	professionalRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/professional"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/services/agenda"
	"github.com/NavaUDP/Agenda-Revitek/services/lifecycle"
	"github.com/NavaUDP/Agenda-Revitek/services/notification"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// Scheduler owns the periodic maintenance jobs: expiring stale confirmations,
// extending the slot horizon, sending day-before reminders and pruning old
// available slots.
type Scheduler struct {
	Lifecycle     lifecycle.LifecycleService
	Generator     agenda.SlotGenerator
	Professionals professionalRepo.ProfessionalRepository
	Reservations  reservationRepo.ReservationRepository
	Clients       clientRepo.ClientRepository
	Slots         slotRepo.SlotRepository
	Mailer        notification.Mailer
	Chat          notification.ChatSender

	runner *cron.Cron
}

// Start registers and launches the cron jobs in the business time zone so the
// clock-based schedules fire at local wall time.
func (s *Scheduler) Start() {
	s.runner = cron.New(cron.WithLocation(config.BusinessLocation()))

	s.runner.AddFunc("*/10 * * * *", s.sweepExpired)
	s.runner.AddFunc("30 3 * * *", s.extendSlotHorizon)
	s.runner.AddFunc("0 10 * * *", s.sendReminders)
	s.runner.AddFunc("0 4 * * *", s.cleanupOldSlots)

	s.runner.Start()
	utils.GetLogger().Info("cron: scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	if s.runner != nil {
		<-s.runner.Stop().Done()
	}
}

func (s *Scheduler) sweepExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.Lifecycle.SweepExpired(ctx)
	if err != nil {
		utils.GetLogger().Error("cron: expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		utils.GetLogger().Info("cron: expired reservations cancelled", zap.Int("count", n))
	}
}

func (s *Scheduler) extendSlotHorizon() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	logger := utils.GetLogger()

	pros, err := s.Professionals.ListActive(ctx)
	if err != nil {
		logger.Error("cron: horizon extension failed to list professionals", zap.Error(err))
		return
	}
	today := utils.TodayLocal().Format(utils.DateLayout)
	days := config.AppConfig.SlotHorizonDays
	for _, pro := range pros {
		if !pro.AcceptsReservations {
			continue
		}
		s.Generator.RegenerateRange(ctx, pro.ID, today, days)
	}
	logger.Info("cron: slot horizon extended",
		zap.Int("professionals", len(pros)), zap.Int("days", days))
}

// sendReminders messages every client with a confirmed reservation tomorrow.
func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	logger := utils.GetLogger()

	tomorrow := utils.TodayLocal().AddDate(0, 0, 1).Format(utils.DateLayout)
	reservations, err := s.Reservations.ListConfirmedOnDate(ctx, tomorrow)
	if err != nil {
		logger.Error("cron: reminder query failed", zap.Error(err))
		return
	}

	for _, res := range reservations {
		client, err := s.Clients.GetByID(ctx, res.ClientID)
		if err != nil {
			logger.Warn("cron: reminder client missing",
				zap.String("reservationId", res.ID), zap.Error(err))
			continue
		}
		start := s.firstSlotStart(ctx, res.ID)
		if client.Phone != "" {
			params := []string{client.FirstName, utils.LocalDate(start), utils.LocalClock(start)}
			if err := s.Chat.SendTemplate(ctx, client.Phone, "reservation_reminder", params, res.ID); err != nil {
				logger.Warn("cron: reminder chat failed", zap.String("reservationId", res.ID), zap.Error(err))
			}
			continue
		}
		if client.Email != "" {
			if err := s.Mailer.Send(ctx, "reservation_confirmed", []string{client.Email}, map[string]string{
				"firstName": client.FirstName,
				"date":      utils.LocalDate(start),
				"time":      utils.LocalClock(start),
			}); err != nil {
				logger.Warn("cron: reminder email failed", zap.String("reservationId", res.ID), zap.Error(err))
			}
		}
	}
	logger.Info("cron: reminders dispatched",
		zap.String("date", tomorrow), zap.Int("count", len(reservations)))
}

func (s *Scheduler) cleanupOldSlots() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.Slots.DeletePastAvailable(ctx, utils.TodayLocal())
	if err != nil {
		utils.GetLogger().Error("cron: old slot cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		utils.GetLogger().Info("cron: old available slots deleted", zap.Int64("count", deleted))
	}
}

func (s *Scheduler) firstSlotStart(ctx context.Context, reservationID string) time.Time {
	links, err := s.Reservations.GetSlots(ctx, reservationID)
	if err != nil || len(links) == 0 {
		return time.Time{}
	}
	var earliest time.Time
	for _, link := range links {
		slot, err := s.Slots.GetByID(ctx, link.SlotID)
		if err != nil {
			continue
		}
		if earliest.IsZero() || slot.Start.Before(earliest) {
			earliest = slot.Start
		}
	}
	return earliest
}
