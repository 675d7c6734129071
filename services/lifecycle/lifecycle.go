// File: services/lifecycle/lifecycle.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	auditRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/audit"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/agenda"
	"github.com/NavaUDP/Agenda-Revitek/services/booking"
	"github.com/NavaUDP/Agenda-Revitek/services/notification"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// allowedTransitions is the reservation state machine. Terminal statuses have
// no outgoing edges.
var allowedTransitions = map[string][]string{
	models.StatusPending:       {models.StatusWaitingClient, models.StatusConfirmed, models.StatusCancelled},
	models.StatusWaitingClient: {models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted},
	models.StatusConfirmed:     {models.StatusReconfirmed, models.StatusInProgress, models.StatusCancelled, models.StatusCompleted, models.StatusNoShow},
	models.StatusReconfirmed:   {models.StatusInProgress, models.StatusCancelled, models.StatusCompleted, models.StatusNoShow},
	models.StatusInProgress:    {models.StatusCompleted, models.StatusCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// LifecycleService drives reservations through their state machine.
type LifecycleService interface {
	Approve(ctx context.Context, reservationID, actor string, viaChat bool) (*models.Reservation, error)
	ConfirmByToken(ctx context.Context, token string) (bool, string, string)
	Cancel(ctx context.Context, reservationID, by string) error
	Transition(ctx context.Context, reservationID, to, note string) error
	Complete(ctx context.Context, reservationID string) error
	SweepExpired(ctx context.Context) (int, error)
}

type DefaultLifecycleService struct {
	Tx           booking.TxRunner
	Reservations reservationRepo.ReservationRepository
	Slots        slotRepo.SlotRepository
	Generator    agenda.SlotGenerator
	Dispatcher   notification.Dispatcher
	Audit        auditRepo.AuditRepository
}

// Approve moves a PENDING reservation to WAITING_CLIENT, issuing a fresh
// confirmation token. The chat path uses the shorter TTL.
func (s *DefaultLifecycleService) Approve(ctx context.Context, reservationID, actor string, viaChat bool) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, booking.NewDomainError(booking.CodeNotFound, "reservation %s not found", reservationID)
		}
		return nil, err
	}
	if res.Status != models.StatusPending {
		return nil, booking.NewDomainError(booking.CodeStateInvalid,
			"cannot approve reservation in status %s", res.Status)
	}

	token, err := utils.GenerateConfirmationToken()
	if err != nil {
		return nil, err
	}
	ttl := config.ConfirmationTTLEmail()
	if viaChat {
		ttl = config.ConfirmationTTLChat()
	}
	expiresAt := time.Now().UTC().Add(ttl)

	if err := s.Reservations.SetToken(ctx, reservationID, token, expiresAt, models.StatusWaitingClient); err != nil {
		return nil, fmt.Errorf("set confirmation token: %w", err)
	}
	if err := s.Reservations.AppendHistory(ctx, models.StatusHistory{
		ReservationID: reservationID,
		Status:        models.StatusWaitingClient,
		Note:          "approved by " + actor,
	}); err != nil {
		return nil, err
	}
	if s.Audit != nil {
		_ = s.Audit.Record(ctx, models.AdminAudit{
			Actor:     actor,
			Action:    "approve",
			ModelName: "Reservation",
			ObjectID:  reservationID,
		})
	}

	res.Status = models.StatusWaitingClient
	res.ConfirmationToken = token
	res.TokenExpiresAt = &expiresAt
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, notification.Transition{
			Reservation: *res,
			OldStatus:   models.StatusPending,
			NewStatus:   models.StatusWaitingClient,
		})
	}
	return res, nil
}

// ConfirmByToken resolves a confirmation link click. The bool reports success;
// the string carries the outcome: "confirmed", "already_confirmed", "invalid",
// "expired" or "cancelled". Re-posting a used token is idempotent.
func (s *DefaultLifecycleService) ConfirmByToken(ctx context.Context, token string) (bool, string, string) {
	res, err := s.Reservations.GetByToken(ctx, token)
	if err != nil {
		return false, "invalid", ""
	}

	switch res.Status {
	case models.StatusConfirmed, models.StatusReconfirmed:
		return true, "already_confirmed", res.ID
	case models.StatusCancelled:
		return false, "cancelled", ""
	}

	if res.TokenExpiresAt != nil && res.TokenExpiresAt.Before(time.Now().UTC()) {
		return false, "expired", ""
	}

	prev := res.Status
	ok, err := s.Reservations.CasStatus(ctx, res.ID,
		[]string{models.StatusPending, models.StatusWaitingClient}, models.StatusConfirmed)
	if err != nil {
		utils.GetLogger().Error("confirm by token failed", zap.Error(err))
		return false, "invalid", ""
	}
	if !ok {
		// Lost a race; re-read to report the final state honestly.
		if cur, err := s.Reservations.GetByID(ctx, res.ID); err == nil &&
			(cur.Status == models.StatusConfirmed || cur.Status == models.StatusReconfirmed) {
			return true, "already_confirmed", cur.ID
		}
		return false, "cancelled", ""
	}

	_ = s.Reservations.AppendHistory(ctx, models.StatusHistory{
		ReservationID: res.ID,
		Status:        models.StatusReconfirmed,
		Note:          "was " + prev,
	})

	res.Status = models.StatusConfirmed
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, notification.Transition{
			Reservation: *res,
			OldStatus:   prev,
			NewStatus:   models.StatusConfirmed,
			ViaLink:     true,
		})
	}
	return true, "confirmed", res.ID
}

// Cancel terminates a reservation and frees its slots, then regenerates the
// affected days so the freed slots reconcile against any schedule change that
// happened while they were held.
func (s *DefaultLifecycleService) Cancel(ctx context.Context, reservationID, by string) error {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return booking.NewDomainError(booking.CodeNotFound, "reservation %s not found", reservationID)
		}
		return err
	}
	prev := res.Status

	type proDate struct{ pro, date string }
	affected := make(map[proDate]bool)

	err = s.Tx(ctx, func(txCtx context.Context) error {
		ok, err := s.Reservations.SetCancelled(txCtx, reservationID, by)
		if err != nil {
			return err
		}
		if !ok {
			return booking.NewDomainError(booking.CodeStateInvalid,
				"reservation %s is already in a terminal state", reservationID)
		}
		links, err := s.Reservations.GetSlots(txCtx, reservationID)
		if err != nil {
			return err
		}
		for _, link := range links {
			if err := s.Slots.Release(txCtx, link.SlotID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("release slot %s: %w", link.SlotID, err)
			}
			affected[proDate{link.ProfessionalID, link.Date}] = true
		}
		return s.Reservations.AppendHistory(txCtx, models.StatusHistory{
			ReservationID: reservationID,
			Status:        models.StatusCancelled,
			Note:          "cancelled by " + by,
		})
	})
	if err != nil {
		return err
	}

	for pd := range affected {
		if _, err := s.Generator.Regenerate(ctx, pd.pro, pd.date); err != nil {
			utils.GetLogger().Warn("post-cancel regeneration failed",
				zap.String("professionalId", pd.pro),
				zap.String("date", pd.date),
				zap.Error(err))
		}
	}

	res.Status = models.StatusCancelled
	res.CancelledBy = by
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, notification.Transition{
			Reservation: *res,
			OldStatus:   prev,
			NewStatus:   models.StatusCancelled,
		})
	}
	return nil
}

// Transition applies a generic state-machine move (start work, reconfirm,
// no-show). Cancellation and completion have their own entry points.
func (s *DefaultLifecycleService) Transition(ctx context.Context, reservationID, to, note string) error {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return booking.NewDomainError(booking.CodeNotFound, "reservation %s not found", reservationID)
		}
		return err
	}
	if !transitionAllowed(res.Status, to) {
		return booking.NewDomainError(booking.CodeStateInvalid,
			"cannot move reservation from %s to %s", res.Status, to)
	}
	ok, err := s.Reservations.CasStatus(ctx, reservationID, []string{res.Status}, to)
	if err != nil {
		return err
	}
	if !ok {
		return booking.NewDomainError(booking.CodeStateInvalid,
			"reservation %s changed concurrently", reservationID)
	}
	if err := s.Reservations.AppendHistory(ctx, models.StatusHistory{
		ReservationID: reservationID,
		Status:        to,
		Note:          note,
	}); err != nil {
		return err
	}

	prev := res.Status
	res.Status = to
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, notification.Transition{
			Reservation: *res,
			OldStatus:   prev,
			NewStatus:   to,
		})
	}
	return nil
}

// Complete closes out a reservation, refusing to complete work that has not
// started yet.
func (s *DefaultLifecycleService) Complete(ctx context.Context, reservationID string) error {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return booking.NewDomainError(booking.CodeNotFound, "reservation %s not found", reservationID)
		}
		return err
	}
	if !transitionAllowed(res.Status, models.StatusCompleted) {
		return booking.NewDomainError(booking.CodeStateInvalid,
			"cannot complete reservation in status %s", res.Status)
	}

	start, err := s.firstSlotStart(ctx, reservationID)
	if err != nil {
		return err
	}
	if start.After(time.Now()) {
		return booking.NewDomainError(booking.CodePrematureCompletion,
			"reservation starts at %s and cannot be completed yet", start.Format(time.RFC3339))
	}
	return s.Transition(ctx, reservationID, models.StatusCompleted, "completed")
}

func (s *DefaultLifecycleService) firstSlotStart(ctx context.Context, reservationID string) (time.Time, error) {
	links, err := s.Reservations.GetSlots(ctx, reservationID)
	if err != nil {
		return time.Time{}, err
	}
	var starts []time.Time
	for _, link := range links {
		slot, err := s.Slots.GetByID(ctx, link.SlotID)
		if err != nil {
			continue
		}
		starts = append(starts, slot.Start)
	}
	if len(starts) == 0 {
		return time.Time{}, booking.NewDomainError(booking.CodeNotFound,
			"reservation %s has no slots", reservationID)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return starts[0], nil
}
