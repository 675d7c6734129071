// File: services/notification/dispatcher.go
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// TypeReservationEvent is the asynq task type for reservation notifications.
const TypeReservationEvent = "reservation:event"

// AsynqDispatcher maps status transitions to reservation events and enqueues
// them for the background worker. Enqueueing happens after the originating
// transaction committed; a full queue or a Redis outage only costs the
// notification, never the booking.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, tr Transition) {
	for _, event := range EventsFor(tr) {
		d.enqueue(ctx, event)
	}
}

// EventsFor resolves the transition table: which events a status change emits.
func EventsFor(tr Transition) []models.ReservationEvent {
	res := tr.Reservation
	var events []models.ReservationEvent

	if tr.Created && tr.NewStatus == models.StatusPending && !tr.ViaLink {
		events = append(events, models.ReservationEvent{
			Kind:           models.EventClientConfirmationRequested,
			ReservationID:  res.ID,
			ClientID:       res.ClientID,
			Token:          res.ConfirmationToken,
			TokenExpiresAt: res.TokenExpiresAt,
		})
	}
	if tr.OldStatus == models.StatusWaitingClient && tr.NewStatus == models.StatusConfirmed {
		events = append(events, models.ReservationEvent{
			Kind:          models.EventProfessionalNotification,
			ReservationID: res.ID,
			ClientID:      res.ClientID,
		})
	}
	if tr.OldStatus == models.StatusPending && tr.NewStatus == models.StatusWaitingClient {
		events = append(events, models.ReservationEvent{
			Kind:           models.EventConfirmationLinkIssued,
			ReservationID:  res.ID,
			ClientID:       res.ClientID,
			Token:          res.ConfirmationToken,
			TokenExpiresAt: res.TokenExpiresAt,
		})
	}
	if tr.NewStatus == models.StatusCancelled && tr.OldStatus != models.StatusCancelled {
		events = append(events, models.ReservationEvent{
			Kind:          models.EventReservationCancelled,
			ReservationID: res.ID,
			ClientID:      res.ClientID,
			CancelledBy:   res.CancelledBy,
		})
	}
	return events
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, event models.ReservationEvent) {
	logger := utils.GetLogger()
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("dispatcher: marshal event failed", zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeReservationEvent, payload)
	// Task id derived from reservation + kind keeps redelivery idempotent.
	opts := []asynq.Option{
		asynq.TaskID(fmt.Sprintf("%s:%s", event.ReservationID, event.Kind)),
		asynq.MaxRetry(5),
	}
	if _, err := d.Client.EnqueueContext(ctx, task, opts...); err != nil {
		logger.Warn("dispatcher: enqueue failed",
			zap.String("kind", event.Kind),
			zap.String("reservationId", event.ReservationID),
			zap.Error(err))
	}
}
