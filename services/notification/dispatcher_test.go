// File: services/notification/dispatcher_test.go
package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

func kinds(events []models.ReservationEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestEventsForCreation(t *testing.T) {
	tr := Transition{
		Reservation: models.Reservation{ID: "res-1", ClientID: "client-1"},
		NewStatus:   models.StatusPending,
		Created:     true,
	}
	events := EventsFor(tr)
	assert.Equal(t, []string{models.EventClientConfirmationRequested}, kinds(events))

	// A chat booking created directly as CONFIRMED asks for nothing.
	tr.NewStatus = models.StatusConfirmed
	assert.Empty(t, EventsFor(tr))
}

func TestEventsForApproval(t *testing.T) {
	tr := Transition{
		Reservation: models.Reservation{ID: "res-1", ClientID: "client-1", ConfirmationToken: "tok-1"},
		OldStatus:   models.StatusPending,
		NewStatus:   models.StatusWaitingClient,
	}
	events := EventsFor(tr)
	require.Equal(t, []string{models.EventConfirmationLinkIssued}, kinds(events))
	assert.Equal(t, "tok-1", events[0].Token)
}

func TestEventsForClientConfirmation(t *testing.T) {
	tr := Transition{
		Reservation: models.Reservation{ID: "res-1", ClientID: "client-1"},
		OldStatus:   models.StatusWaitingClient,
		NewStatus:   models.StatusConfirmed,
		ViaLink:     true,
	}
	events := EventsFor(tr)
	assert.Equal(t, []string{models.EventProfessionalNotification}, kinds(events))
}

func TestEventsForCancellation(t *testing.T) {
	tr := Transition{
		Reservation: models.Reservation{ID: "res-1", ClientID: "client-1", CancelledBy: models.CancelledBySystem},
		OldStatus:   models.StatusWaitingClient,
		NewStatus:   models.StatusCancelled,
	}
	events := EventsFor(tr)
	require.Equal(t, []string{models.EventReservationCancelled}, kinds(events))
	assert.Equal(t, models.CancelledBySystem, events[0].CancelledBy)

	// Re-cancelling emits nothing.
	tr.OldStatus = models.StatusCancelled
	assert.Empty(t, EventsFor(tr))
}

func TestEventsForUnremarkableTransition(t *testing.T) {
	tr := Transition{
		Reservation: models.Reservation{ID: "res-1"},
		OldStatus:   models.StatusConfirmed,
		NewStatus:   models.StatusInProgress,
	}
	assert.Empty(t, EventsFor(tr))
}
