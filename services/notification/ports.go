// File: services/notification/ports.go
package notification

import (
	"context"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

// Mailer is the outbound email port.
type Mailer interface {
	Send(ctx context.Context, template string, recipients []string, data map[string]string) error
}

// ChatSender is the outbound chat port. Implementations own the transport
// specifics; callers only pass structured content.
type ChatSender interface {
	SendText(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, name string, params []string, reservationID string) error
	SendConfirmationLink(ctx context.Context, to, reservationID, token string) error
}

// Transition describes one reservation status change for dispatch.
type Transition struct {
	Reservation models.Reservation `json:"reservation"`
	OldStatus   string             `json:"oldStatus"`
	NewStatus   string             `json:"newStatus"`
	Created     bool               `json:"created"`
	// ViaLink suppresses the client-confirmation request when the client just
	// confirmed through the link themselves.
	ViaLink bool `json:"viaLink"`
}

// Dispatcher observes reservation transitions and emits outbound events.
// Dispatch must never fail the calling flow; errors are logged and dropped.
type Dispatcher interface {
	Dispatch(ctx context.Context, tr Transition)
}

// NopDispatcher discards every transition.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(ctx context.Context, tr Transition) {}
