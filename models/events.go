package models

import "time"

// Reservation event kinds dispatched to the notification worker.
const (
	EventClientConfirmationRequested = "reservation:confirmation_requested"
	EventProfessionalNotification    = "reservation:professional_notify"
	EventConfirmationLinkIssued      = "reservation:link_issued"
	EventReservationCancelled        = "reservation:cancelled"
)

// ReservationEvent is the payload enqueued for every outbound notification.
type ReservationEvent struct {
	Kind           string     `json:"kind"`
	ReservationID  string     `json:"reservationId"`
	ClientID       string     `json:"clientId"`
	ProfessionalID string     `json:"professionalId,omitempty"`
	Token          string     `json:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
	CancelledBy    string     `json:"cancelledBy,omitempty"`
}
