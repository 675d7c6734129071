package models

import "time"

// Reservation statuses.
const (
	StatusPending       = "PENDING"
	StatusWaitingClient = "WAITING_CLIENT"
	StatusConfirmed     = "CONFIRMED"
	StatusReconfirmed   = "RECONFIRMED"
	StatusInProgress    = "IN_PROGRESS"
	StatusCompleted     = "COMPLETED"
	StatusCancelled     = "CANCELLED"
	StatusNoShow        = "NO_SHOW"
)

// Cancellation actors.
const (
	CancelledByAdmin      = "admin"
	CancelledByClient     = "client"
	CancelledByClientChat = "client_chat"
	CancelledBySystem     = "system"
)

// ActiveStatuses are the statuses that count toward a professional's daily load
// and block the slots a reservation holds.
var ActiveStatuses = []string{
	StatusPending,
	StatusWaitingClient,
	StatusConfirmed,
	StatusReconfirmed,
	StatusInProgress,
}

// TerminalStatuses admit no further transitions.
var TerminalStatuses = []string{StatusCancelled, StatusCompleted, StatusNoShow}

// IsTerminalStatus reports whether the status admits no further transitions.
func IsTerminalStatus(status string) bool {
	for _, s := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Reservation occupies a contiguous run of slots for one professional.
type Reservation struct {
	ID                string     `bson:"id" json:"id"`
	ClientID          string     `bson:"clientId" json:"clientId"`
	VehicleID         string     `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	AddressID         string     `bson:"addressId,omitempty" json:"addressId,omitempty"`
	Status            string     `bson:"status" json:"status"`
	CancelledBy       string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	TotalMinutes      int        `bson:"totalMinutes" json:"totalMinutes"`
	Note              string     `bson:"note,omitempty" json:"note,omitempty"`
	ConfirmationToken string     `bson:"confirmationToken,omitempty" json:"-"`
	TokenExpiresAt    *time.Time `bson:"tokenExpiresAt,omitempty" json:"-"`
	CreatedAt         time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ReservationSlot links a reservation to one of the slots it occupies.
// Date duplicates the slot's date so daily-load queries need no join.
type ReservationSlot struct {
	ID             string `bson:"id" json:"id"`
	ReservationID  string `bson:"reservationId" json:"reservationId"`
	SlotID         string `bson:"slotId" json:"slotId"`
	ProfessionalID string `bson:"professionalId" json:"professionalId"`
	Date           string `bson:"date" json:"date"`
}

// ReservationService freezes the service terms agreed at booking time.
type ReservationService struct {
	ID                       string `bson:"id" json:"id"`
	ReservationID            string `bson:"reservationId" json:"reservationId"`
	ServiceID                string `bson:"serviceId" json:"serviceId"`
	ServiceName              string `bson:"serviceName" json:"serviceName"`
	ProfessionalID           string `bson:"professionalId" json:"professionalId"`
	EffectiveDurationMinutes int    `bson:"effectiveDurationMinutes" json:"effectiveDurationMinutes"`
}

// StatusHistory is an append-only record of reservation status changes.
type StatusHistory struct {
	ID            string    `bson:"id" json:"id"`
	ReservationID string    `bson:"reservationId" json:"reservationId"`
	Status        string    `bson:"status" json:"status"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
	Note          string    `bson:"note,omitempty" json:"note,omitempty"`
}

// AdminAudit records administrative mutations for traceability.
type AdminAudit struct {
	ID        string    `bson:"id" json:"id"`
	Actor     string    `bson:"actor" json:"actor"`
	Action    string    `bson:"action" json:"action"`
	ModelName string    `bson:"modelName" json:"modelName"`
	ObjectID  string    `bson:"objectId" json:"objectId"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
}
