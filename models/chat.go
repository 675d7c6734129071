package models

import "time"

// Chat conversation states.
const (
	ChatStateMenu           = "MENU"
	ChatStateSelectService  = "SELECT_SERVICE"
	ChatStateSelectDate     = "SELECT_DATE"
	ChatStateSelectTime     = "SELECT_TIME"
	ChatStateWaitingEmail   = "WAITING_FOR_EMAIL"
	ChatStateWaitingAddress = "WAITING_FOR_ADDRESS"
)

// ChatSession is the per-phone conversation state persisted between messages.
type ChatSession struct {
	Phone     string              `json:"phone"`
	State     string              `json:"state"`
	ServiceID string              `json:"serviceId,omitempty"`
	Date      string              `json:"date,omitempty"`
	Offers    []AvailabilityOffer `json:"offers,omitempty"`
	OfferIdx  int                 `json:"offerIdx,omitempty"`
	ClientID  string              `json:"clientId,omitempty"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// WhatsAppLog records one outbound message and its delivery status.
type WhatsAppLog struct {
	ID            string    `bson:"id" json:"id"`
	Phone         string    `bson:"phone" json:"phone"`
	MessageID     string    `bson:"messageId,omitempty" json:"messageId,omitempty"`
	Kind          string    `bson:"kind" json:"kind"`
	Body          string    `bson:"body,omitempty" json:"body,omitempty"`
	Status        string    `bson:"status" json:"status"`
	ReservationID string    `bson:"reservationId,omitempty" json:"reservationId,omitempty"`
	SentAt        time.Time `bson:"sentAt" json:"sentAt"`
}
