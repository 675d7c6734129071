package models

import "time"

// AvailabilityOffer is one consolidated slot across the professionals who can
// take it. ProfessionalIDs and SlotIDs are parallel arrays ordered by
// preference (daily load ascending, then professional id).
type AvailabilityOffer struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	ProfessionalIDs []string  `json:"professionals"`
	SlotIDs         []string  `json:"slotIds"`
}

// ClientDescriptor carries whatever the caller knows about the client.
type ClientDescriptor struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// VehicleInput describes the vehicle to service, if any.
type VehicleInput struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

// AddressInput describes the service address, if any.
type AddressInput struct {
	Alias       string `json:"alias"`
	Street      string `json:"street"`
	Number      string `json:"number"`
	Complement  string `json:"complement"`
	CommuneID   string `json:"communeId"`
	CommuneName string `json:"communeName"`
}

// ServiceRequest names one service of the booking and the professional
// expected to perform it.
type ServiceRequest struct {
	ServiceID      string `json:"serviceId"`
	ProfessionalID string `json:"professionalId"`
}

// ReservationRequest is the input of the booking transaction.
type ReservationRequest struct {
	Client         ClientDescriptor `json:"client"`
	Vehicle        *VehicleInput    `json:"vehicle,omitempty"`
	Address        *AddressInput    `json:"address,omitempty"`
	ProfessionalID string           `json:"professionalId"`
	Services       []ServiceRequest `json:"services"`
	SlotID         string           `json:"slotId"`
	Note           string           `json:"note"`
}

// SlotsSummary condenses the contiguous run a reservation occupies.
type SlotsSummary struct {
	SlotIDStart    string    `json:"slotIdStart"`
	SlotIDEnd      string    `json:"slotIdEnd"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	ProfessionalID string    `json:"professionalId"`
}

// ReservationDetail is the outward shape of a booked reservation.
type ReservationDetail struct {
	ID           string               `json:"id"`
	Status       string               `json:"status"`
	TotalMinutes int                  `json:"totalMinutes"`
	Note         string               `json:"note,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	Services     []ReservationService `json:"services"`
	SlotsSummary *SlotsSummary        `json:"slotsSummary,omitempty"`
	Client       *Client              `json:"client,omitempty"`
	Vehicle      *Vehicle             `json:"vehicle,omitempty"`
	Address      *Address             `json:"address,omitempty"`
}

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	Date             string
	Status           string
	ProfessionalID   string
	ClientID         string
	IncludeCancelled bool
}
