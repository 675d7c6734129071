package models

import "time"

// Slot statuses.
const (
	SlotAvailable = "AVAILABLE"
	SlotBlocked   = "BLOCKED"
	SlotReserved  = "RESERVED"
)

// Slot is a fixed-length bookable interval for one professional.
// (professionalId, start) is unique.
type Slot struct {
	ID             string    `bson:"id" json:"id"`
	ProfessionalID string    `bson:"professionalId" json:"professionalId"`
	Date           string    `bson:"date" json:"date"`
	Start          time.Time `bson:"start" json:"start"`
	End            time.Time `bson:"end" json:"end"`
	Status         string    `bson:"status" json:"status"`
}

// DurationMinutes returns the slot length in whole minutes.
func (s Slot) DurationMinutes() int {
	return int(s.End.Sub(s.Start).Minutes())
}
