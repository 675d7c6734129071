package models

import "time"

// WorkSchedule is the weekly working-hours template for one professional.
// (professionalId, weekday) is unique; weekday uses Monday=0..Sunday=6.
// Start and end are "HH:MM" clock times in the business time zone.
type WorkSchedule struct {
	ID             string  `bson:"id" json:"id"`
	ProfessionalID string  `bson:"professionalId" json:"professionalId"`
	Weekday        int     `bson:"weekday" json:"weekday"`
	StartTime      string  `bson:"startTime" json:"startTime"`
	EndTime        string  `bson:"endTime" json:"endTime"`
	Active         bool    `bson:"active" json:"active"`
	Breaks         []Break `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// Break is a recurring unavailability window inside a work schedule.
type Break struct {
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}

// ScheduleException is one-off unavailability for a professional on a date
// (vacation, training, an event).
type ScheduleException struct {
	ID             string    `bson:"id" json:"id"`
	ProfessionalID string    `bson:"professionalId" json:"professionalId"`
	Date           string    `bson:"date" json:"date"`
	Start          time.Time `bson:"start" json:"start"`
	End            time.Time `bson:"end" json:"end"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// SlotBlock is a manually declared busy interval.
type SlotBlock struct {
	ID             string    `bson:"id" json:"id"`
	ProfessionalID string    `bson:"professionalId" json:"professionalId"`
	Date           string    `bson:"date" json:"date"`
	Start          time.Time `bson:"start" json:"start"`
	End            time.Time `bson:"end" json:"end"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedBy      string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

// BusyInterval is the generator's unified view of breaks, exceptions and blocks.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}
