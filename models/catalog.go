package models

// Service is a unit of work a client can request.
type Service struct {
	ID                     string `bson:"id" json:"id"`
	Name                   string `bson:"name" json:"name"`
	DefaultDurationMinutes int    `bson:"defaultDurationMinutes" json:"defaultDurationMinutes"`
	Active                 bool   `bson:"active" json:"active"`
}

// ServiceTimeRule restricts the allowed start times of a service on one weekday
// (Monday=0..Sunday=6). Absence of a rule means any start time within work hours.
type ServiceTimeRule struct {
	ID                string   `bson:"id" json:"id"`
	ServiceID         string   `bson:"serviceId" json:"serviceId"`
	Weekday           int      `bson:"weekday" json:"weekday"`
	AllowedStartTimes []string `bson:"allowedStartTimes" json:"allowedStartTimes"`
}
