package models

// Professional is a service provider with a weekly work schedule.
type Professional struct {
	ID                  string `bson:"id" json:"id"`
	DisplayName         string `bson:"displayName" json:"displayName"`
	Active              bool   `bson:"active" json:"active"`
	AcceptsReservations bool   `bson:"acceptsReservations" json:"acceptsReservations"`
	UserID              string `bson:"userId,omitempty" json:"userId,omitempty"`
}

// ProfessionalService assigns a service to a professional, optionally
// overriding the service's default duration. (professionalId, serviceId) is unique.
type ProfessionalService struct {
	ID                      string `bson:"id" json:"id"`
	ProfessionalID          string `bson:"professionalId" json:"professionalId"`
	ServiceID               string `bson:"serviceId" json:"serviceId"`
	DurationOverrideMinutes *int   `bson:"durationOverrideMinutes,omitempty" json:"durationOverrideMinutes,omitempty"`
	Active                  bool   `bson:"active" json:"active"`
}

// EffectiveDuration resolves the minutes this professional takes for the service.
func (ps ProfessionalService) EffectiveDuration(svc Service) int {
	if ps.DurationOverrideMinutes != nil {
		return *ps.DurationOverrideMinutes
	}
	return svc.DefaultDurationMinutes
}
