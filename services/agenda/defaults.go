// File: services/agenda/defaults.go
package agenda

import "github.com/NavaUDP/Agenda-Revitek/models"

// DefaultWeekSchedules builds the starter Monday-to-Friday 09:00-18:00
// schedule a new professional gets until an admin customizes it.
func DefaultWeekSchedules(professionalID string) []models.WorkSchedule {
	schedules := make([]models.WorkSchedule, 0, 5)
	for weekday := 0; weekday < 5; weekday++ {
		schedules = append(schedules, models.WorkSchedule{
			ProfessionalID: professionalID,
			Weekday:        weekday,
			StartTime:      "09:00",
			EndTime:        "18:00",
			Active:         true,
		})
	}
	return schedules
}
