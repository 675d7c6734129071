// File: services/agenda/availability.go
package agenda

import (
	"context"
	"fmt"
	"sort"
	"time"

	catalogRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/catalog"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// AvailabilityService answers "when can these services be booked on this date"
// across every qualified professional.
type AvailabilityService interface {
	Aggregated(ctx context.Context, serviceIDs []string, date string) ([]models.AvailabilityOffer, error)
}

type DefaultAvailabilityService struct {
	Catalog      catalogRepo.CatalogRepository
	Slots        slotRepo.SlotRepository
	Reservations reservationRepo.ReservationRepository
}

// Aggregated computes consolidated offers: the professionals able to perform
// every requested service, intersected with the services' allowed start times,
// filtered to starts with enough contiguous AVAILABLE slots, grouped by
// (start, end) and ordered by the professionals' daily load.
func (s *DefaultAvailabilityService) Aggregated(ctx context.Context, serviceIDs []string, date string) ([]models.AvailabilityOffer, error) {
	if len(serviceIDs) == 0 {
		return []models.AvailabilityOffer{}, nil
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	services := make(map[string]models.Service, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, err := s.Catalog.GetServiceByID(ctx, id)
		if err != nil || !svc.Active {
			// Unknown or inactive service: nobody qualifies.
			return []models.AvailabilityOffer{}, nil
		}
		services[id] = *svc
	}

	// Qualified professionals: one fetch for all (professional, service)
	// assignments, then keep professionals covering every service.
	assignments, err := s.Catalog.GetAssignments(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	byPro := make(map[string]map[string]models.ProfessionalService)
	for _, a := range assignments {
		if byPro[a.ProfessionalID] == nil {
			byPro[a.ProfessionalID] = make(map[string]models.ProfessionalService)
		}
		byPro[a.ProfessionalID][a.ServiceID] = a
	}
	var qualified []string
	for proID, svcMap := range byPro {
		if len(svcMap) == len(serviceIDs) {
			qualified = append(qualified, proID)
		}
	}
	if len(qualified) == 0 {
		return []models.AvailabilityOffer{}, nil
	}
	sort.Strings(qualified)

	allowed, restricted, err := s.allowedStartTimes(ctx, serviceIDs, utils.WeekdayMondayZero(day))
	if err != nil {
		return nil, err
	}
	if restricted && len(allowed) == 0 {
		return []models.AvailabilityOffer{}, nil
	}

	slots, err := s.Slots.GetAvailableByDate(ctx, date, qualified)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	slotsByPro := make(map[string][]models.Slot)
	for _, slot := range slots {
		slotsByPro[slot.ProfessionalID] = append(slotsByPro[slot.ProfessionalID], slot)
	}

	loads, err := s.Reservations.CountActiveOnDate(ctx, qualified, date)
	if err != nil {
		return nil, fmt.Errorf("load daily load: %w", err)
	}

	type contributor struct {
		proID  string
		slotID string
		load   int
	}
	offers := make(map[int64]*models.AvailabilityOffer)
	contributors := make(map[int64][]contributor)

	for _, proID := range qualified {
		required := 0
		for _, svcID := range serviceIDs {
			required += byPro[proID][svcID].EffectiveDuration(services[svcID])
		}
		proSlots := slotsByPro[proID]
		sort.Slice(proSlots, func(i, j int) bool { return proSlots[i].Start.Before(proSlots[j].Start) })

		for i, start := range proSlots {
			if restricted && !allowed[utils.LocalClock(start.Start)] {
				continue
			}
			if !chainCovers(proSlots[i:], required) {
				continue
			}
			key := start.Start.Unix()
			if offers[key] == nil {
				offers[key] = &models.AvailabilityOffer{Start: start.Start, End: start.End}
			}
			contributors[key] = append(contributors[key], contributor{
				proID:  proID,
				slotID: start.ID,
				load:   loads[proID],
			})
		}
	}

	keys := make([]int64, 0, len(offers))
	for k := range offers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	result := make([]models.AvailabilityOffer, 0, len(keys))
	for _, k := range keys {
		offer := offers[k]
		contribs := contributors[k]
		sort.Slice(contribs, func(i, j int) bool {
			if contribs[i].load != contribs[j].load {
				return contribs[i].load < contribs[j].load
			}
			return contribs[i].proID < contribs[j].proID
		})
		for _, c := range contribs {
			offer.ProfessionalIDs = append(offer.ProfessionalIDs, c.proID)
			offer.SlotIDs = append(offer.SlotIDs, c.slotID)
		}
		result = append(result, *offer)
	}
	return result, nil
}

// allowedStartTimes intersects the services' time rules for the weekday.
// Services with no rule do not restrict; restricted is false when none has one.
func (s *DefaultAvailabilityService) allowedStartTimes(ctx context.Context, serviceIDs []string, weekday int) (map[string]bool, bool, error) {
	rules, err := s.Catalog.GetTimeRules(ctx, serviceIDs, weekday)
	if err != nil {
		return nil, false, fmt.Errorf("load time rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, false, nil
	}

	perService := make(map[string]map[string]bool)
	for _, rule := range rules {
		if perService[rule.ServiceID] == nil {
			perService[rule.ServiceID] = make(map[string]bool)
		}
		for _, t := range rule.AllowedStartTimes {
			perService[rule.ServiceID][t] = true
		}
	}

	var allowed map[string]bool
	for _, set := range perService {
		if allowed == nil {
			allowed = make(map[string]bool, len(set))
			for t := range set {
				allowed[t] = true
			}
			continue
		}
		for t := range allowed {
			if !set[t] {
				delete(allowed, t)
			}
		}
	}
	return allowed, true, nil
}

// chainCovers reports whether the slots starting at slots[0] form a contiguous
// run covering at least required minutes.
func chainCovers(slots []models.Slot, required int) bool {
	covered := 0
	var prevEnd time.Time
	for i, slot := range slots {
		if i > 0 && !slot.Start.Equal(prevEnd) {
			break
		}
		covered += slot.DurationMinutes()
		prevEnd = slot.End
		if covered >= required {
			return true
		}
	}
	return false
}
