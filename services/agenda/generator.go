// File: services/agenda/generator.go
package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	professionalRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/professional"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// SlotGenerator materializes the bookable slots of one professional for one
// date from the work schedule minus breaks, exceptions and manual blocks.
type SlotGenerator interface {
	Regenerate(ctx context.Context, professionalID, date string) ([]models.Slot, error)
	RegenerateRange(ctx context.Context, professionalID, startDate string, days int)
}

type DefaultSlotGenerator struct {
	ProfessionalRepo professionalRepo.ProfessionalRepository
	SlotRepo         slotRepo.SlotRepository
	ReservationRepo  reservationRepo.ReservationRepository
	// SlotLength overrides the configured slot length when non-zero.
	SlotLength time.Duration
}

func (g *DefaultSlotGenerator) slotLength() time.Duration {
	if g.SlotLength > 0 {
		return g.SlotLength
	}
	if config.AppConfig.SlotLengthMinutes > 0 {
		return time.Duration(config.AppConfig.SlotLengthMinutes) * time.Minute
	}
	return time.Hour
}

// Regenerate is idempotent: re-running it with no schedule change leaves the
// same set of AVAILABLE slots. RESERVED and BLOCKED slots are never touched.
func (g *DefaultSlotGenerator) Regenerate(ctx context.Context, professionalID, date string) ([]models.Slot, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	schedule, err := g.ProfessionalRepo.GetWorkSchedule(ctx, professionalID, utils.WeekdayMondayZero(day))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Not a working day: any leftover AVAILABLE slots are stale.
			return nil, g.removeAvailable(ctx, professionalID, date)
		}
		return nil, fmt.Errorf("load work schedule: %w", err)
	}

	windowStart, err := utils.CombineDateClock(date, schedule.StartTime)
	if err != nil {
		return nil, fmt.Errorf("schedule start: %w", err)
	}
	windowEnd, err := utils.CombineDateClock(date, schedule.EndTime)
	if err != nil {
		return nil, fmt.Errorf("schedule end: %w", err)
	}

	busy, err := g.busyIntervals(ctx, professionalID, date, schedule)
	if err != nil {
		return nil, err
	}

	length := g.slotLength()
	var surviving []models.Slot
	for cur := windowStart; !cur.Add(length).After(windowEnd); cur = cur.Add(length) {
		end := cur.Add(length)
		if overlapsAny(cur, end, busy) {
			continue
		}
		surviving = append(surviving, models.Slot{
			ProfessionalID: professionalID,
			Date:           date,
			Start:          cur,
			End:            end,
			Status:         models.SlotAvailable,
		})
	}

	existing, err := g.SlotRepo.GetByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		return nil, fmt.Errorf("load existing slots: %w", err)
	}
	existingByStart := make(map[int64]models.Slot, len(existing))
	for _, s := range existing {
		existingByStart[s.Start.Unix()] = s
	}

	survivingStarts := make(map[int64]bool, len(surviving))
	var result []models.Slot
	for _, s := range surviving {
		survivingStarts[s.Start.Unix()] = true
		if prior, ok := existingByStart[s.Start.Unix()]; ok {
			result = append(result, prior)
			continue
		}
		if err := g.SlotRepo.Create(ctx, s); err != nil {
			return nil, fmt.Errorf("create slot at %s: %w", s.Start, err)
		}
		result = append(result, s)
	}

	if err := g.reconcileStale(ctx, existing, survivingStarts); err != nil {
		return nil, err
	}
	return result, nil
}

// RegenerateRange regenerates a run of days; per-day failures are logged and
// skipped so a bad day never stops the horizon job.
func (g *DefaultSlotGenerator) RegenerateRange(ctx context.Context, professionalID, startDate string, days int) {
	logger := utils.GetLogger()
	day, err := utils.ParseDate(startDate)
	if err != nil {
		logger.Error("regenerate range: invalid start date", zap.String("date", startDate), zap.Error(err))
		return
	}
	for i := 0; i < days; i++ {
		date := day.AddDate(0, 0, i).Format(utils.DateLayout)
		if _, err := g.Regenerate(ctx, professionalID, date); err != nil {
			logger.Warn("regenerate range: day failed",
				zap.String("professionalId", professionalID),
				zap.String("date", date),
				zap.Error(err))
		}
	}
}

func (g *DefaultSlotGenerator) busyIntervals(ctx context.Context, professionalID, date string, schedule *models.WorkSchedule) ([]models.BusyInterval, error) {
	var busy []models.BusyInterval

	for _, b := range schedule.Breaks {
		start, err := utils.CombineDateClock(date, b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("break start: %w", err)
		}
		end, err := utils.CombineDateClock(date, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("break end: %w", err)
		}
		busy = append(busy, models.BusyInterval{Start: start, End: end})
	}

	exceptions, err := g.ProfessionalRepo.GetExceptions(ctx, professionalID, date)
	if err != nil {
		return nil, fmt.Errorf("load exceptions: %w", err)
	}
	for _, e := range exceptions {
		busy = append(busy, models.BusyInterval{Start: e.Start, End: e.End})
	}

	blocks, err := g.ProfessionalRepo.GetBlocks(ctx, professionalID, date)
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	for _, b := range blocks {
		busy = append(busy, models.BusyInterval{Start: b.Start, End: b.End})
	}
	return busy, nil
}

// reconcileStale removes AVAILABLE slots whose start no longer belongs to the
// surviving set. Slots referenced by a reservation link are demoted to BLOCKED
// instead of deleted so history stays intact.
func (g *DefaultSlotGenerator) reconcileStale(ctx context.Context, existing []models.Slot, survivingStarts map[int64]bool) error {
	var stale []models.Slot
	var staleIDs []string
	for _, s := range existing {
		if s.Status != models.SlotAvailable || survivingStarts[s.Start.Unix()] {
			continue
		}
		stale = append(stale, s)
		staleIDs = append(staleIDs, s.ID)
	}
	if len(stale) == 0 {
		return nil
	}

	referenced, err := g.ReservationRepo.ReferencedSlotIDs(ctx, staleIDs)
	if err != nil {
		return fmt.Errorf("check slot references: %w", err)
	}
	for _, s := range stale {
		if referenced[s.ID] {
			if err := g.SlotRepo.SetStatus(ctx, s.ID, models.SlotBlocked); err != nil {
				return fmt.Errorf("demote stale slot %s: %w", s.ID, err)
			}
			continue
		}
		if err := g.SlotRepo.Delete(ctx, s.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("delete stale slot %s: %w", s.ID, err)
		}
	}
	return nil
}

func (g *DefaultSlotGenerator) removeAvailable(ctx context.Context, professionalID, date string) error {
	existing, err := g.SlotRepo.GetByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		return fmt.Errorf("load existing slots: %w", err)
	}
	return g.reconcileStale(ctx, existing, map[int64]bool{})
}

func overlapsAny(start, end time.Time, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if utils.IntervalsOverlap(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
