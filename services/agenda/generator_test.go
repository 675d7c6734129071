// File: services/agenda/generator_test.go
package agenda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	professionalRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/professional"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// 2026-09-15 is a Tuesday, weekday 1 in the Monday=0 convention.
const testDate = "2026-09-15"

type fakeProfessionals struct {
	professionalRepo.ProfessionalRepository
	schedule   *models.WorkSchedule
	exceptions []models.ScheduleException
	blocks     []models.SlotBlock
}

func (f *fakeProfessionals) GetWorkSchedule(ctx context.Context, professionalID string, weekday int) (*models.WorkSchedule, error) {
	if f.schedule == nil || f.schedule.Weekday != weekday {
		return nil, mongo.ErrNoDocuments
	}
	return f.schedule, nil
}

func (f *fakeProfessionals) GetExceptions(ctx context.Context, professionalID, date string) ([]models.ScheduleException, error) {
	return f.exceptions, nil
}

func (f *fakeProfessionals) GetBlocks(ctx context.Context, professionalID, date string) ([]models.SlotBlock, error) {
	return f.blocks, nil
}

type fakeSlotStore struct {
	slotRepo.SlotRepository
	slots   map[string]*models.Slot
	created int
	deleted []string
	demoted []string
}

func (f *fakeSlotStore) GetByProfessionalAndDate(ctx context.Context, professionalID, date string) ([]models.Slot, error) {
	var out []models.Slot
	for _, s := range f.slots {
		if s.ProfessionalID == professionalID && s.Date == date {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlotStore) Create(ctx context.Context, slot models.Slot) error {
	f.created++
	slot.ID = fmt.Sprintf("slot-%d", f.created)
	f.slots[slot.ID] = &slot
	return nil
}

func (f *fakeSlotStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.slots[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.slots, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSlotStore) SetStatus(ctx context.Context, id, status string) error {
	s, ok := f.slots[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.Status = status
	if status == models.SlotBlocked {
		f.demoted = append(f.demoted, id)
	}
	return nil
}

type fakeReservationStore struct {
	reservationRepo.ReservationRepository
	referenced map[string]bool
	loads      map[string]int
}

func (f *fakeReservationStore) ReferencedSlotIDs(ctx context.Context, slotIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range slotIDs {
		if f.referenced[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeReservationStore) CountActiveOnDate(ctx context.Context, professionalIDs []string, date string) (map[string]int, error) {
	out := make(map[string]int)
	for _, id := range professionalIDs {
		out[id] = f.loads[id]
	}
	return out, nil
}

func newGeneratorFixture() (*DefaultSlotGenerator, *fakeProfessionals, *fakeSlotStore, *fakeReservationStore) {
	pros := &fakeProfessionals{
		schedule: &models.WorkSchedule{
			ProfessionalID: "pro-1",
			Weekday:        1,
			StartTime:      "09:00",
			EndTime:        "18:00",
			Active:         true,
			Breaks:         []models.Break{{StartTime: "13:00", EndTime: "14:00"}},
		},
	}
	slots := &fakeSlotStore{slots: map[string]*models.Slot{}}
	reservations := &fakeReservationStore{referenced: map[string]bool{}}
	gen := &DefaultSlotGenerator{
		ProfessionalRepo: pros,
		SlotRepo:         slots,
		ReservationRepo:  reservations,
		SlotLength:       time.Hour,
	}
	return gen, pros, slots, reservations
}

func clock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	ts, err := utils.CombineDateClock(testDate, hhmm)
	require.NoError(t, err)
	return ts
}

func TestRegenerateBuildsWorkingDay(t *testing.T) {
	gen, _, slots, _ := newGeneratorFixture()

	result, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	// 09:00-18:00 minus the 13:00-14:00 break leaves eight hour slots.
	assert.Len(t, result, 8)
	assert.Equal(t, 8, slots.created)
	for _, s := range result {
		assert.Equal(t, models.SlotAvailable, s.Status)
		assert.NotEqual(t, "13:00", utils.LocalClock(s.Start))
	}
}

func TestRegenerateIsIdempotent(t *testing.T) {
	gen, _, slots, _ := newGeneratorFixture()

	first, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)
	second, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	assert.Equal(t, 8, slots.created, "second run must not create new slots")
	assert.Empty(t, slots.deleted)
	assert.Len(t, second, len(first))
}

func TestRegenerateSkipsBusyIntervals(t *testing.T) {
	gen, pros, _, _ := newGeneratorFixture()
	pros.exceptions = []models.ScheduleException{
		{Start: clock(t, "09:30"), End: clock(t, "10:30")},
	}
	pros.blocks = []models.SlotBlock{
		{Start: clock(t, "16:00"), End: clock(t, "17:00")},
	}

	result, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	// The exception overlaps 09:00 and 10:00 starts; the block kills 16:00.
	assert.Len(t, result, 5)
	for _, s := range result {
		start := utils.LocalClock(s.Start)
		assert.NotContains(t, []string{"09:00", "10:00", "16:00"}, start)
	}
}

func TestRegenerateRemovesStaleAvailable(t *testing.T) {
	gen, pros, slots, reservations := newGeneratorFixture()

	_, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	// The day shrinks: afternoon slots become stale.
	pros.schedule.EndTime = "12:00"
	var reservedStale string
	for id, s := range slots.slots {
		if utils.LocalClock(s.Start) == "15:00" {
			reservedStale = id
		}
	}
	require.NotEmpty(t, reservedStale)
	reservations.referenced[reservedStale] = true

	result, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	assert.Len(t, result, 3)
	// Referenced stale slots are demoted, the rest deleted.
	assert.Equal(t, []string{reservedStale}, slots.demoted)
	assert.Equal(t, models.SlotBlocked, slots.slots[reservedStale].Status)
	assert.Len(t, slots.deleted, 4)
}

func TestRegenerateNonWorkingDayClearsAvailable(t *testing.T) {
	gen, pros, slots, _ := newGeneratorFixture()

	_, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)
	require.Equal(t, 8, len(slots.slots))

	pros.schedule = nil
	result, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	assert.Nil(t, result)
	assert.Empty(t, slots.slots)
}

func TestRegenerateNeverTouchesReservedSlots(t *testing.T) {
	gen, pros, slots, _ := newGeneratorFixture()

	_, err := gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	var reserved string
	for id, s := range slots.slots {
		if utils.LocalClock(s.Start) == "10:00" {
			s.Status = models.SlotReserved
			reserved = id
		}
	}
	pros.schedule.EndTime = "11:00"

	_, err = gen.Regenerate(context.Background(), "pro-1", testDate)
	require.NoError(t, err)

	require.Contains(t, slots.slots, reserved)
	assert.Equal(t, models.SlotReserved, slots.slots[reserved].Status)
}
