// File: services/booking/booking_test.go
package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NavaUDP/Agenda-Revitek/config"
	catalogRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/catalog"
	clientRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// passTx runs the transaction body directly; rollback semantics are covered by
// integration against a real replica set.
var passTx = TxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})

type fakeCatalog struct {
	catalogRepo.CatalogRepository
	services    map[string]models.Service
	assignments map[string]models.ProfessionalService // key "proID/serviceID"
}

func (f *fakeCatalog) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	if svc, ok := f.services[id]; ok {
		return &svc, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCatalog) GetAssignment(ctx context.Context, professionalID, serviceID string) (*models.ProfessionalService, error) {
	if a, ok := f.assignments[professionalID+"/"+serviceID]; ok {
		return &a, nil
	}
	return nil, mongo.ErrNoDocuments
}

type fakeSlots struct {
	slotRepo.SlotRepository
	byID map[string]*models.Slot
}

func (f *fakeSlots) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSlots) Acquire(ctx context.Context, id string) (*models.Slot, error) {
	s, ok := f.byID[id]
	if !ok || s.Status != models.SlotAvailable {
		return nil, mongo.ErrNoDocuments
	}
	s.Status = models.SlotReserved
	cp := *s
	return &cp, nil
}

func (f *fakeSlots) AcquireAt(ctx context.Context, professionalID string, start time.Time) (*models.Slot, error) {
	for _, s := range f.byID {
		if s.ProfessionalID == professionalID && s.Start.Equal(start) && s.Status == models.SlotAvailable {
			s.Status = models.SlotReserved
			cp := *s
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeClients struct {
	clientRepo.ClientRepository
	byEmail  map[string]*models.Client
	byPhone  map[string]*models.Client
	inserted []*models.Client
	updated  []*models.Client
}

func (f *fakeClients) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeClients) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	if c, ok := f.byPhone[phone]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeClients) Insert(ctx context.Context, c *models.Client) error {
	c.ID = fmt.Sprintf("client-%d", len(f.inserted)+1)
	f.inserted = append(f.inserted, c)
	return nil
}

func (f *fakeClients) Update(ctx context.Context, c *models.Client) error {
	f.updated = append(f.updated, c)
	return nil
}

func (f *fakeClients) UpsertVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	v.ID = "vehicle-1"
	return v, nil
}

func (f *fakeClients) UpsertAddress(ctx context.Context, a *models.Address) (*models.Address, error) {
	a.ID = "address-1"
	return a, nil
}

func (f *fakeClients) GetCommuneByID(ctx context.Context, id string) (*models.Commune, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *fakeClients) GetCommuneByName(ctx context.Context, name string) (*models.Commune, error) {
	return nil, mongo.ErrNoDocuments
}

type fakeReservations struct {
	reservationRepo.ReservationRepository
	inserted []*models.Reservation
	links    []models.ReservationSlot
	frozen   []models.ReservationService
	history  []models.StatusHistory
	pending  *models.Reservation
}

func (f *fakeReservations) Insert(ctx context.Context, r *models.Reservation) error {
	r.ID = fmt.Sprintf("res-%d", len(f.inserted)+1)
	r.CreatedAt = time.Now().UTC()
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeReservations) InsertSlots(ctx context.Context, links []models.ReservationSlot) error {
	f.links = append(f.links, links...)
	return nil
}

func (f *fakeReservations) InsertServices(ctx context.Context, services []models.ReservationService) error {
	f.frozen = append(f.frozen, services...)
	return nil
}

func (f *fakeReservations) AppendHistory(ctx context.Context, entry models.StatusHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeReservations) FindPendingByClient(ctx context.Context, email, phone string) (*models.Reservation, error) {
	if f.pending != nil {
		return f.pending, nil
	}
	return nil, mongo.ErrNoDocuments
}

func minutes(m int) *int { return &m }

func newBookingFixture() (*DefaultBookingService, *fakeSlots, *fakeReservations, *fakeClients) {
	day := "2026-09-15"
	mk := func(id string, hour int) *models.Slot {
		start := time.Date(2026, 9, 15, hour, 0, 0, 0, time.UTC)
		return &models.Slot{
			ID: id, ProfessionalID: "pro-1", Date: day,
			Start: start, End: start.Add(time.Hour), Status: models.SlotAvailable,
		}
	}
	slots := &fakeSlots{byID: map[string]*models.Slot{
		"s1": mk("s1", 10),
		"s2": mk("s2", 11),
		"s3": mk("s3", 12),
		// s4 is intentionally not contiguous with s3.
		"s4": mk("s4", 14),
	}}
	catalog := &fakeCatalog{
		services: map[string]models.Service{
			"svc-wash":   {ID: "svc-wash", Name: "Lavado", DefaultDurationMinutes: 45, Active: true},
			"svc-polish": {ID: "svc-polish", Name: "Pulido", DefaultDurationMinutes: 60, Active: true},
		},
		assignments: map[string]models.ProfessionalService{
			"pro-1/svc-wash":   {ProfessionalID: "pro-1", ServiceID: "svc-wash", Active: true},
			"pro-1/svc-polish": {ProfessionalID: "pro-1", ServiceID: "svc-polish", Active: true, DurationOverrideMinutes: minutes(90)},
		},
	}
	reservations := &fakeReservations{}
	clients := &fakeClients{byEmail: map[string]*models.Client{}, byPhone: map[string]*models.Client{}}
	svc := &DefaultBookingService{
		Tx:           passTx,
		Clients:      clients,
		Catalog:      catalog,
		Slots:        slots,
		Reservations: reservations,
	}
	return svc, slots, reservations, clients
}

func baseRequest() models.ReservationRequest {
	return models.ReservationRequest{
		Client:         models.ClientDescriptor{Email: "ana@example.com", FirstName: "Ana", LastName: "Rojas", Phone: "+56911112222"},
		ProfessionalID: "pro-1",
		Services:       []models.ServiceRequest{{ServiceID: "svc-wash", ProfessionalID: "pro-1"}},
		SlotID:         "s1",
	}
}

func TestCreateReservationSingleSlot(t *testing.T) {
	svc, slots, reservations, clients := newBookingFixture()

	detail, err := svc.CreateReservation(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, detail.Status)
	assert.Equal(t, 45, detail.TotalMinutes)
	assert.Equal(t, models.SlotReserved, slots.byID["s1"].Status)
	assert.Equal(t, models.SlotAvailable, slots.byID["s2"].Status)
	require.Len(t, reservations.links, 1)
	assert.Equal(t, "s1", reservations.links[0].SlotID)
	assert.Equal(t, "2026-09-15", reservations.links[0].Date)
	require.Len(t, reservations.history, 1)
	assert.Equal(t, models.StatusPending, reservations.history[0].Status)
	require.Len(t, clients.inserted, 1)
	assert.Equal(t, clients.inserted[0].ID, reservations.inserted[0].ClientID)
}

func TestCreateReservationAcquiresContiguousChain(t *testing.T) {
	svc, slots, reservations, _ := newBookingFixture()

	req := baseRequest()
	// 45 + 90 = 135 minutes over 60-minute slots: three slots needed.
	req.Services = []models.ServiceRequest{
		{ServiceID: "svc-wash", ProfessionalID: "pro-1"},
		{ServiceID: "svc-polish", ProfessionalID: "pro-1"},
	}
	detail, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 135, detail.TotalMinutes)
	require.Len(t, reservations.links, 3)
	for _, id := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, models.SlotReserved, slots.byID[id].Status, id)
	}
	assert.Equal(t, models.SlotAvailable, slots.byID["s4"].Status)
	assert.Equal(t, "s1", detail.SlotsSummary.SlotIDStart)
	assert.Equal(t, "s3", detail.SlotsSummary.SlotIDEnd)
	// The polish duration is frozen at the professional's override.
	require.Len(t, reservations.frozen, 2)
	assert.Equal(t, 90, reservations.frozen[1].EffectiveDurationMinutes)
}

func TestCreateReservationInsufficientChain(t *testing.T) {
	svc, _, _, _ := newBookingFixture()

	req := baseRequest()
	req.SlotID = "s3" // s3 ends 13:00, s4 starts 14:00: the chain breaks.
	req.Services = []models.ServiceRequest{
		{ServiceID: "svc-wash", ProfessionalID: "pro-1"},
		{ServiceID: "svc-polish", ProfessionalID: "pro-1"},
	}
	_, err := svc.CreateReservation(context.Background(), req)
	assert.Equal(t, CodeInsufficientSlots, CodeOf(err))
}

func TestCreateReservationSlotUnavailable(t *testing.T) {
	svc, slots, _, _ := newBookingFixture()
	slots.byID["s1"].Status = models.SlotReserved

	_, err := svc.CreateReservation(context.Background(), baseRequest())
	assert.Equal(t, CodeSlotUnavailable, CodeOf(err))
}

func TestCreateReservationUnknownSlot(t *testing.T) {
	svc, _, _, _ := newBookingFixture()
	req := baseRequest()
	req.SlotID = "nope"

	_, err := svc.CreateReservation(context.Background(), req)
	assert.Equal(t, CodeSlotNotFound, CodeOf(err))
}

func TestCreateReservationServiceProMismatch(t *testing.T) {
	svc, _, _, _ := newBookingFixture()
	req := baseRequest()
	req.Services[0].ProfessionalID = "pro-2"

	_, err := svc.CreateReservation(context.Background(), req)
	assert.Equal(t, CodeServiceProMismatch, CodeOf(err))
}

func TestCreateReservationServiceNotAssigned(t *testing.T) {
	svc, _, _, _ := newBookingFixture()
	req := baseRequest()
	req.Services = []models.ServiceRequest{{ServiceID: "svc-unknown", ProfessionalID: "pro-1"}}

	_, err := svc.CreateReservation(context.Background(), req)
	assert.Equal(t, CodeServiceNotAssigned, CodeOf(err))
}

func TestCreateReservationZeroDurationSlot(t *testing.T) {
	svc, slots, _, _ := newBookingFixture()
	slots.byID["s1"].End = slots.byID["s1"].Start

	_, err := svc.CreateReservation(context.Background(), baseRequest())
	assert.Equal(t, CodeSlotZeroDuration, CodeOf(err))
}

func TestResolveClientMaskedEmailFallsBackToPhone(t *testing.T) {
	svc, _, reservations, clients := newBookingFixture()
	existing := &models.Client{ID: "client-77", Phone: "+56911112222"}
	clients.byPhone[existing.Phone] = existing

	req := baseRequest()
	req.Client.Email = "a***@example.com"
	_, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, clients.inserted)
	assert.Equal(t, "client-77", reservations.inserted[0].ClientID)
}

func TestResolveClientIgnoresMaskedEchoes(t *testing.T) {
	svc, _, _, clients := newBookingFixture()
	existing := &models.Client{
		ID: "client-5", Email: "ana@example.com",
		FirstName: "Ana", LastName: "Gonzalez", Phone: "+56911112222",
	}
	clients.byEmail[existing.Email] = existing

	req := baseRequest()
	req.Client.LastName = "Gon."
	req.Client.Phone = "+569****2222"
	_, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, clients.updated)
	assert.Equal(t, "Gonzalez", existing.LastName)
	assert.Equal(t, "+56911112222", existing.Phone)
}

func TestResolveClientUpdatesRealChanges(t *testing.T) {
	svc, _, _, clients := newBookingFixture()
	existing := &models.Client{
		ID: "client-5", Email: "ana@example.com",
		FirstName: "Ana", LastName: "Gonzalez", Phone: "+56911112222",
	}
	clients.byEmail[existing.Email] = existing

	req := baseRequest()
	req.Client.Phone = "+56933334444"
	_, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, clients.updated, 1)
	assert.Equal(t, "+56933334444", existing.Phone)
}

func TestCreateReservationSkipsMaskedVehicleAndAddress(t *testing.T) {
	svc, _, reservations, _ := newBookingFixture()
	req := baseRequest()
	req.Vehicle = &models.VehicleInput{Plate: "AB**12"}
	req.Address = &models.AddressInput{Street: "Av. P*** 1234"}

	detail, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, detail.Vehicle)
	assert.Nil(t, detail.Address)
	assert.Empty(t, reservations.inserted[0].VehicleID)
	assert.Empty(t, reservations.inserted[0].AddressID)
}

func TestValidateBookingRules(t *testing.T) {
	prev := config.AppConfig.BookingLeadTimeDays
	config.AppConfig.BookingLeadTimeDays = 1
	defer func() { config.AppConfig.BookingLeadTimeDays = prev }()

	svc, slots, reservations, _ := newBookingFixture()
	tomorrow := utils.TodayLocal().AddDate(0, 0, 1)
	for _, s := range slots.byID {
		s.Date = tomorrow.Format(utils.DateLayout)
	}

	req := baseRequest()
	require.NoError(t, svc.ValidateBookingRules(context.Background(), req))

	// Same-day booking violates the lead time.
	slots.byID["s1"].Date = utils.TodayLocal().Format(utils.DateLayout)
	err := svc.ValidateBookingRules(context.Background(), req)
	assert.Equal(t, CodeLeadTimeViolation, CodeOf(err))
	slots.byID["s1"].Date = tomorrow.Format(utils.DateLayout)

	// Unknown slot.
	req.SlotID = "nope"
	err = svc.ValidateBookingRules(context.Background(), req)
	assert.Equal(t, CodeSlotNotFound, CodeOf(err))
	req.SlotID = "s1"

	// A pending reservation blocks a second booking.
	reservations.pending = &models.Reservation{ID: "res-9", Status: models.StatusPending}
	err = svc.ValidateBookingRules(context.Background(), req)
	assert.Equal(t, CodePendingDuplicate, CodeOf(err))
}

func TestValidateBookingRulesConfigurableLeadTime(t *testing.T) {
	prev := config.AppConfig.BookingLeadTimeDays
	config.AppConfig.BookingLeadTimeDays = 3
	defer func() { config.AppConfig.BookingLeadTimeDays = prev }()

	svc, slots, _, _ := newBookingFixture()
	req := baseRequest()

	slots.byID["s1"].Date = utils.TodayLocal().AddDate(0, 0, 2).Format(utils.DateLayout)
	err := svc.ValidateBookingRules(context.Background(), req)
	assert.Equal(t, CodeLeadTimeViolation, CodeOf(err))

	slots.byID["s1"].Date = utils.TodayLocal().AddDate(0, 0, 3).Format(utils.DateLayout)
	require.NoError(t, svc.ValidateBookingRules(context.Background(), req))

	// Zero disables the lead time and allows same-day booking.
	config.AppConfig.BookingLeadTimeDays = 0
	slots.byID["s1"].Date = utils.TodayLocal().Format(utils.DateLayout)
	require.NoError(t, svc.ValidateBookingRules(context.Background(), req))
}
