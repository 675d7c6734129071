// File: services/lifecycle/lifecycle_test.go
package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	auditRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/audit"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/booking"
	"github.com/NavaUDP/Agenda-Revitek/services/notification"
)

var passTx = booking.TxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})

type fakeReservations struct {
	reservationRepo.ReservationRepository
	byID    map[string]*models.Reservation
	links   map[string][]models.ReservationSlot
	history []models.StatusHistory
	expired []models.Reservation
}

func (f *fakeReservations) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeReservations) GetByToken(ctx context.Context, token string) (*models.Reservation, error) {
	for _, r := range f.byID {
		if r.ConfirmationToken == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeReservations) CasStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	r, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if r.Status == s {
			r.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservations) SetCancelled(ctx context.Context, id, by string) (bool, error) {
	r, ok := f.byID[id]
	if !ok || models.IsTerminalStatus(r.Status) {
		return false, nil
	}
	r.Status = models.StatusCancelled
	r.CancelledBy = by
	return true, nil
}

func (f *fakeReservations) SetToken(ctx context.Context, id, token string, expiresAt time.Time, status string) error {
	r, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	r.ConfirmationToken = token
	r.TokenExpiresAt = &expiresAt
	r.Status = status
	return nil
}

func (f *fakeReservations) AppendHistory(ctx context.Context, entry models.StatusHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeReservations) GetSlots(ctx context.Context, reservationID string) ([]models.ReservationSlot, error) {
	return f.links[reservationID], nil
}

func (f *fakeReservations) ListWaitingExpired(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	return f.expired, nil
}

type fakeSlots struct {
	slotRepo.SlotRepository
	byID     map[string]*models.Slot
	released []string
}

func (f *fakeSlots) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSlots) Release(ctx context.Context, id string) error {
	s, ok := f.byID[id]
	if !ok || s.Status != models.SlotReserved {
		return mongo.ErrNoDocuments
	}
	s.Status = models.SlotAvailable
	f.released = append(f.released, id)
	return nil
}

type fakeGenerator struct {
	regenerated []string
}

func (f *fakeGenerator) Regenerate(ctx context.Context, professionalID, date string) ([]models.Slot, error) {
	f.regenerated = append(f.regenerated, professionalID+"/"+date)
	return nil, nil
}

func (f *fakeGenerator) RegenerateRange(ctx context.Context, professionalID, startDate string, days int) {}

type recordingDispatcher struct {
	transitions []notification.Transition
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, tr notification.Transition) {
	d.transitions = append(d.transitions, tr)
}

type fakeAudit struct {
	auditRepo.AuditRepository
	entries []models.AdminAudit
}

func (f *fakeAudit) Record(ctx context.Context, entry models.AdminAudit) error {
	f.entries = append(f.entries, entry)
	return nil
}

func newLifecycleFixture() (*DefaultLifecycleService, *fakeReservations, *fakeSlots, *fakeGenerator, *recordingDispatcher, *fakeAudit) {
	start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	slots := &fakeSlots{byID: map[string]*models.Slot{
		"s1": {ID: "s1", ProfessionalID: "pro-1", Date: "2026-09-15",
			Start: start, End: start.Add(time.Hour), Status: models.SlotReserved},
		"s2": {ID: "s2", ProfessionalID: "pro-1", Date: "2026-09-15",
			Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), Status: models.SlotReserved},
	}}
	reservations := &fakeReservations{
		byID: map[string]*models.Reservation{
			"res-1": {ID: "res-1", ClientID: "client-1", Status: models.StatusPending},
		},
		links: map[string][]models.ReservationSlot{
			"res-1": {
				{ReservationID: "res-1", SlotID: "s1", ProfessionalID: "pro-1", Date: "2026-09-15"},
				{ReservationID: "res-1", SlotID: "s2", ProfessionalID: "pro-1", Date: "2026-09-15"},
			},
		},
	}
	gen := &fakeGenerator{}
	dispatcher := &recordingDispatcher{}
	audit := &fakeAudit{}
	svc := &DefaultLifecycleService{
		Tx:           passTx,
		Reservations: reservations,
		Slots:        slots,
		Generator:    gen,
		Dispatcher:   dispatcher,
		Audit:        audit,
	}
	return svc, reservations, slots, gen, dispatcher, audit
}

func TestApproveIssuesToken(t *testing.T) {
	svc, reservations, _, _, dispatcher, audit := newLifecycleFixture()

	res, err := svc.Approve(context.Background(), "res-1", "carla", false)
	require.NoError(t, err)

	assert.Equal(t, models.StatusWaitingClient, res.Status)
	assert.NotEmpty(t, res.ConfirmationToken)
	require.NotNil(t, res.TokenExpiresAt)

	stored := reservations.byID["res-1"]
	assert.Equal(t, models.StatusWaitingClient, stored.Status)
	assert.Equal(t, res.ConfirmationToken, stored.ConfirmationToken)

	require.Len(t, reservations.history, 1)
	assert.Equal(t, "approved by carla", reservations.history[0].Note)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "approve", audit.entries[0].Action)

	require.Len(t, dispatcher.transitions, 1)
	assert.Equal(t, models.StatusPending, dispatcher.transitions[0].OldStatus)
	assert.Equal(t, models.StatusWaitingClient, dispatcher.transitions[0].NewStatus)
}

func TestApproveRejectsNonPending(t *testing.T) {
	svc, reservations, _, _, _, _ := newLifecycleFixture()
	reservations.byID["res-1"].Status = models.StatusConfirmed

	_, err := svc.Approve(context.Background(), "res-1", "carla", false)
	assert.Equal(t, booking.CodeStateInvalid, booking.CodeOf(err))

	_, err = svc.Approve(context.Background(), "missing", "carla", false)
	assert.Equal(t, booking.CodeNotFound, booking.CodeOf(err))
}

func TestConfirmByToken(t *testing.T) {
	svc, reservations, _, _, dispatcher, _ := newLifecycleFixture()
	future := time.Now().UTC().Add(time.Hour)
	res := reservations.byID["res-1"]
	res.Status = models.StatusWaitingClient
	res.ConfirmationToken = "tok-1"
	res.TokenExpiresAt = &future

	ok, reason, id := svc.ConfirmByToken(context.Background(), "tok-1")
	assert.True(t, ok)
	assert.Equal(t, "confirmed", reason)
	assert.Equal(t, "res-1", id)
	assert.Equal(t, models.StatusConfirmed, res.Status)

	require.Len(t, reservations.history, 1)
	assert.Equal(t, models.StatusReconfirmed, reservations.history[0].Status)
	assert.Equal(t, "was "+models.StatusWaitingClient, reservations.history[0].Note)

	require.Len(t, dispatcher.transitions, 1)
	assert.True(t, dispatcher.transitions[0].ViaLink)

	// A second click is idempotent.
	ok, reason, id = svc.ConfirmByToken(context.Background(), "tok-1")
	assert.True(t, ok)
	assert.Equal(t, "already_confirmed", reason)
	assert.Equal(t, "res-1", id)
	assert.Len(t, reservations.history, 1)
}

func TestConfirmByTokenExpired(t *testing.T) {
	svc, reservations, _, _, _, _ := newLifecycleFixture()
	past := time.Now().UTC().Add(-time.Hour)
	res := reservations.byID["res-1"]
	res.Status = models.StatusWaitingClient
	res.ConfirmationToken = "tok-1"
	res.TokenExpiresAt = &past

	ok, reason, _ := svc.ConfirmByToken(context.Background(), "tok-1")
	assert.False(t, ok)
	assert.Equal(t, "expired", reason)
	assert.Equal(t, models.StatusWaitingClient, res.Status)
}

func TestConfirmByTokenCancelledAndInvalid(t *testing.T) {
	svc, reservations, _, _, _, _ := newLifecycleFixture()
	res := reservations.byID["res-1"]
	res.Status = models.StatusCancelled
	res.ConfirmationToken = "tok-1"

	ok, reason, _ := svc.ConfirmByToken(context.Background(), "tok-1")
	assert.False(t, ok)
	assert.Equal(t, "cancelled", reason)

	ok, reason, _ = svc.ConfirmByToken(context.Background(), "nope")
	assert.False(t, ok)
	assert.Equal(t, "invalid", reason)
}

func TestCancelReleasesSlotsAndRegenerates(t *testing.T) {
	svc, reservations, slots, gen, dispatcher, _ := newLifecycleFixture()

	err := svc.Cancel(context.Background(), "res-1", models.CancelledByClient)
	require.NoError(t, err)

	stored := reservations.byID["res-1"]
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Equal(t, models.CancelledByClient, stored.CancelledBy)
	assert.ElementsMatch(t, []string{"s1", "s2"}, slots.released)
	assert.Equal(t, []string{"pro-1/2026-09-15"}, gen.regenerated)

	require.Len(t, reservations.history, 1)
	assert.Equal(t, models.StatusCancelled, reservations.history[0].Status)
	require.Len(t, dispatcher.transitions, 1)
	assert.Equal(t, models.StatusCancelled, dispatcher.transitions[0].NewStatus)
}

func TestCancelTerminalIsRejected(t *testing.T) {
	svc, reservations, _, _, _, _ := newLifecycleFixture()
	reservations.byID["res-1"].Status = models.StatusCompleted

	err := svc.Cancel(context.Background(), "res-1", models.CancelledByAdmin)
	assert.Equal(t, booking.CodeStateInvalid, booking.CodeOf(err))
}

func TestTransitionStateMachine(t *testing.T) {
	svc, reservations, _, _, _, _ := newLifecycleFixture()
	reservations.byID["res-1"].Status = models.StatusConfirmed

	require.NoError(t, svc.Transition(context.Background(), "res-1", models.StatusInProgress, "work started"))
	assert.Equal(t, models.StatusInProgress, reservations.byID["res-1"].Status)

	// IN_PROGRESS cannot go back to PENDING.
	err := svc.Transition(context.Background(), "res-1", models.StatusPending, "")
	assert.Equal(t, booking.CodeStateInvalid, booking.CodeOf(err))
}

func TestCompleteRefusesFutureWork(t *testing.T) {
	svc, reservations, slots, _, _, _ := newLifecycleFixture()
	reservations.byID["res-1"].Status = models.StatusConfirmed
	future := time.Now().Add(24 * time.Hour)
	slots.byID["s1"].Start = future
	slots.byID["s2"].Start = future.Add(time.Hour)

	err := svc.Complete(context.Background(), "res-1")
	assert.Equal(t, booking.CodePrematureCompletion, booking.CodeOf(err))
}

func TestCompletePastWork(t *testing.T) {
	svc, reservations, slots, _, _, _ := newLifecycleFixture()
	reservations.byID["res-1"].Status = models.StatusInProgress
	past := time.Now().Add(-2 * time.Hour)
	slots.byID["s1"].Start = past
	slots.byID["s2"].Start = past.Add(time.Hour)

	require.NoError(t, svc.Complete(context.Background(), "res-1"))
	assert.Equal(t, models.StatusCompleted, reservations.byID["res-1"].Status)
}

func TestSweepExpired(t *testing.T) {
	svc, reservations, slots, _, _, _ := newLifecycleFixture()
	reservations.byID["res-1"].Status = models.StatusWaitingClient
	reservations.expired = []models.Reservation{{ID: "res-1"}, {ID: "res-gone"}}

	swept, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)

	// The missing reservation is skipped, the real one cancelled.
	assert.Equal(t, 1, swept)
	assert.Equal(t, models.StatusCancelled, reservations.byID["res-1"].Status)
	assert.Equal(t, models.CancelledBySystem, reservations.byID["res-1"].CancelledBy)
	assert.ElementsMatch(t, []string{"s1", "s2"}, slots.released)
}
