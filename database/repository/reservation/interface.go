// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"
	"time"

	"github.com/NavaUDP/Agenda-Revitek/database"
	"github.com/NavaUDP/Agenda-Revitek/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationRepository interface {
	Insert(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByToken(ctx context.Context, token string) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)

	// CasStatus transitions the status only when the current status is one of
	// from. Returns false when no document matched, i.e. the reservation moved
	// under a concurrent writer.
	CasStatus(ctx context.Context, id string, from []string, to string) (bool, error)
	SetCancelled(ctx context.Context, id, by string) (bool, error)
	SetToken(ctx context.Context, id, token string, expiresAt time.Time, status string) error

	InsertSlots(ctx context.Context, links []models.ReservationSlot) error
	InsertServices(ctx context.Context, services []models.ReservationService) error
	AppendHistory(ctx context.Context, entry models.StatusHistory) error

	GetSlots(ctx context.Context, reservationID string) ([]models.ReservationSlot, error)
	GetServices(ctx context.Context, reservationID string) ([]models.ReservationService, error)
	GetHistory(ctx context.Context, reservationID string) ([]models.StatusHistory, error)

	// ReferencedSlotIDs returns which of the given slot ids appear in any
	// reservation link.
	ReferencedSlotIDs(ctx context.Context, slotIDs []string) (map[string]bool, error)
	// CountActiveOnDate returns, per professional, the number of distinct
	// reservations in an active status holding slots on the date.
	CountActiveOnDate(ctx context.Context, professionalIDs []string, date string) (map[string]int, error)
	FindPendingByClient(ctx context.Context, email, phone string) (*models.Reservation, error)
	ListWaitingExpired(ctx context.Context, now time.Time) ([]models.Reservation, error)
	ListActiveByClient(ctx context.Context, clientID string) ([]models.Reservation, error)
	ListConfirmedOnDate(ctx context.Context, date string) ([]models.Reservation, error)
}

type mongoReservationRepo struct {
	coll        *mongo.Collection
	slotLinks   *mongo.Collection
	serviceColl *mongo.Collection
	historyColl *mongo.Collection
	clientColl  *mongo.Collection
}

// NewMongoReservationRepo constructs a new MongoDB ReservationRepository.
func NewMongoReservationRepo() ReservationRepository {
	db := database.DB()
	return &mongoReservationRepo{
		coll:        db.Collection("reservations"),
		slotLinks:   db.Collection("reservation_slots"),
		serviceColl: db.Collection("reservation_services"),
		historyColl: db.Collection("status_history"),
		clientColl:  db.Collection("clients"),
	}
}
