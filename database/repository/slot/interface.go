// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"github.com/NavaUDP/Agenda-Revitek/database"
	"github.com/NavaUDP/Agenda-Revitek/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository reads and mutates slots. Acquire and AcquireAt are the lock
// primitives of the booking transaction: a conditional status flip that only
// one concurrent transaction can win.
type SlotRepository interface {
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	GetByProfessionalAndDate(ctx context.Context, professionalID, date string) ([]models.Slot, error)
	GetAvailableByDate(ctx context.Context, date string, professionalIDs []string) ([]models.Slot, error)
	Create(ctx context.Context, slot models.Slot) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error

	// Acquire flips the slot AVAILABLE -> RESERVED; mongo.ErrNoDocuments means
	// the slot is no longer available.
	Acquire(ctx context.Context, id string) (*models.Slot, error)
	// AcquireAt flips the AVAILABLE slot starting exactly at start for the
	// professional; mongo.ErrNoDocuments means no such slot.
	AcquireAt(ctx context.Context, professionalID string, start time.Time) (*models.Slot, error)
	// Release flips RESERVED -> AVAILABLE.
	Release(ctx context.Context, id string) error

	BulkSetStatus(ctx context.Context, professionalID string, from, to time.Time, fromStatus, toStatus string) (int64, error)
	DeletePastAvailable(ctx context.Context, before time.Time) (int64, error)
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return &mongoSlotRepo{coll: database.DB().Collection("slots")}
}
