// File: database/repository/professional/interface.go
package professionalRepo

import (
	"context"

	"github.com/NavaUDP/Agenda-Revitek/database"
	"github.com/NavaUDP/Agenda-Revitek/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ProfessionalRepository interface {
	GetByID(ctx context.Context, id string) (*models.Professional, error)
	ListActive(ctx context.Context) ([]models.Professional, error)
	Create(ctx context.Context, pro *models.Professional) error

	GetWorkSchedule(ctx context.Context, professionalID string, weekday int) (*models.WorkSchedule, error)
	CreateWorkSchedules(ctx context.Context, schedules []models.WorkSchedule) error

	GetExceptions(ctx context.Context, professionalID, date string) ([]models.ScheduleException, error)

	GetBlocks(ctx context.Context, professionalID, date string) ([]models.SlotBlock, error)
	GetBlockByID(ctx context.Context, id string) (*models.SlotBlock, error)
	CreateBlock(ctx context.Context, block *models.SlotBlock) error
	UpdateBlock(ctx context.Context, block *models.SlotBlock) error
	DeleteBlock(ctx context.Context, id string) error
}

type mongoProfessionalRepo struct {
	proColl       *mongo.Collection
	scheduleColl  *mongo.Collection
	exceptionColl *mongo.Collection
	blockColl     *mongo.Collection
}

// NewMongoProfessionalRepo constructs a new MongoDB ProfessionalRepository.
func NewMongoProfessionalRepo() ProfessionalRepository {
	db := database.DB()
	return &mongoProfessionalRepo{
		proColl:       db.Collection("professionals"),
		scheduleColl:  db.Collection("work_schedules"),
		exceptionColl: db.Collection("schedule_exceptions"),
		blockColl:     db.Collection("slot_blocks"),
	}
}
