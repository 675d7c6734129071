// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"

	"github.com/NavaUDP/Agenda-Revitek/database"
	"github.com/NavaUDP/Agenda-Revitek/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	ListActiveServices(ctx context.Context) ([]models.Service, error)
	GetTimeRules(ctx context.Context, serviceIDs []string, weekday int) ([]models.ServiceTimeRule, error)
	GetAssignments(ctx context.Context, serviceIDs []string) ([]models.ProfessionalService, error)
	GetAssignment(ctx context.Context, professionalID, serviceID string) (*models.ProfessionalService, error)
}

type mongoCatalogRepo struct {
	serviceColl    *mongo.Collection
	ruleColl       *mongo.Collection
	assignmentColl *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		serviceColl:    db.Collection("services"),
		ruleColl:       db.Collection("service_time_rules"),
		assignmentColl: db.Collection("professional_services"),
	}
}
