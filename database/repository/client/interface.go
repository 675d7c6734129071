// File: database/repository/client/interface.go
package clientRepo

import (
	"context"

	"github.com/NavaUDP/Agenda-Revitek/database"
	"github.com/NavaUDP/Agenda-Revitek/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	GetByPhone(ctx context.Context, phone string) (*models.Client, error)
	GetByPhoneSuffix(ctx context.Context, suffix string) (*models.Client, error)
	Insert(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, c *models.Client) error

	UpsertVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	UpsertAddress(ctx context.Context, a *models.Address) (*models.Address, error)
	GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	GetAddressByID(ctx context.Context, id string) (*models.Address, error)
	GetVehiclesByOwner(ctx context.Context, ownerID string) ([]models.Vehicle, error)
	GetAddressesByOwner(ctx context.Context, ownerID string) ([]models.Address, error)

	ListCommunes(ctx context.Context) ([]models.Commune, error)
	GetCommuneByID(ctx context.Context, id string) (*models.Commune, error)
	GetCommuneByName(ctx context.Context, name string) (*models.Commune, error)
}

type mongoClientRepo struct {
	clientColl  *mongo.Collection
	vehicleColl *mongo.Collection
	addressColl *mongo.Collection
	communeColl *mongo.Collection
}

// NewMongoClientRepo constructs a new MongoDB ClientRepository.
func NewMongoClientRepo() ClientRepository {
	db := database.DB()
	return &mongoClientRepo{
		clientColl:  db.Collection("clients"),
		vehicleColl: db.Collection("vehicles"),
		addressColl: db.Collection("addresses"),
		communeColl: db.Collection("communes"),
	}
}
