// File: database/repository/catalog/crud.go
package catalogRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

func (r *mongoCatalogRepo) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := r.serviceColl.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *mongoCatalogRepo) ListActiveServices(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.serviceColl.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *mongoCatalogRepo) GetTimeRules(ctx context.Context, serviceIDs []string, weekday int) ([]models.ServiceTimeRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"serviceId": bson.M{"$in": serviceIDs}, "weekday": weekday}
	cursor, err := r.ruleColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.ServiceTimeRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoCatalogRepo) GetAssignments(ctx context.Context, serviceIDs []string) ([]models.ProfessionalService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"serviceId": bson.M{"$in": serviceIDs}, "active": true}
	cursor, err := r.assignmentColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.ProfessionalService
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *mongoCatalogRepo) GetAssignment(ctx context.Context, professionalID, serviceID string) (*models.ProfessionalService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professionalId": professionalID, "serviceId": serviceID, "active": true}
	var assignment models.ProfessionalService
	if err := r.assignmentColl.FindOne(ctx, filter).Decode(&assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}
