// File: database/repository/reservation/crud.go
package reservationRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

func (r *mongoReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, res)
	return err
}

func (r *mongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoReservationRepo) GetByToken(ctx context.Context, token string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"confirmationToken": token}).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoReservationRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	} else if !filter.IncludeCancelled {
		query["status"] = bson.M{"$ne": models.StatusCancelled}
	}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}
	if filter.Date != "" || filter.ProfessionalID != "" {
		linkQuery := bson.M{}
		if filter.Date != "" {
			linkQuery["date"] = filter.Date
		}
		if filter.ProfessionalID != "" {
			linkQuery["professionalId"] = filter.ProfessionalID
		}
		ids, err := r.slotLinks.Distinct(ctx, "reservationId", linkQuery)
		if err != nil {
			return nil, err
		}
		query["id"] = bson.M{"$in": ids}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *mongoReservationRepo) CasStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoReservationRepo) SetCancelled(ctx context.Context, id, by string) (bool, error) {
	filter := bson.M{"id": id, "status": bson.M{"$nin": models.TerminalStatuses}}
	update := bson.M{"$set": bson.M{
		"status":      models.StatusCancelled,
		"cancelledBy": by,
		"updatedAt":   time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoReservationRepo) SetToken(ctx context.Context, id, token string, expiresAt time.Time, status string) error {
	update := bson.M{"$set": bson.M{
		"confirmationToken": token,
		"tokenExpiresAt":    expiresAt,
		"status":            status,
		"updatedAt":         time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoReservationRepo) InsertSlots(ctx context.Context, links []models.ReservationSlot) error {
	docs := make([]interface{}, len(links))
	for i, link := range links {
		if link.ID == "" {
			link.ID = uuid.New().String()
		}
		docs[i] = link
	}
	_, err := r.slotLinks.InsertMany(ctx, docs)
	return err
}

func (r *mongoReservationRepo) InsertServices(ctx context.Context, services []models.ReservationService) error {
	docs := make([]interface{}, len(services))
	for i, svc := range services {
		if svc.ID == "" {
			svc.ID = uuid.New().String()
		}
		docs[i] = svc
	}
	_, err := r.serviceColl.InsertMany(ctx, docs)
	return err
}

func (r *mongoReservationRepo) AppendHistory(ctx context.Context, entry models.StatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := r.historyColl.InsertOne(ctx, entry)
	return err
}

func (r *mongoReservationRepo) GetSlots(ctx context.Context, reservationID string) ([]models.ReservationSlot, error) {
	cursor, err := r.slotLinks.Find(ctx, bson.M{"reservationId": reservationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []models.ReservationSlot
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *mongoReservationRepo) GetServices(ctx context.Context, reservationID string) ([]models.ReservationService, error) {
	cursor, err := r.serviceColl.Find(ctx, bson.M{"reservationId": reservationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.ReservationService
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *mongoReservationRepo) GetHistory(ctx context.Context, reservationID string) ([]models.StatusHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.historyColl.Find(ctx, bson.M{"reservationId": reservationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var history []models.StatusHistory
	if err := cursor.All(ctx, &history); err != nil {
		return nil, err
	}
	return history, nil
}
