// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

func (r *mongoSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	var slot models.Slot
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoSlotRepo) GetByProfessionalAndDate(ctx context.Context, professionalID, date string) ([]models.Slot, error) {
	filter := bson.M{"professionalId": professionalID, "date": date}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) GetAvailableByDate(ctx context.Context, date string, professionalIDs []string) ([]models.Slot, error) {
	filter := bson.M{
		"date":           date,
		"status":         models.SlotAvailable,
		"professionalId": bson.M{"$in": professionalIDs},
	}
	opts := options.Find().SetSort(bson.D{{Key: "professionalId", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) Create(ctx context.Context, slot models.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	_, err := r.coll.InsertOne(ctx, slot)
	return err
}

func (r *mongoSlotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoSlotRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoSlotRepo) Acquire(ctx context.Context, id string) (*models.Slot, error) {
	filter := bson.M{"id": id, "status": models.SlotAvailable}
	update := bson.M{"$set": bson.M{"status": models.SlotReserved}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.Slot
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoSlotRepo) AcquireAt(ctx context.Context, professionalID string, start time.Time) (*models.Slot, error) {
	filter := bson.M{
		"professionalId": professionalID,
		"start":          start,
		"status":         models.SlotAvailable,
	}
	update := bson.M{"$set": bson.M{"status": models.SlotReserved}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.Slot
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoSlotRepo) Release(ctx context.Context, id string) error {
	filter := bson.M{"id": id, "status": models.SlotReserved}
	update := bson.M{"$set": bson.M{"status": models.SlotAvailable}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoSlotRepo) BulkSetStatus(ctx context.Context, professionalID string, from, to time.Time, fromStatus, toStatus string) (int64, error) {
	filter := bson.M{
		"professionalId": professionalID,
		"status":         fromStatus,
		"start":          bson.M{"$gte": from, "$lt": to},
	}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": toStatus}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *mongoSlotRepo) DeletePastAvailable(ctx context.Context, before time.Time) (int64, error) {
	filter := bson.M{"status": models.SlotAvailable, "end": bson.M{"$lt": before}}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
