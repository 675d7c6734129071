// File: database/repository/professional/crud.go
package professionalRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

func (r *mongoProfessionalRepo) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pro models.Professional
	if err := r.proColl.FindOne(ctx, bson.M{"id": id}).Decode(&pro); err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *mongoProfessionalRepo) ListActive(ctx context.Context) ([]models.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.proColl.Find(ctx, bson.M{"active": true, "acceptsReservations": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pros []models.Professional
	if err := cursor.All(ctx, &pros); err != nil {
		return nil, err
	}
	return pros, nil
}

func (r *mongoProfessionalRepo) Create(ctx context.Context, pro *models.Professional) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pro.ID == "" {
		pro.ID = uuid.New().String()
	}
	_, err := r.proColl.InsertOne(ctx, pro)
	return err
}

func (r *mongoProfessionalRepo) GetWorkSchedule(ctx context.Context, professionalID string, weekday int) (*models.WorkSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professionalId": professionalID, "weekday": weekday, "active": true}
	var schedule models.WorkSchedule
	if err := r.scheduleColl.FindOne(ctx, filter).Decode(&schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *mongoProfessionalRepo) CreateWorkSchedules(ctx context.Context, schedules []models.WorkSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(schedules))
	for i, s := range schedules {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		docs[i] = s
	}
	_, err := r.scheduleColl.InsertMany(ctx, docs)
	return err
}

func (r *mongoProfessionalRepo) GetExceptions(ctx context.Context, professionalID, date string) ([]models.ScheduleException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professionalId": professionalID, "date": date}
	cursor, err := r.exceptionColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exceptions []models.ScheduleException
	if err := cursor.All(ctx, &exceptions); err != nil {
		return nil, err
	}
	return exceptions, nil
}

func (r *mongoProfessionalRepo) GetBlocks(ctx context.Context, professionalID, date string) ([]models.SlotBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professionalId": professionalID, "date": date}
	cursor, err := r.blockColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blocks []models.SlotBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *mongoProfessionalRepo) GetBlockByID(ctx context.Context, id string) (*models.SlotBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var block models.SlotBlock
	if err := r.blockColl.FindOne(ctx, bson.M{"id": id}).Decode(&block); err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *mongoProfessionalRepo) CreateBlock(ctx context.Context, block *models.SlotBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if block.ID == "" {
		block.ID = uuid.New().String()
	}
	_, err := r.blockColl.InsertOne(ctx, block)
	return err
}

func (r *mongoProfessionalRepo) UpdateBlock(ctx context.Context, block *models.SlotBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.blockColl.ReplaceOne(ctx, bson.M{"id": block.ID}, block)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoProfessionalRepo) DeleteBlock(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.blockColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
