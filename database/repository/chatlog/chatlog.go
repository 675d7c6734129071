// File: database/repository/chatlog/chatlog.go
package chatlogRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NavaUDP/Agenda-Revitek/database"
	"github.com/NavaUDP/Agenda-Revitek/models"
)

// ChatLogRepository stores outbound WhatsApp messages and their delivery
// receipts. The webhook matches receipts back by provider message id.
type ChatLogRepository interface {
	Insert(ctx context.Context, entry *models.WhatsAppLog) error
	UpdateStatusByMessageID(ctx context.Context, messageID, status string) error
	GetByMessageID(ctx context.Context, messageID string) (*models.WhatsAppLog, error)
}

type mongoChatLogRepo struct {
	coll *mongo.Collection
}

// NewMongoChatLogRepo constructs a new MongoDB ChatLogRepository.
func NewMongoChatLogRepo() ChatLogRepository {
	return &mongoChatLogRepo{coll: database.DB().Collection("whatsapp_logs")}
}

func (r *mongoChatLogRepo) Insert(ctx context.Context, entry *models.WhatsAppLog) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, entry)
	return err
}

func (r *mongoChatLogRepo) UpdateStatusByMessageID(ctx context.Context, messageID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"messageId": messageID}
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoChatLogRepo) GetByMessageID(ctx context.Context, messageID string) (*models.WhatsAppLog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var entry models.WhatsAppLog
	if err := r.coll.FindOne(ctx, bson.M{"messageId": messageID}).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
