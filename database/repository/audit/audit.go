// File: database/repository/audit/audit.go
package auditRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NavaUDP/Agenda-Revitek/database"
	"github.com/NavaUDP/Agenda-Revitek/models"
)

type AuditRepository interface {
	Record(ctx context.Context, entry models.AdminAudit) error
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo constructs a new MongoDB AuditRepository.
func NewMongoAuditRepo() AuditRepository {
	return &mongoAuditRepo{coll: database.DB().Collection("admin_audit")}
}

func (r *mongoAuditRepo) Record(ctx context.Context, entry models.AdminAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, entry)
	return err
}
