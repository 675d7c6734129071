package database

import (
	"context"
	"log"
	"time"

	"github.com/NavaUDP/Agenda-Revitek/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// InitDB initializes the MongoDB connection.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")

	if err := ensureIndexes(ctx, client.Database(config.AppConfig.DatabaseName)); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}
}

// DB returns a handle to the application database.
func DB() *mongo.Database {
	return MongoClient.Database(config.AppConfig.DatabaseName)
}

// Ping checks database reachability, for health probes.
func Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return MongoClient.Ping(ctx, nil)
}

// WithTransaction runs fn inside a single MongoDB session transaction.
// The session context passed to fn must be used for every read and write that
// belongs to the transaction.
func WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	sess, err := MongoClient.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"slots": {
			{Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "start", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		},
		"reservations": {
			{Keys: bson.D{{Key: "confirmationToken", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(
					bson.M{"confirmationToken": bson.M{"$type": "string"}})},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"reservation_slots": {
			{Keys: bson.D{{Key: "reservationId", Value: 1}}},
			{Keys: bson.D{{Key: "slotId", Value: 1}}},
		},
		"reservation_services": {
			{Keys: bson.D{{Key: "reservationId", Value: 1}}},
		},
		"status_history": {
			{Keys: bson.D{{Key: "reservationId", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		"clients": {
			{Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(
					bson.M{"email": bson.M{"$type": "string"}})},
			{Keys: bson.D{{Key: "phone", Value: 1}}},
		},
		"professional_services": {
			{Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "serviceId", Value: 1}}, Options: unique},
		},
		"work_schedules": {
			{Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "weekday", Value: 1}}, Options: unique},
		},
		"whatsapp_logs": {
			{Keys: bson.D{{Key: "messageId", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
