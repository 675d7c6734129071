// File: database/repository/client/crud.go
package clientRepo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

func (r *mongoClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := r.clientColl.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoClientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	filter := bson.M{"email": primitive.Regex{
		Pattern: "^" + escapeRegex(strings.TrimSpace(email)) + "$",
		Options: "i",
	}}
	var c models.Client
	if err := r.clientColl.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoClientRepo) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	var c models.Client
	if err := r.clientColl.FindOne(ctx, bson.M{"phone": phone}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoClientRepo) GetByPhoneSuffix(ctx context.Context, suffix string) (*models.Client, error) {
	filter := bson.M{"phone": primitive.Regex{Pattern: escapeRegex(suffix) + "$"}}
	var c models.Client
	if err := r.clientColl.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoClientRepo) Insert(ctx context.Context, c *models.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.clientColl.InsertOne(ctx, c)
	return err
}

func (r *mongoClientRepo) Update(ctx context.Context, c *models.Client) error {
	res, err := r.clientColl.ReplaceOne(ctx, bson.M{"id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoClientRepo) UpsertVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	filter := bson.M{"ownerId": v.OwnerID, "plate": v.Plate}
	update := bson.M{
		"$set": bson.M{"brand": v.Brand, "model": v.Model, "year": v.Year},
		"$setOnInsert": bson.M{
			"id":      uuid.New().String(),
			"ownerId": v.OwnerID,
			"plate":   v.Plate,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Vehicle
	if err := r.vehicleColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *mongoClientRepo) UpsertAddress(ctx context.Context, a *models.Address) (*models.Address, error) {
	filter := bson.M{"ownerId": a.OwnerID, "alias": a.Alias}
	update := bson.M{
		"$set": bson.M{
			"street":      a.Street,
			"number":      a.Number,
			"complement":  a.Complement,
			"communeId":   a.CommuneID,
			"communeName": a.CommuneName,
		},
		"$setOnInsert": bson.M{
			"id":      uuid.New().String(),
			"ownerId": a.OwnerID,
			"alias":   a.Alias,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Address
	if err := r.addressColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *mongoClientRepo) GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := r.vehicleColl.FindOne(ctx, bson.M{"id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *mongoClientRepo) GetAddressByID(ctx context.Context, id string) (*models.Address, error) {
	var a models.Address
	if err := r.addressColl.FindOne(ctx, bson.M{"id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoClientRepo) GetVehiclesByOwner(ctx context.Context, ownerID string) ([]models.Vehicle, error) {
	cursor, err := r.vehicleColl.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *mongoClientRepo) GetAddressesByOwner(ctx context.Context, ownerID string) ([]models.Address, error) {
	cursor, err := r.addressColl.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *mongoClientRepo) ListCommunes(ctx context.Context) ([]models.Commune, error) {
	cursor, err := r.communeColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var communes []models.Commune
	if err := cursor.All(ctx, &communes); err != nil {
		return nil, err
	}
	return communes, nil
}

func (r *mongoClientRepo) GetCommuneByID(ctx context.Context, id string) (*models.Commune, error) {
	var c models.Commune
	if err := r.communeColl.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoClientRepo) GetCommuneByName(ctx context.Context, name string) (*models.Commune, error) {
	filter := bson.M{"name": primitive.Regex{
		Pattern: "^" + escapeRegex(strings.TrimSpace(name)) + "$",
		Options: "i",
	}}
	var c models.Commune
	if err := r.communeColl.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func escapeRegex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`,
	)
	return replacer.Replace(s)
}
