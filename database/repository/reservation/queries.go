// File: database/repository/reservation/queries.go
package reservationRepo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

func (r *mongoReservationRepo) ReferencedSlotIDs(ctx context.Context, slotIDs []string) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(slotIDs) == 0 {
		return map[string]bool{}, nil
	}
	ids, err := r.slotLinks.Distinct(ctx, "slotId", bson.M{"slotId": bson.M{"$in": slotIDs}})
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]bool, len(ids))
	for _, raw := range ids {
		if id, ok := raw.(string); ok {
			referenced[id] = true
		}
	}
	return referenced, nil
}

func (r *mongoReservationRepo) CountActiveOnDate(ctx context.Context, professionalIDs []string, date string) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	counts := make(map[string]int, len(professionalIDs))
	if len(professionalIDs) == 0 {
		return counts, nil
	}

	linkFilter := bson.M{"date": date, "professionalId": bson.M{"$in": professionalIDs}}
	cursor, err := r.slotLinks.Find(ctx, linkFilter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []models.ReservationSlot
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return counts, nil
	}

	reservationIDs := make([]string, 0, len(links))
	for _, link := range links {
		reservationIDs = append(reservationIDs, link.ReservationID)
	}
	activeFilter := bson.M{
		"id":     bson.M{"$in": reservationIDs},
		"status": bson.M{"$in": models.ActiveStatuses},
	}
	activeIDs, err := r.coll.Distinct(ctx, "id", activeFilter)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool, len(activeIDs))
	for _, raw := range activeIDs {
		if id, ok := raw.(string); ok {
			active[id] = true
		}
	}

	// One reservation spans several links; count it once per professional.
	seen := make(map[string]bool)
	for _, link := range links {
		if !active[link.ReservationID] {
			continue
		}
		key := link.ProfessionalID + "|" + link.ReservationID
		if seen[key] {
			continue
		}
		seen[key] = true
		counts[link.ProfessionalID]++
	}
	return counts, nil
}

func (r *mongoReservationRepo) FindPendingByClient(ctx context.Context, email, phone string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	clientOr := bson.A{}
	if email != "" {
		clientOr = append(clientOr, bson.M{"email": primitive.Regex{
			Pattern: "^" + escapeRegex(strings.TrimSpace(email)) + "$",
			Options: "i",
		}})
	}
	if phone != "" {
		clientOr = append(clientOr, bson.M{"phone": phone})
	}
	if len(clientOr) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	clientIDs, err := r.clientColl.Distinct(ctx, "id", bson.M{"$or": clientOr})
	if err != nil {
		return nil, err
	}
	if len(clientIDs) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	filter := bson.M{"status": models.StatusPending, "clientId": bson.M{"$in": clientIDs}}
	var res models.Reservation
	if err := r.coll.FindOne(ctx, filter).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoReservationRepo) ListWaitingExpired(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":         models.StatusWaitingClient,
		"tokenExpiresAt": bson.M{"$lt": now},
	}
	cursor, err := r.coll.Find(ctx, filter)
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

func (r *mongoReservationRepo) ListActiveByClient(ctx context.Context, clientID string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"clientId": clientID, "status": bson.M{"$in": models.ActiveStatuses}}
	cursor, err := r.coll.Find(ctx, filter)
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

func (r *mongoReservationRepo) ListConfirmedOnDate(ctx context.Context, date string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ids, err := r.slotLinks.Distinct(ctx, "reservationId", bson.M{"date": date})
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"id":     bson.M{"$in": ids},
		"status": bson.M{"$in": bson.A{models.StatusConfirmed, models.StatusReconfirmed}},
	}
	cursor, err := r.coll.Find(ctx, filter)
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

func escapeRegex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`,
	)
	return replacer.Replace(s)
}
