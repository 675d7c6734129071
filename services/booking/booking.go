// File: services/booking/booking.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	catalogRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/catalog"
	clientRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/notification"
)

// TxRunner executes fn inside one atomic transaction scope. The context passed
// to fn carries the transaction and must be used for every repository call.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// BookingService creates reservations atomically.
type BookingService interface {
	ValidateBookingRules(ctx context.Context, req models.ReservationRequest) error
	CreateReservation(ctx context.Context, req models.ReservationRequest) (*models.ReservationDetail, error)
	// CreateReservationWithStatus is the chat-path variant booking directly
	// into the given status (the bot confirms in conversation, skipping the
	// PENDING/WAITING_CLIENT round trip).
	CreateReservationWithStatus(ctx context.Context, req models.ReservationRequest, status string) (*models.ReservationDetail, error)
}

type DefaultBookingService struct {
	Tx           TxRunner
	Clients      clientRepo.ClientRepository
	Catalog      catalogRepo.CatalogRepository
	Slots        slotRepo.SlotRepository
	Reservations reservationRepo.ReservationRepository
	Dispatcher   notification.Dispatcher
}

func (s *DefaultBookingService) CreateReservation(ctx context.Context, req models.ReservationRequest) (*models.ReservationDetail, error) {
	return s.CreateReservationWithStatus(ctx, req, models.StatusPending)
}

func (s *DefaultBookingService) CreateReservationWithStatus(ctx context.Context, req models.ReservationRequest, status string) (*models.ReservationDetail, error) {
	if len(req.Services) == 0 {
		return nil, NewDomainError(CodeValidation, "at least one service is required")
	}
	for _, svc := range req.Services {
		if svc.ProfessionalID != req.ProfessionalID {
			return nil, NewDomainError(CodeServiceProMismatch,
				"service %s is requested for a different professional", svc.ServiceID)
		}
	}

	var detail *models.ReservationDetail
	err := s.Tx(ctx, func(txCtx context.Context) error {
		client, err := s.resolveClient(txCtx, req.Client)
		if err != nil {
			return err
		}
		vehicle, err := s.upsertVehicle(txCtx, client.ID, req.Vehicle)
		if err != nil {
			return err
		}
		address, err := s.upsertAddress(txCtx, client.ID, req.Address)
		if err != nil {
			return err
		}

		chain, err := s.acquireChain(txCtx, req)
		if err != nil {
			return err
		}

		reservation := &models.Reservation{
			ClientID:     client.ID,
			Status:       status,
			TotalMinutes: chain.requiredMinutes,
			Note:         req.Note,
		}
		if vehicle != nil {
			reservation.VehicleID = vehicle.ID
		}
		if address != nil {
			reservation.AddressID = address.ID
		}
		if err := s.Reservations.Insert(txCtx, reservation); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}

		links := make([]models.ReservationSlot, len(chain.slots))
		for i, slot := range chain.slots {
			links[i] = models.ReservationSlot{
				ReservationID:  reservation.ID,
				SlotID:         slot.ID,
				ProfessionalID: slot.ProfessionalID,
				Date:           slot.Date,
			}
		}
		if err := s.Reservations.InsertSlots(txCtx, links); err != nil {
			return fmt.Errorf("insert reservation slots: %w", err)
		}
		if err := s.Reservations.InsertServices(txCtx, chain.services(reservation.ID)); err != nil {
			return fmt.Errorf("insert reservation services: %w", err)
		}
		if err := s.Reservations.AppendHistory(txCtx, models.StatusHistory{
			ReservationID: reservation.ID,
			Status:        status,
			Note:          "created",
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		detail = s.buildDetail(reservation, chain, client, vehicle, address)
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			// A racing transaction committed a link for the same slot first.
			return nil, NewDomainError(CodeSlotUnavailable, "slot was taken by a concurrent booking")
		}
		return nil, err
	}

	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, notification.Transition{
			Reservation: models.Reservation{
				ID:       detail.ID,
				ClientID: detail.Client.ID,
				Status:   detail.Status,
			},
			NewStatus: detail.Status,
			Created:   true,
		})
	}
	return detail, nil
}

// slotChain is the locked run of slots plus the frozen service terms.
type slotChain struct {
	slots           []models.Slot
	requiredMinutes int
	frozen          []models.ReservationService
}

func (c slotChain) services(reservationID string) []models.ReservationService {
	out := make([]models.ReservationService, len(c.frozen))
	for i, svc := range c.frozen {
		svc.ReservationID = reservationID
		out[i] = svc
	}
	return out
}

// acquireChain locks the initial slot and walks forward acquiring contiguous
// AVAILABLE slots, in ascending start order, until the required duration is
// covered. The conditional status flip serializes concurrent bookings: the
// loser sees no available slot and fails.
func (s *DefaultBookingService) acquireChain(ctx context.Context, req models.ReservationRequest) (*slotChain, error) {
	required := 0
	frozen := make([]models.ReservationService, 0, len(req.Services))
	for _, svcReq := range req.Services {
		assignment, err := s.Catalog.GetAssignment(ctx, req.ProfessionalID, svcReq.ServiceID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, NewDomainError(CodeServiceNotAssigned,
					"service %s is not assigned to professional %s", svcReq.ServiceID, req.ProfessionalID)
			}
			return nil, err
		}
		svc, err := s.Catalog.GetServiceByID(ctx, svcReq.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("load service %s: %w", svcReq.ServiceID, err)
		}
		minutes := assignment.EffectiveDuration(*svc)
		required += minutes
		frozen = append(frozen, models.ReservationService{
			ServiceID:                svc.ID,
			ServiceName:              svc.Name,
			ProfessionalID:           req.ProfessionalID,
			EffectiveDurationMinutes: minutes,
		})
	}

	initial, err := s.Slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewDomainError(CodeSlotNotFound, "slot %s does not exist", req.SlotID)
		}
		return nil, err
	}
	if initial.ProfessionalID != req.ProfessionalID {
		return nil, NewDomainError(CodeSlotUnavailable, "slot belongs to a different professional")
	}
	base := initial.DurationMinutes()
	if base <= 0 {
		return nil, NewDomainError(CodeSlotZeroDuration, "slot %s has zero duration", initial.ID)
	}

	first, err := s.Slots.Acquire(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewDomainError(CodeSlotUnavailable, "slot %s is not available", req.SlotID)
		}
		return nil, err
	}

	needed := (required + base - 1) / base
	if needed < 1 {
		needed = 1
	}
	slots := []models.Slot{*first}
	for i := 1; i < needed; i++ {
		next, err := s.Slots.AcquireAt(ctx, req.ProfessionalID, slots[i-1].End)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, NewDomainError(CodeInsufficientSlots,
					"need %d contiguous slots (%d min) but only %d available from %s",
					needed, required, i, first.Start.Format(time.RFC3339))
			}
			return nil, err
		}
		slots = append(slots, *next)
	}

	return &slotChain{slots: slots, requiredMinutes: required, frozen: frozen}, nil
}

// resolveClient upserts the client by email, refusing masked echoes of the
// redacted values the read API hands out.
func (s *DefaultBookingService) resolveClient(ctx context.Context, desc models.ClientDescriptor) (*models.Client, error) {
	email := strings.TrimSpace(desc.Email)
	if email == "" || IsMasked(email) {
		// No usable email: fall back to phone identity.
		if desc.Phone != "" {
			if existing, err := s.Clients.GetByPhone(ctx, desc.Phone); err == nil {
				return existing, nil
			}
		}
		client := &models.Client{
			FirstName: desc.FirstName,
			LastName:  desc.LastName,
			Phone:     desc.Phone,
		}
		if err := s.Clients.Insert(ctx, client); err != nil {
			return nil, fmt.Errorf("insert client: %w", err)
		}
		return client, nil
	}

	existing, err := s.Clients.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		client := &models.Client{
			Email:     email,
			FirstName: strings.TrimSpace(desc.FirstName),
			LastName:  strings.TrimSpace(desc.LastName),
			Phone:     strings.TrimSpace(desc.Phone),
		}
		if err := s.Clients.Insert(ctx, client); err != nil {
			return nil, fmt.Errorf("insert client: %w", err)
		}
		return client, nil
	}

	changed := false
	if shouldUpdateName(desc.FirstName, existing.FirstName) {
		existing.FirstName = strings.TrimSpace(desc.FirstName)
		changed = true
	}
	if shouldUpdateName(desc.LastName, existing.LastName) {
		existing.LastName = strings.TrimSpace(desc.LastName)
		changed = true
	}
	if shouldUpdatePhone(desc.Phone, existing.Phone) {
		existing.Phone = strings.TrimSpace(desc.Phone)
		changed = true
	}
	if changed {
		if err := s.Clients.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update client: %w", err)
		}
	}
	return existing, nil
}

func (s *DefaultBookingService) upsertVehicle(ctx context.Context, ownerID string, input *models.VehicleInput) (*models.Vehicle, error) {
	if input == nil || strings.TrimSpace(input.Plate) == "" || IsMasked(input.Plate) {
		return nil, nil
	}
	return s.Clients.UpsertVehicle(ctx, &models.Vehicle{
		OwnerID: ownerID,
		Plate:   strings.ToUpper(strings.TrimSpace(input.Plate)),
		Brand:   input.Brand,
		Model:   input.Model,
		Year:    input.Year,
	})
}

func (s *DefaultBookingService) upsertAddress(ctx context.Context, ownerID string, input *models.AddressInput) (*models.Address, error) {
	if input == nil || strings.TrimSpace(input.Street) == "" || IsMasked(input.Street) {
		return nil, nil
	}
	communeID, communeName := input.CommuneID, input.CommuneName
	if communeID != "" {
		if commune, err := s.Clients.GetCommuneByID(ctx, communeID); err == nil {
			communeName = commune.Name
		}
	} else if communeName != "" {
		if commune, err := s.Clients.GetCommuneByName(ctx, communeName); err == nil {
			communeID = commune.ID
			communeName = commune.Name
		}
	}
	alias := input.Alias
	if alias == "" {
		alias = "principal"
	}
	return s.Clients.UpsertAddress(ctx, &models.Address{
		OwnerID:     ownerID,
		Alias:       alias,
		Street:      strings.TrimSpace(input.Street),
		Number:      input.Number,
		Complement:  input.Complement,
		CommuneID:   communeID,
		CommuneName: communeName,
	})
}

func (s *DefaultBookingService) buildDetail(res *models.Reservation, chain *slotChain, client *models.Client, vehicle *models.Vehicle, address *models.Address) *models.ReservationDetail {
	first := chain.slots[0]
	last := chain.slots[len(chain.slots)-1]
	return &models.ReservationDetail{
		ID:           res.ID,
		Status:       res.Status,
		TotalMinutes: res.TotalMinutes,
		Note:         res.Note,
		CreatedAt:    res.CreatedAt,
		Services:     chain.services(res.ID),
		SlotsSummary: &models.SlotsSummary{
			SlotIDStart:    first.ID,
			SlotIDEnd:      last.ID,
			Start:          first.Start,
			End:            last.End,
			ProfessionalID: first.ProfessionalID,
		},
		Client:  client,
		Vehicle: vehicle,
		Address: address,
	}
}

func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == 11000
}
