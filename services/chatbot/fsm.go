// File: services/chatbot/fsm.go
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	catalogRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/catalog"
	clientRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	reservationRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/agenda"
	"github.com/NavaUDP/Agenda-Revitek/services/booking"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

const maxOffersShown = 10

// chatStateEnded marks a conversation handed off to a human. It is never
// persisted: Handle deletes the session instead of saving it.
const chatStateEnded = "ENDED"

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ChatBot is the per-phone booking conversation. Every inbound message maps
// the session's current state plus the text to a reply and a next state.
type ChatBot struct {
	Sessions     SessionStore
	Catalog      catalogRepo.CatalogRepository
	Clients      clientRepo.ClientRepository
	Reservations reservationRepo.ReservationRepository
	Availability agenda.AvailabilityService
	Booking      booking.BookingService
}

// Handle processes one inbound message and returns the reply to send.
func (b *ChatBot) Handle(ctx context.Context, phone, text string) (string, error) {
	phone = NormalizePhone(phone)
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	session, err := b.Sessions.Get(ctx, phone)
	if err != nil {
		return "", err
	}
	if session == nil {
		session = &models.ChatSession{Phone: phone, State: models.ChatStateMenu}
	}

	// Global commands work from any state.
	switch lower {
	case "menu", "cancel", "cancelar", "salir":
		session = &models.ChatSession{Phone: phone, State: models.ChatStateMenu}
		if err := b.Sessions.Save(ctx, session); err != nil {
			return "", err
		}
		return b.menuText(), nil
	case "help", "ayuda":
		return "Comandos: *menu* para volver al inicio, *cancelar* para abortar. " +
			"Responde con el número de la opción que prefieras.", nil
	}

	var reply string
	switch session.State {
	case models.ChatStateMenu:
		reply, err = b.handleMenu(ctx, session, lower)
	case models.ChatStateSelectService:
		reply, err = b.handleSelectService(ctx, session, text)
	case models.ChatStateSelectDate:
		reply, err = b.handleSelectDate(ctx, session, text)
	case models.ChatStateSelectTime:
		reply, err = b.handleSelectTime(ctx, session, text)
	case models.ChatStateWaitingEmail:
		reply, err = b.handleEmail(ctx, session, text)
	case models.ChatStateWaitingAddress:
		reply, err = b.handleAddress(ctx, session, text)
	default:
		session.State = models.ChatStateMenu
		reply = b.menuText()
	}
	if err != nil {
		utils.GetLogger().Error("chatbot: state handler failed",
			zap.String("phone", phone), zap.String("state", session.State), zap.Error(err))
		session = &models.ChatSession{Phone: phone, State: models.ChatStateMenu}
		reply = "Lo siento, algo salió mal. Escribe *menu* para comenzar de nuevo."
	}

	if session.State == chatStateEnded {
		if err := b.Sessions.Delete(ctx, phone); err != nil {
			return "", err
		}
		return reply, nil
	}
	if err := b.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return reply, nil
}

func (b *ChatBot) menuText() string {
	return "¡Hola! Soy el asistente de agendamiento.\n" +
		"1. Agendar una hora\n" +
		"2. Consultar mis reservas\n" +
		"3. Hablar con una persona"
}

func (b *ChatBot) handleMenu(ctx context.Context, session *models.ChatSession, choice string) (string, error) {
	switch choice {
	case "1":
		services, err := b.sortedServices(ctx)
		if err != nil {
			return "", err
		}
		if len(services) == 0 {
			return "Por ahora no hay servicios disponibles. Intenta más tarde.", nil
		}
		session.State = models.ChatStateSelectService
		var sb strings.Builder
		sb.WriteString("¿Qué servicio necesitas?\n")
		for i, svc := range services {
			fmt.Fprintf(&sb, "%d. %s (%d min)\n", i+1, svc.Name, svc.DefaultDurationMinutes)
		}
		return sb.String(), nil
	case "2":
		return b.listReservations(ctx, session.Phone)
	case "3":
		session.State = chatStateEnded
		return "Perfecto, una persona de nuestro equipo te contactará pronto.", nil
	default:
		return b.menuText(), nil
	}
}

func (b *ChatBot) handleSelectService(ctx context.Context, session *models.ChatSession, text string) (string, error) {
	services, err := b.sortedServices(ctx)
	if err != nil {
		return "", err
	}
	idx, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || idx < 1 || idx > len(services) {
		return "Por favor responde con el número del servicio.", nil
	}
	session.ServiceID = services[idx-1].ID
	session.State = models.ChatStateSelectDate
	return "¿Para qué fecha? Escríbela como DD/MM/AAAA.", nil
}

func (b *ChatBot) handleSelectDate(ctx context.Context, session *models.ChatSession, text string) (string, error) {
	day, err := time.ParseInLocation("02/01/2006", strings.TrimSpace(text), config.BusinessLocation())
	if err != nil {
		return "No entendí la fecha. Escríbela como DD/MM/AAAA, por ejemplo 15/09/2026.", nil
	}
	today := utils.TodayLocal()
	if !day.After(today) {
		return "La fecha debe ser a partir de mañana.", nil
	}
	maxDays := config.AppConfig.MaxFutureBookingDays
	if maxDays > 0 && day.After(today.AddDate(0, 0, maxDays)) {
		return fmt.Sprintf("Solo agendamos hasta %d días hacia adelante.", maxDays), nil
	}

	date := day.Format(utils.DateLayout)
	offers, err := b.Availability.Aggregated(ctx, []string{session.ServiceID}, date)
	if err != nil {
		return "", err
	}
	if len(offers) == 0 {
		return "No hay horas disponibles ese día. ¿Quieres probar otra fecha? (DD/MM/AAAA)", nil
	}
	if len(offers) > maxOffersShown {
		offers = offers[:maxOffersShown]
	}

	session.Date = date
	session.Offers = offers
	session.State = models.ChatStateSelectTime

	var sb strings.Builder
	fmt.Fprintf(&sb, "Horas disponibles para el %s:\n", day.Format("02/01/2006"))
	for i, offer := range offers {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, utils.LocalClock(offer.Start))
	}
	sb.WriteString("Responde con el número de la hora.")
	return sb.String(), nil
}

func (b *ChatBot) handleSelectTime(ctx context.Context, session *models.ChatSession, text string) (string, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || idx < 1 || idx > len(session.Offers) {
		return "Por favor responde con el número de la hora.", nil
	}
	session.OfferIdx = idx - 1

	client, err := b.findClientByPhone(ctx, session.Phone)
	if err != nil {
		return "", err
	}
	if client == nil {
		session.State = models.ChatStateWaitingEmail
		return "Para terminar necesito tu correo electrónico:", nil
	}
	session.ClientID = client.ID
	session.State = models.ChatStateWaitingAddress
	return "¿A qué dirección vamos? Escríbela con calle, número y comuna.", nil
}

func (b *ChatBot) handleEmail(ctx context.Context, session *models.ChatSession, text string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(text))
	if !emailRe.MatchString(email) {
		return "Ese correo no parece válido. Inténtalo de nuevo:", nil
	}

	client, err := b.Clients.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return "", err
		}
		client = &models.Client{Email: email, Phone: session.Phone}
		if err := b.Clients.Insert(ctx, client); err != nil {
			return "", err
		}
	} else if client.Phone == "" {
		client.Phone = session.Phone
		if err := b.Clients.Update(ctx, client); err != nil {
			return "", err
		}
	}

	session.ClientID = client.ID
	session.State = models.ChatStateWaitingAddress
	return "¡Gracias! ¿A qué dirección vamos? Escríbela con calle, número y comuna.", nil
}

func (b *ChatBot) handleAddress(ctx context.Context, session *models.ChatSession, text string) (string, error) {
	if session.OfferIdx >= len(session.Offers) {
		session.State = models.ChatStateMenu
		return "La sesión expiró. Escribe *menu* para comenzar de nuevo.", nil
	}
	offer := session.Offers[session.OfferIdx]
	if len(offer.ProfessionalIDs) == 0 {
		session.State = models.ChatStateMenu
		return "Esa hora ya no está disponible. Escribe *menu* para buscar otra.", nil
	}

	communes, err := b.Clients.ListCommunes(ctx)
	if err != nil {
		return "", err
	}
	address := ParseAddress(text, communes)
	if address.Street == "" {
		return "No entendí la dirección. Escríbela con calle, número y comuna.", nil
	}

	client, err := b.Clients.GetByID(ctx, session.ClientID)
	if err != nil {
		return "", err
	}

	req := models.ReservationRequest{
		Client: models.ClientDescriptor{
			Email:     client.Email,
			FirstName: client.FirstName,
			LastName:  client.LastName,
			Phone:     client.Phone,
		},
		Address:        &address,
		ProfessionalID: offer.ProfessionalIDs[0],
		SlotID:         offer.SlotIDs[0],
		Services: []models.ServiceRequest{
			{ServiceID: session.ServiceID, ProfessionalID: offer.ProfessionalIDs[0]},
		},
		Note: "agendado vía chat",
	}

	// Chat bookings confirm in conversation, so they skip the pending flow.
	detail, err := b.Booking.CreateReservationWithStatus(ctx, req, models.StatusConfirmed)
	if err != nil {
		if code := booking.CodeOf(err); code == booking.CodeSlotUnavailable || code == booking.CodeInsufficientSlots {
			session.State = models.ChatStateMenu
			return "Esa hora se acaba de ocupar. Escribe *menu* para buscar otra.", nil
		}
		return "", err
	}

	*session = models.ChatSession{Phone: session.Phone, State: models.ChatStateMenu}

	place := address.Street
	if address.Number != "" {
		place += " " + address.Number
	}
	if address.CommuneName != "" {
		place += ", " + address.CommuneName
	}
	return fmt.Sprintf("✅ ¡Listo! Tu hora quedó confirmada para el %s a las %s en %s.",
		utils.LocalDate(detail.SlotsSummary.Start),
		utils.LocalClock(detail.SlotsSummary.Start),
		place), nil
}

func (b *ChatBot) listReservations(ctx context.Context, phone string) (string, error) {
	client, err := b.findClientByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if client == nil {
		return "No encontré reservas asociadas a este número.", nil
	}
	reservations, err := b.Reservations.ListActiveByClient(ctx, client.ID)
	if err != nil {
		return "", err
	}
	if len(reservations) == 0 {
		return "No tienes reservas activas.", nil
	}
	var sb strings.Builder
	sb.WriteString("Tus reservas activas:\n")
	for _, res := range reservations {
		fmt.Fprintf(&sb, "- %s (%d min, estado %s)\n", res.CreatedAt.Format("02/01/2006"), res.TotalMinutes, res.Status)
	}
	return sb.String(), nil
}

// findClientByPhone tries the last 8 digits first (numbers arrive with and
// without country prefix), then the exact normalized number.
func (b *ChatBot) findClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	client, err := b.Clients.GetByPhoneSuffix(ctx, LastDigits(phone, 8))
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	client, err = b.Clients.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func (b *ChatBot) sortedServices(ctx context.Context) ([]models.Service, error) {
	services, err := b.Catalog.ListActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}
