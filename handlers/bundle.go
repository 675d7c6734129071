// File: handlers/bundle.go
package handlers

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Reservation  *ReservationHandler
	Agenda       *AgendaHandler
	Catalog      *CatalogHandler
	Webhook      *WebhookHandler
}
