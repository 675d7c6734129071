// File: routes/routes.go
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/NavaUDP/Agenda-Revitek/handlers"
)

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAgendaRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterAgendaRoutes registers the public catalog and availability endpoints.
func RegisterAgendaRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agenda")
	{
		api.GET("/services", hb.Catalog.ListServicesHandler)
		api.GET("/professionals", hb.Catalog.ListProfessionalsHandler)
		api.GET("/communes", hb.Catalog.ListCommunesHandler)
		api.GET("/availability", hb.Availability.GetAvailabilityHandler)
		api.GET("/confirm/:token", hb.Reservation.ConfirmByTokenHandler)
	}
}

// RegisterReservationRoutes registers the public booking endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.POST("", hb.Reservation.CreateReservationHandler)
	}
}

// RegisterAdminRoutes registers the admin panel endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.GET("/reservations", hb.Reservation.ListReservationsHandler)
		api.GET("/reservations/:id", hb.Reservation.GetReservationHandler)
		api.POST("/reservations/:id/approve", hb.Reservation.ApproveReservationHandler)
		api.POST("/reservations/:id/cancel", hb.Reservation.CancelReservationHandler)
		api.PATCH("/reservations/:id/status", hb.Reservation.UpdateStatusHandler)

		api.POST("/professionals", hb.Catalog.CreateProfessionalHandler)
		api.GET("/professionals/:professionalId/slots", hb.Agenda.ListSlotsHandler)
		api.POST("/professionals/:professionalId/slots/regenerate", hb.Agenda.RegenerateSlotsHandler)
		api.GET("/professionals/:professionalId/blocks", hb.Agenda.ListBlocksHandler)
		api.POST("/professionals/:professionalId/blocks", hb.Agenda.CreateBlockHandler)
		api.PUT("/blocks/:blockId", hb.Agenda.UpdateBlockHandler)
		api.DELETE("/blocks/:blockId", hb.Agenda.DeleteBlockHandler)
	}
}

// RegisterWebhookRoutes registers the WhatsApp webhook endpoints.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhooks/whatsapp")
	{
		api.GET("", hb.Webhook.VerifyHandler)
		api.POST("", hb.Webhook.ReceiveHandler)
	}
}
