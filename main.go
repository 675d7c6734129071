// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NavaUDP/Agenda-Revitek/config"
	"github.com/NavaUDP/Agenda-Revitek/cron"
	"github.com/NavaUDP/Agenda-Revitek/database"
	auditRepoPkg "github.com/NavaUDP/Agenda-Revitek/database/repository/audit"
	catalogRepoPkg "github.com/NavaUDP/Agenda-Revitek/database/repository/catalog"
	chatlogRepoPkg "github.com/NavaUDP/Agenda-Revitek/database/repository/chatlog"
	clientRepoPkg "github.com/NavaUDP/Agenda-Revitek/database/repository/client"
	professionalRepoPkg "github.com/NavaUDP/Agenda-Revitek/database/repository/professional"
	reservationRepoPkg "github.com/NavaUDP/Agenda-Revitek/database/repository/reservation"
	slotRepoPkg "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/handlers"
	"github.com/NavaUDP/Agenda-Revitek/middleware"
	"github.com/NavaUDP/Agenda-Revitek/routes"
	"github.com/NavaUDP/Agenda-Revitek/services/agenda"
	"github.com/NavaUDP/Agenda-Revitek/services/booking"
	"github.com/NavaUDP/Agenda-Revitek/services/chatbot"
	"github.com/NavaUDP/Agenda-Revitek/services/lifecycle"
	"github.com/NavaUDP/Agenda-Revitek/services/mailer"
	"github.com/NavaUDP/Agenda-Revitek/services/notification"
	"github.com/NavaUDP/Agenda-Revitek/services/whatsapp"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	professionalRepo := professionalRepoPkg.NewMongoProfessionalRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()
	clientRepo := clientRepoPkg.NewMongoClientRepo()
	auditRepo := auditRepoPkg.NewMongoAuditRepo()
	chatlogRepo := chatlogRepoPkg.NewMongoChatLogRepo()

	// Transaction runner bridging services to mongo sessions.
	txRunner := booking.TxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
		return database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
			return fn(sc)
		})
	})

	// Notification plumbing: events flow through asynq to the worker.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	dispatcher := notification.NewAsynqDispatcher(asynqClient)

	chatClient := whatsapp.NewMetaClient(chatlogRepo)
	mailClient := &mailer.SMTPMailer{}

	notificationService := &notification.DefaultNotificationService{
		Reservations: reservationRepo,
		Clients:      clientRepo,
		Slots:        slotRepo,
		Mailer:       mailClient,
		Chat:         chatClient,
	}

	// services.
	generator := &agenda.DefaultSlotGenerator{
		ProfessionalRepo: professionalRepo,
		SlotRepo:         slotRepo,
		ReservationRepo:  reservationRepo,
	}
	availabilityService := &agenda.DefaultAvailabilityService{
		Catalog:      catalogRepo,
		Slots:        slotRepo,
		Reservations: reservationRepo,
	}
	bookingService := &booking.DefaultBookingService{
		Tx:           txRunner,
		Clients:      clientRepo,
		Catalog:      catalogRepo,
		Slots:        slotRepo,
		Reservations: reservationRepo,
		Dispatcher:   dispatcher,
	}
	lifecycleService := &lifecycle.DefaultLifecycleService{
		Tx:           txRunner,
		Reservations: reservationRepo,
		Slots:        slotRepo,
		Generator:    generator,
		Dispatcher:   dispatcher,
		Audit:        auditRepo,
	}

	sessionStore := chatbot.NewRedisSessionStore(utils.GetChatCacheClient(), 30*time.Minute)
	bot := &chatbot.ChatBot{
		Sessions:     sessionStore,
		Catalog:      catalogRepo,
		Clients:      clientRepo,
		Reservations: reservationRepo,
		Availability: availabilityService,
		Booking:      bookingService,
	}
	webhookProcessor := &whatsapp.WebhookProcessor{
		Bot:       bot,
		Lifecycle: lifecycleService,
		Chat:      chatClient,
		Log:       chatlogRepo,
	}

	// Background workers and periodic jobs.
	cron.InitNotificationWorker(notificationService)
	scheduler := &cron.Scheduler{
		Lifecycle:     lifecycleService,
		Generator:     generator,
		Professionals: professionalRepo,
		Reservations:  reservationRepo,
		Clients:       clientRepo,
		Slots:         slotRepo,
		Mailer:        mailClient,
		Chat:          chatClient,
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Reservation: handlers.NewReservationHandler(
			bookingService, lifecycleService, reservationRepo, clientRepo, slotRepo),
		Agenda:  handlers.NewAgendaHandler(generator, slotRepo, professionalRepo, auditRepo),
		Catalog: handlers.NewCatalogHandler(catalogRepo, clientRepo, professionalRepo),
		Webhook: handlers.NewWebhookHandler(webhookProcessor),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
