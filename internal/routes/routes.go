package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	"github.com/BruksfildServices01/rental-scheduler/internal/config"
	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/handlers"
	"github.com/BruksfildServices01/rental-scheduler/internal/infra/gateway"
	"github.com/BruksfildServices01/rental-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/rental-scheduler/internal/infra/receipts"
	infraRepo "github.com/BruksfildServices01/rental-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/rental-scheduler/internal/middleware"
	"github.com/BruksfildServices01/rental-scheduler/internal/settlement"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
	ucPayment "github.com/BruksfildServices01/rental-scheduler/internal/usecase/payment"
	ucReservation "github.com/BruksfildServices01/rental-scheduler/internal/usecase/reservation"
)

// Runtime guarda o que tem ciclo de vida além das requests.
type Runtime struct {
	Settlement *settlement.Pool
	Events     *audit.Dispatcher

	publisher *audit.AMQPPublisher
	redis     *redis.Client
}

func (rt *Runtime) Start(ctx context.Context) {
	rt.Settlement.Start(ctx)
}

// Shutdown drena a liquidação antes de fechar os eventos, que ela alimenta.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	err := rt.Settlement.Shutdown(ctx)

	rt.Events.Close()
	if rt.publisher != nil {
		rt.publisher.Close()
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	return err
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) (*Runtime, error) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	clock := timezone.System()

	reservationRepo := infraRepo.NewReservationGormRepository(db)
	paymentRepo := infraRepo.NewPaymentGormRepository(db)

	rt := &Runtime{}

	sinks := []audit.Sink{audit.New(db)}
	if cfg.AMQPURL != "" {
		rt.publisher = audit.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		sinks = append(sinks, rt.publisher)
	}
	rt.Events = audit.NewDispatcher(sinks...)

	var locker ucReservation.Locker = lock.Noop{}
	if client := lock.NewRedisClient(cfg); client != nil {
		rt.redis = client
		locker = lock.NewRedisLocker(client, cfg.BookingLockTTL)
	}

	var gw payment.Gateway = gateway.NewSandbox(cfg.SandboxDelay)
	if cfg.MercadoPagoToken != "" {
		mp, err := gateway.NewMercadoPago(cfg.MercadoPagoToken)
		if err != nil {
			return nil, err
		}
		gw = mp
	}

	poolOpts := []settlement.Option{settlement.WithEvents(rt.Events)}
	if store := receipts.NewS3Store(cfg); store != nil {
		poolOpts = append(poolOpts, settlement.WithReceipts(store))
	}

	rt.Settlement = settlement.NewPool(
		gw,
		paymentRepo,
		settlement.Options{
			Workers:   cfg.SettlementWorkers,
			QueueSize: cfg.SettlementQueue,
			Timeout:   cfg.SettlementTimeout,
		},
		poolOpts...,
	)

	log.WithFields(log.Fields{
		"gateway":    gatewayName(cfg),
		"redis_lock": rt.redis != nil,
		"amqp":       rt.publisher != nil,
		"receipts":   cfg.ReceiptsBucket != "",
	}).Info("infra wired")

	bookingTx := domain.TxOptions{Serializable: cfg.SerializableBooking}
	policy := domain.ConfirmPolicy{MarkPaid: cfg.ConfirmMarksPaid}

	// ======================================================
	// 🧠 USE CASES (RESERVAS)
	// ======================================================
	createReservationUC := ucReservation.NewCreateReservation(
		reservationRepo,
		rt.Settlement,
		locker,
		rt.Events,
		clock,
		bookingTx,
	)
	getReservationUC := ucReservation.NewGetReservation(reservationRepo)
	listReservationsUC := ucReservation.NewListReservations(reservationRepo)
	updateReservationUC := ucReservation.NewUpdateReservation(
		reservationRepo,
		rt.Events,
		clock,
		bookingTx,
	)
	cancelReservationUC := ucReservation.NewCancelReservation(reservationRepo, rt.Events, clock)
	completeReservationUC := ucReservation.NewCompleteReservation(reservationRepo, rt.Events, clock)
	availabilityUC := ucReservation.NewGetAvailability(reservationRepo)

	providerTransitionUC := ucReservation.NewProviderTransition(
		reservationRepo,
		rt.Events,
		clock,
		policy,
	)
	listProviderUC := ucReservation.NewListProviderReservations(reservationRepo)
	getProviderUC := ucReservation.NewGetProviderReservation(reservationRepo)
	statsUC := ucReservation.NewGetProviderStats(reservationRepo, clock, cfg.PlatformFeePercent)

	// ======================================================
	// 🧠 USE CASES (PAGAMENTOS)
	// ======================================================
	createMethodUC := ucPayment.NewCreatePaymentMethod(paymentRepo, clock)
	manageMethodsUC := ucPayment.NewManagePaymentMethods(paymentRepo)
	listPaymentsUC := ucPayment.NewListPayments(paymentRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	meHandler := handlers.NewMeHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, cfg.Timezone)

	reservationHandler := handlers.NewReservationHandler(
		createReservationUC,
		getReservationUC,
		listReservationsUC,
		updateReservationUC,
		cancelReservationUC,
		completeReservationUC,
		clock,
		cfg.Timezone,
		cfg.MercadoPagoToken != "",
	)

	providerHandler := handlers.NewProviderReservationHandler(
		providerTransitionUC,
		listProviderUC,
		getProviderUC,
		statsUC,
		cfg.Timezone,
	)

	paymentHandler := handlers.NewPaymentHandler(createMethodUC, manageMethodsUC, listPaymentsUC)
	vehicleHandler := handlers.NewVehicleHandler(availabilityUC, cfg.Timezone)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/vehicles/:id/availability", vehicleHandler.Availability)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// RESERVAS (cliente)
			// ------------------------------
			consumer := secured.Group("/reservations")
			consumer.Use(middleware.RequireRole(middleware.RoleClient))
			{
				consumer.POST("", reservationHandler.Create)
				consumer.GET("", reservationHandler.List)
				consumer.GET("/:id", reservationHandler.Get)
				consumer.PUT("/:id", reservationHandler.Update)
				consumer.PATCH("/:id/cancel", reservationHandler.Cancel)
				consumer.PATCH("/:id/complete", reservationHandler.Complete)
			}

			// ------------------------------
			// RESERVAS (provedor)
			// ------------------------------
			provider := secured.Group("/provider")
			provider.Use(middleware.RequireRole(middleware.RoleProvider))
			{
				provider.GET("/reservations", providerHandler.List)
				provider.GET("/reservations/stats", providerHandler.Stats)
				provider.GET("/reservations/:id", providerHandler.Get)
				provider.PATCH("/reservations/:id/confirm", providerHandler.Confirm)
				provider.PATCH("/reservations/:id/reject", providerHandler.Reject)
				provider.PATCH("/reservations/:id/start", providerHandler.Start)
				provider.PATCH("/reservations/:id/complete", providerHandler.Complete)
				provider.PUT("/reservations/:id/status", providerHandler.UpdateStatus)
			}

			// ------------------------------
			// PAGAMENTOS
			// ------------------------------
			secured.GET("/payment-methods", paymentHandler.ListMethods)
			secured.POST("/payment-methods", paymentHandler.CreateMethod)
			secured.GET("/payment-methods/default", paymentHandler.DefaultMethod)
			secured.PATCH("/payment-methods/:id/default", paymentHandler.SetDefaultMethod)
			secured.DELETE("/payment-methods/:id", paymentHandler.DeleteMethod)

			secured.GET("/payments", paymentHandler.ListPayments)
		}
	}

	return rt, nil
}

func gatewayName(cfg *config.Config) string {
	if cfg.MercadoPagoToken != "" {
		return "mercadopago"
	}
	return "sandbox"
}
