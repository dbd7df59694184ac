package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addClosureHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/add_closure"
	cancelBookingHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/get_availability"
	getBookingHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/get_bookings"
	getClosuresHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/get_closures"
	getRequesterBookingsHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/get_requester_bookings"
	getScheduleHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/get_schedule"
	getSettingsHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/get_settings"
	removeClosureHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/remove_closure"
	updateBookingStatusHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/update_booking_status"
	updateScheduleHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/update_schedule"
	updateSettingsHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/update_settings"
	validateBookingHandler "github.com/krish-ktm/clinic-booking-service/internal/api/handlers/validate_booking"
	"github.com/krish-ktm/clinic-booking-service/internal/api/middleware"
	"github.com/krish-ktm/clinic-booking-service/internal/config"
	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	bookingRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/booking"
	closureRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/closure"
	scheduleRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	settingsRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/settings"
	smsGatewayClient "github.com/krish-ktm/clinic-booking-service/internal/integrations/smsgateway"
	bookingsService "github.com/krish-ktm/clinic-booking-service/internal/service/bookings"
	scheduleService "github.com/krish-ktm/clinic-booking-service/internal/service/schedule"
	createBookingUC "github.com/krish-ktm/clinic-booking-service/internal/usecase/create_booking"
	getAvailabilityUC "github.com/krish-ktm/clinic-booking-service/internal/usecase/get_availability"
	validateBookingUC "github.com/krish-ktm/clinic-booking-service/internal/usecase/validate_booking"
	"github.com/krish-ktm/clinic-booking-service/pkg/dbmetrics"
	"github.com/krish-ktm/clinic-booking-service/pkg/logger"
	"github.com/krish-ktm/clinic-booking-service/pkg/metrics"
	"github.com/krish-ktm/clinic-booking-service/pkg/simpletxmanager"
	"github.com/krish-ktm/clinic-booking-service/pkg/txmanager"
)

// metricsRecorder feeds booking outcomes into the prometheus counters.
type metricsRecorder struct {
	m *metrics.Metrics
}

func (r *metricsRecorder) BookingCreated(flow domain.Flow) {
	r.m.BookingsCreatedTotal.WithLabelValues(string(flow)).Inc()
}

func (r *metricsRecorder) BookingRejected(flow domain.Flow, reason domain.RejectionReason) {
	r.m.BookingRejectionsTotal.WithLabelValues(string(flow), string(reason)).Inc()
}

func (r *metricsRecorder) SMSDelivery(status string) {
	r.m.SMSDeliveryTotal.WithLabelValues(status).Inc()
}

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting clinic-booking-service...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// SMS gateway client, best-effort confirmations only
	var smsSender createBookingUC.SMSSender
	if cfg.SMSGateway.Enabled {
		smsClient := smsGatewayClient.NewClient(
			cfg.SMSGateway.URL,
			cfg.SMSGateway.SenderID,
			time.Duration(cfg.SMSGateway.Timeout)*time.Second,
			log,
		)
		if cfg.Metrics.Enabled {
			smsClient = smsClient.WithRecorder(&metricsRecorder{m: metricsCollector})
		}
		smsSender = smsClient
		log.Info("SMS gateway client initialized (url=%s, timeout=%ds)",
			cfg.SMSGateway.URL, cfg.SMSGateway.Timeout)
	} else {
		log.Info("SMS gateway disabled, confirmations will not be sent")
	}

	// Repositories and transaction manager, instrumented when metrics are on
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		closureRepository  *closureRepo.Repository
		settingsRepository *settingsRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		closureRepository = closureRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		closureRepository = closureRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	var recorder createBookingUC.OutcomeRecorder = createBookingUC.NopRecorder{}
	if cfg.Metrics.Enabled {
		recorder = &metricsRecorder{m: metricsCollector}
	}

	// Services
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		closureRepository,
		settingsRepository,
		txMgr,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		closureRepository,
		settingsRepository,
		txMgr,
		smsSender,
		recorder,
		log,
	)
	validateBookingUseCase := validateBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		closureRepository,
		settingsRepository,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		closureRepository,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	getRequesterBookings := getRequesterBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	getClosures := getClosuresHandler.NewHandler(scheduleSvc, log)
	addClosure := addClosureHandler.NewHandler(scheduleSvc, log)
	removeClosure := removeClosureHandler.NewHandler(scheduleSvc, log)
	getSettings := getSettingsHandler.NewHandler(scheduleSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(scheduleSvc, log)

	// Router
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes: the booking flows themselves
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/requesters/bookings", getRequesterBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule", getSchedule.HandleWeek).Methods(http.MethodGet)
	api.HandleFunc("/schedule/{day}", getSchedule.HandleDay).Methods(http.MethodGet)
	api.HandleFunc("/closures", getClosures.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// Admin routes: ledger views and configuration writes
	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.APIKey))

	admin.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/schedule/{day}", updateSchedule.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/closures", addClosure.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/closures/{set}/{date}", removeClosure.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
