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
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	archiveBookingHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/archive_booking"
	attachAddonHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/attach_addon"
	checkOverlapHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/check_overlap"
	createAddonServiceHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/create_addon_service"
	createBookingHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/create_booking"
	createClientHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/create_client"
	deletePaymentHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/delete_payment"
	detachAddonHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/detach_addon"
	exportBookingsHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/export_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/get_booking"
	getClientHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/get_client"
	getClientBookingsHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/get_client_bookings"
	healthHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/health"
	listAddonServicesHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/list_addon_services"
	listBookingsHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/list_bookings"
	listClientsHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/list_clients"
	listPaymentsHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/list_payments"
	quotePriceHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/quote_price"
	recordPaymentHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/record_payment"
	setBookingStatusHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/set_booking_status"
	updateBookingHandler "github.com/m04kA/SMC-VenueCRM/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-VenueCRM/internal/api/middleware"
	"github.com/m04kA/SMC-VenueCRM/internal/config"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	"github.com/m04kA/SMC-VenueCRM/internal/export"
	addonRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/addon"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	clientRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/client"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/idempotency"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/migrations"
	paymentRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/payment"
	"github.com/m04kA/SMC-VenueCRM/internal/integrations/gcalendar"
	"github.com/m04kA/SMC-VenueCRM/internal/integrations/telegram"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
	addonsService "github.com/m04kA/SMC-VenueCRM/internal/service/addons"
	bookingsService "github.com/m04kA/SMC-VenueCRM/internal/service/bookings"
	clientsService "github.com/m04kA/SMC-VenueCRM/internal/service/clients"
	paymentsService "github.com/m04kA/SMC-VenueCRM/internal/service/payments"
	statusService "github.com/m04kA/SMC-VenueCRM/internal/service/status"
	checkOverlapUC "github.com/m04kA/SMC-VenueCRM/internal/usecase/check_overlap"
	createBookingUC "github.com/m04kA/SMC-VenueCRM/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-VenueCRM/internal/usecase/get_available_slots"
	updateBookingUC "github.com/m04kA/SMC-VenueCRM/internal/usecase/update_booking"
	"github.com/m04kA/SMC-VenueCRM/internal/worker"
	"github.com/m04kA/SMC-VenueCRM/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
	"github.com/m04kA/SMC-VenueCRM/pkg/metrics"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueCRM/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.NewWithOptions(logger.Options{
		Level:      cfg.Logs.Level,
		Format:     cfg.Logs.Format,
		File:       cfg.Logs.File,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		App:        cfg.Metrics.ServiceName,
		Env:        cfg.Logs.Env,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-VenueCRM (venue=%q, timezone=%s)...", cfg.Venue.Name, cfg.Venue.Timezone)
	loc := cfg.Venue.Location()

	// Метрики: nil-коллектор безопасен, все методы его проверяют
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	dialect := cfg.Database.Dialect()
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.PingContext(startupCtx); err != nil {
		startupCancel()
		log.Fatal("Failed to ping database: %v", err)
	}
	if err := migrations.Apply(startupCtx, db, dialect); err != nil {
		startupCancel()
		log.Fatal("Failed to apply migrations: %v", err)
	}
	startupCancel()
	log.Info("Database ready (driver=%s)", dialect)

	var txObserver txmanager.Observer
	if cfg.Metrics.Enabled {
		txObserver = metricsCollector
		dbmetrics.StartPoolCollector(db, metricsCollector,
			time.Duration(cfg.Metrics.PoolInterval)*time.Second, stopMetricsCh)
		log.Info("Database metrics collection started")
	}
	txMgr := txmanager.NewTransactionManager(db, dialect, txObserver)

	// Инициализируем репозитории
	builder := psqlbuilder.New(dialect)
	bookingRepository := bookingRepo.NewRepository(db, builder)
	paymentRepository := paymentRepo.NewRepository(db, builder)
	addonRepository := addonRepo.NewRepository(db, builder)
	clientRepository := clientRepo.NewRepository(db, builder)

	// Ключи идемпотентности платежей
	idempotencyTTL := time.Duration(cfg.Redis.IdempotencyTTL) * time.Hour
	var idempotencyStore idempotency.Store = idempotency.NewMemoryStore(idempotencyTTL)
	if cfg.Redis.Enabled {
		redisClient := idempotency.NewRedisClient(idempotency.RedisOptions{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer redisClient.Close()
		idempotencyStore = idempotency.NewFailoverStore(
			idempotency.NewRedisStore(redisClient, idempotencyTTL),
			idempotencyStore,
			log,
		)
		log.Info("Idempotency keys stored in Redis at %s", cfg.Redis.Address)
	}

	// Шина событий
	bus := events.NewEventBus()
	bus.OnError(func(event *events.Event, err error) {
		log.Error("Event handler failed: type=%s, error=%v", event.Type, err)
	})

	calculator := pricing.NewCalculator()
	clock := &getAvailableSlotsUC.RealTimeProvider{Location: loc}

	// Инициализируем сервисы
	recalculator := statusService.NewRecalculator(
		bookingRepository,
		paymentRepository,
		addonRepository,
		txMgr,
		metricsCollector,
		log,
	)
	checkOverlapUseCase := checkOverlapUC.NewUseCase(bookingRepository, txMgr, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		paymentRepository,
		addonRepository,
		checkOverlapUseCase,
		txMgr,
		bus,
		metricsCollector,
		log,
	)
	paymentSvc := paymentsService.NewService(
		bookingRepository,
		paymentRepository,
		recalculator,
		txMgr,
		log,
		paymentsService.WithIdempotency(idempotencyStore),
		paymentsService.WithEvents(bus),
		paymentsService.WithMetrics(metricsCollector),
		paymentsService.WithTimeProvider(clock),
	)
	addonSvc := addonsService.NewService(
		bookingRepository,
		addonRepository,
		recalculator,
		txMgr,
		log,
	)
	clientSvc := clientsService.NewService(clientRepository, bookingRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		clientRepository,
		addonRepository,
		calculator,
		checkOverlapUseCase,
		txMgr,
		bus,
		metricsCollector,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		calculator,
		checkOverlapUseCase,
		recalculator,
		txMgr,
		bus,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, txMgr, clock, log)

	// Фоновые задачи: календарь и уведомления
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	retryPolicy := worker.RetryPolicy{
		MaxRetries:    cfg.Workers.MaxRetries,
		InitialDelay:  time.Duration(cfg.Workers.InitialDelay) * time.Second,
		MaxDelay:      time.Duration(cfg.Workers.MaxDelay) * time.Second,
		BackoffFactor: cfg.Workers.Backoff,
	}

	if cfg.GoogleCalendar.Enabled {
		calendarClient, err := gcalendar.NewClient(workersCtx, cfg.GoogleCalendar.CredentialsFile,
			cfg.GoogleCalendar.CalendarID, loc, log)
		if err != nil {
			log.Fatal("Failed to initialize Google Calendar client: %v", err)
		}
		calendarQueue := worker.NewQueue("calendar", cfg.Workers.QueueSize, retryPolicy, metricsCollector, log)
		worker.NewCalendarSync(bookingRepository, calendarClient, calendarQueue, loc, log).Subscribe(bus)
		go calendarQueue.Start(workersCtx)
		log.Info("Google Calendar sync enabled (calendar=%s)", cfg.GoogleCalendar.CalendarID)
	}

	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatIDs, cfg.Telegram.RatePerSecond)
		if err != nil {
			log.Fatal("Failed to initialize Telegram client: %v", err)
		}
		telegramQueue := worker.NewQueue("telegram", cfg.Workers.QueueSize, retryPolicy, metricsCollector, log)
		worker.NewNotifier(telegramClient, telegramQueue).Subscribe(bus)
		go telegramQueue.Start(workersCtx)
		log.Info("Telegram notifications enabled (chats=%d)", len(cfg.Telegram.ChatIDs))
	}

	// Инициализируем handlers
	quotePrice := quotePriceHandler.NewHandler(calculator, log)
	checkOverlap := checkOverlapHandler.NewHandler(checkOverlapUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	setBookingStatus := setBookingStatusHandler.NewHandler(bookingSvc, log)
	archiveBooking := archiveBookingHandler.NewHandler(bookingSvc, log)
	listPayments := listPaymentsHandler.NewHandler(paymentSvc, log)
	recordPayment := recordPaymentHandler.NewHandler(paymentSvc, log)
	deletePayment := deletePaymentHandler.NewHandler(paymentSvc, log)
	listAddonServices := listAddonServicesHandler.NewHandler(addonSvc, log)
	createAddonService := createAddonServiceHandler.NewHandler(addonSvc, log)
	attachAddon := attachAddonHandler.NewHandler(addonSvc, log)
	detachAddon := detachAddonHandler.NewHandler(addonSvc, log)
	createClient := createClientHandler.NewHandler(clientSvc, log)
	listClients := listClientsHandler.NewHandler(clientSvc, log)
	getClient := getClientHandler.NewHandler(clientSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(clientSvc, log)
	health := healthHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Расчёт стоимости и календарь ---
	api.HandleFunc("/pricing/quote", quotePrice.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/overlap", checkOverlap.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/free-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	if cfg.Export.Enabled {
		exporter := export.NewExporter(bookingRepository, paymentRepository, addonRepository, clientRepository, txMgr, log)
		api.HandleFunc("/bookings/export",
			exportBookingsHandler.NewHandler(exporter, loc, log).Handle).Methods(http.MethodGet)
	}
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", updateBooking.Handle).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", archiveBooking.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/status", setBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Платежи ---
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/payments", listPayments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/payments", recordPayment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/{paymentId:[0-9]+}", deletePayment.Handle).Methods(http.MethodDelete)

	// --- Доп. услуги ---
	api.HandleFunc("/addon-services", listAddonServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/addon-services", createAddonService.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/addons", attachAddon.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-addons/{lineId:[0-9]+}", detachAddon.Handle).Methods(http.MethodDelete)

	// --- Клиенты ---
	api.HandleFunc("/clients", createClient.Handle).Methods(http.MethodPost)
	api.HandleFunc("/clients", listClients.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId:[0-9]+}", getClient.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId:[0-9]+}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые задачи и сбор метрик connection pool
	stopWorkers()
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
