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
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/cancel_reservation"
	checkAvailabilityHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/check_availability"
	createReservationHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/create_reservation"
	getReservationHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_reservation"
	getSettingsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_settings"
	listReservationsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/list_reservations"
	reassignTablesHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/reassign_tables"
	updateReservationHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/update_reservation"
	updateSettingsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/update_settings"
	updateStatusHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/update_status"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/config"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/infra/lock"
	catalogRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/catalog"
	hoursRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/hours"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
	"github.com/m04kA/SMC-TableBooking/internal/service/guard"
	reservationsService "github.com/m04kA/SMC-TableBooking/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-TableBooking/internal/service/settings"
	checkAvailabilityUC "github.com/m04kA/SMC-TableBooking/internal/usecase/check_availability"
	createReservationUC "github.com/m04kA/SMC-TableBooking/internal/usecase/create_reservation"
	reassignTablesUC "github.com/m04kA/SMC-TableBooking/internal/usecase/reassign_tables"
	updateReservationUC "github.com/m04kA/SMC-TableBooking/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/metrics"
	"github.com/m04kA/SMC-TableBooking/pkg/txmanager"
)

// bookingMetrics метрики, которые нужны движку бронирования
type bookingMetrics interface {
	ObserveBooking(outcome string)
	ObserveConflictRetry()
	ObserveSearch(operation string, d time.Duration)
	ObserveLockWait(acquired bool, d time.Duration)
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-TableBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	defaults := domain.BookingSettings{
		SlotStepMinutes:        cfg.Booking.SlotStepMinutes,
		DefaultDurationMinutes: cfg.Booking.DefaultDurationMinutes,
		MinLeadMinutes:         cfg.Booking.MinLeadMinutes,
		MaxLeadDays:            cfg.Booking.MaxLeadDays,
		MaxPartySize:           cfg.Booking.MaxPartySize,
		RoomPolicy:             domain.RoomPolicy(cfg.Booking.RoomPolicy),
	}
	if err := settingsService.Validate(defaults); err != nil {
		log.Fatal("Invalid booking defaults in config: %v", err)
	}

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         bookingMetrics = metrics.Nop{}
		queryObserver    dbmetrics.Observer
		poolObserver     dbmetrics.PoolObserver
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		queryObserver = metricsCollector
		poolObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, queryObserver, poolObserver, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithLockTimeout(time.Duration(cfg.Database.LockTimeoutMS)*time.Millisecond),
	)

	// Блокировка критической секции: в процессе или через Redis
	var locker guard.Locker
	switch cfg.Lock.Driver {
	case config.LockDriverRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Lock.RedisAddr, err)
		}
		cancelPing()

		locker = lock.NewRedis(redisClient, cfg.Lock.KeyPrefix, cfg.Lock.TTL(), cfg.Lock.WaitTimeout(), log.With("component", "lock"))
		log.Info("Using redis lock (addr=%s, ttl=%s, wait=%s)", cfg.Lock.RedisAddr, cfg.Lock.TTL(), cfg.Lock.WaitTimeout())
	default:
		locker = lock.NewLocal(cfg.Lock.WaitTimeout())
		log.Info("Using in-process lock (wait=%s)", cfg.Lock.WaitTimeout())
	}

	// Инициализируем репозитории
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	hoursRepository := hoursRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	criticalSection := guard.New(locker, txMgr, recorder)
	floorSvc := floorplan.NewService(catalogRepository)
	settingsSvc := settingsService.NewService(settingsRepository, defaults, log)
	reservationsSvc := reservationsService.NewService(reservationRepository, criticalSection, log)

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		floorSvc,
		hoursRepository,
		reservationRepository,
		settingsSvc,
		recorder,
		location,
		log,
	)
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		floorSvc,
		hoursRepository,
		settingsSvc,
		criticalSection,
		recorder,
		location,
		log,
	)
	reassignTablesUseCase := reassignTablesUC.NewUseCase(
		reservationRepository,
		catalogRepository,
		criticalSection,
		log,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		catalogRepository,
		floorSvc,
		hoursRepository,
		settingsSvc,
		criticalSection,
		location,
		log,
	)

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationsSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	updateStatus := updateStatusHandler.NewHandler(reservationsSvc, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	reassignTables := reassignTablesHandler.NewHandler(reassignTablesUseCase, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Доступность и бронирование ---
	api.HandleFunc("/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// --- Управление бронированиями (персонал) ---
	api.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reservationId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reservationId}/tables", reassignTables.Handle).Methods(http.MethodPut)

	// --- Настройки бронирования ---
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
