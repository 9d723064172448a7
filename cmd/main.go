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

	allocateBookingHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/allocate_booking"
	blockSlotHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/block_slot"
	cancelBookingHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/cancel_booking"
	createWindowHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/create_exclusive_window"
	evaluateBookingHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/evaluate_booking"
	generateSlotsHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/generate_slots"
	getBookingHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/get_calendar"
	listBookingsHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/list_bookings"
	listSlotsHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/list_slots"
	moveBookingHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/move_booking"
	updateStatusHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/update_booking_status"
	updateWindowHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/update_exclusive_window"
	updateWeekdayHandler "github.com/m04kA/SMC-AllocationService/internal/api/handlers/update_weekday_rule"
	"github.com/m04kA/SMC-AllocationService/internal/api/middleware"
	"github.com/m04kA/SMC-AllocationService/internal/config"
	accountRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/account"
	bookingRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/calendar"
	slotRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AllocationService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-AllocationService/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-AllocationService/internal/service/calendar"
	allocateBookingUC "github.com/m04kA/SMC-AllocationService/internal/usecase/allocate_booking"
	evaluateBookingUC "github.com/m04kA/SMC-AllocationService/internal/usecase/evaluate_booking"
	generateSlotsUC "github.com/m04kA/SMC-AllocationService/internal/usecase/generate_slots"
	moveBookingUC "github.com/m04kA/SMC-AllocationService/internal/usecase/move_booking"
	"github.com/m04kA/SMC-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllocationService/pkg/logger"
	"github.com/m04kA/SMC-AllocationService/pkg/metrics"
	"github.com/m04kA/SMC-AllocationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AllocationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-AllocationService...")

	facilityLoc, err := cfg.Facility.Location()
	if err != nil {
		log.Fatal("Failed to load facility timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Клиент сервиса уведомлений
	notifierClient := notifier.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		cfg.Notifier.RatePerSecond,
		log,
	)
	log.Info("Notifier client initialized (url=%s, timeout=%ds, rate=%.1f/s)",
		cfg.Notifier.URL, cfg.Notifier.Timeout, cfg.Notifier.RatePerSecond)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		calendarRepository *calendarRepo.Repository
		slotRepository     *slotRepo.Repository
		bookingRepository  *bookingRepo.Repository
		accountRepository  *accountRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		accountRepository = accountRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		calendarRepository = calendarRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		accountRepository = accountRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		calendarRepository,
		slotRepository,
		txMgr,
		&generateSlotsUC.RealTimeProvider{},
		log,
		facilityLoc,
		cfg.Facility.HorizonDays,
		cfg.Facility.RegularCapacityPoints,
		cfg.Facility.ExclusiveCapacityPoints,
	)

	allocateBookingUseCase := allocateBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		accountRepository,
		txMgr,
		notifierClient,
		log,
	)

	evaluateBookingUseCase := evaluateBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		accountRepository,
		log,
	)

	moveBookingUseCase := moveBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		txMgr,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)
	calendarSvc := calendarService.NewService(
		calendarRepository,
		slotRepository,
		generateSlotsUseCase,
		txMgr,
		log,
	)

	// Инициализируем handlers
	allocateBooking := allocateBookingHandler.NewHandler(allocateBookingUseCase, log)
	evaluateBooking := evaluateBookingHandler.NewHandler(evaluateBookingUseCase, log)
	moveBooking := moveBookingHandler.NewHandler(moveBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateStatus := updateStatusHandler.NewHandler(bookingSvc, log)
	listSlots := listSlotsHandler.NewHandler(calendarSvc, log)
	blockSlot := blockSlotHandler.NewHandler(calendarSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(calendarSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	updateWeekday := updateWeekdayHandler.NewHandler(calendarSvc, log)
	createWindow := createWindowHandler.NewHandler(calendarSvc, log)
	updateWindow := updateWindowHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты за период
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)

	// Конфигурация календаря
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Проверка возможности бронирования
	api.HandleFunc("/bookings/evaluate", evaluateBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", allocateBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/move", moveBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// --- Управление сеткой и календарём (для администраторов) ---
	protected.HandleFunc("/slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/block", blockSlot.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/calendar/weekdays/{weekday}", updateWeekday.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/calendar/exclusive-windows", createWindow.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/calendar/exclusive-windows/{windowId}", updateWindow.Handle).Methods(http.MethodPatch)

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
