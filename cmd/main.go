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

	"github.com/go-redis/redis"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/check_availability"
	confirmBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/confirm_booking"
	getBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_user_bookings"
	monthlyAvailabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/monthly_availability"
	reserveBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/reserve_booking"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/config"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	catalogServiceClient "github.com/m04kA/SMC-RentalService/internal/integrations/catalogservice"
	expireBookingsJob "github.com/m04kA/SMC-RentalService/internal/jobs/expire_bookings"
	bookingsService "github.com/m04kA/SMC-RentalService/internal/service/bookings"
	availabilityUC "github.com/m04kA/SMC-RentalService/internal/usecase/availability"
	confirmBookingUC "github.com/m04kA/SMC-RentalService/internal/usecase/confirm_booking"
	reserveBookingUC "github.com/m04kA/SMC-RentalService/internal/usecase/reserve_booking"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
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

	log.Info("Starting SMC-RentalService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Подключаемся к Redis (lock store + кэш бронирований)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	cacheStore := cache.NewStore(redisClient)
	if err := cacheStore.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем клиент каталога услуг
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозиторий (с метриками или без)
	var bookingRepository *bookingRepo.Repository
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
	}

	reservationTimeout := time.Duration(cfg.Booking.ReservationTimeout) * time.Second
	sweepInterval := time.Duration(cfg.Booking.SweepInterval) * time.Second
	bookingCacheTTL := time.Duration(cfg.Booking.BookingCacheTTL) * time.Second

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		cacheStore,
		cacheStore,
		bookingCacheTTL,
		log,
	)

	// Метрики прокидываются в use cases через узкие интерфейсы; при выключенных
	// метриках интерфейсы остаются nil, а не типизированным nil-указателем
	var (
		reserveMetrics reserveBookingUC.Metrics
		sweeperMetrics expireBookingsJob.Metrics
	)
	if cfg.Metrics.Enabled {
		reserveMetrics = metricsCollector
		sweeperMetrics = metricsCollector
	}

	// Инициализируем use cases
	reserveBookingUseCase := reserveBookingUC.NewUseCase(
		bookingRepository,
		catalogClient,
		cacheStore,
		reservationTimeout,
		reserveMetrics,
		log,
	)
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		cacheStore,
		cacheStore,
		log,
	)
	availabilityUseCase := availabilityUC.NewUseCase(
		bookingRepository,
		catalogClient,
		log,
	)

	// Инициализируем фоновую очистку просроченных бронирований
	sweeper := expireBookingsJob.NewSweeper(
		bookingRepository,
		cacheStore,
		cacheStore,
		reservationTimeout,
		sweepInterval,
		sweeperMetrics,
		log,
	)

	// Инициализируем handlers
	reserveBooking := reserveBookingHandler.NewHandler(reserveBookingUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilityUseCase, log)
	monthlyAvailability := monthlyAvailabilityHandler.NewHandler(availabilityUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка доступности услуги на диапазон дат
	api.HandleFunc("/services/{serviceId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// Календарь занятости услуги по дням месяца
	api.HandleFunc("/services/{serviceId}/availability/monthly",
		monthlyAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Резервация слота (PENDING + блокировка)
	protected.HandleFunc("/bookings", reserveBooking.Handle).Methods(http.MethodPost)

	// Подтверждение резервации
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Запускаем фоновую очистку
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	go sweeper.Run(sweeperCtx)
	log.Info("Expiry sweeper started (interval=%ds, reservation_timeout=%ds)",
		cfg.Booking.SweepInterval, cfg.Booking.ReservationTimeout)

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

	// Останавливаем фоновую очистку
	stopSweeper()

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
