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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	getLatestOccupancyHandler "github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers/get_latest_occupancy"
	getLotOccupancyHandler "github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers/get_lot_occupancy"
	healthHandler "github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers/health"
	streamOccupancyHandler "github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers/stream_occupancy"
	updateSlotStatusHandler "github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers/update_slot_status"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/config"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/infra/cache/snapshot"
	bookingRepo "github.com/m04kA/SMC-ParkingOccupancy/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-ParkingOccupancy/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/integrations/parkingbackend"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/bookingindex"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/liveview"
	getLotOccupancyUC "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/get_lot_occupancy"
	updateSlotStatusUC "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/update_slot_status"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/logger"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/metrics"
)

// slotSource источник слотов лота с возможностью ручного изменения статуса
type slotSource interface {
	FetchSlotsForLot(ctx context.Context, lotID int64, start, end time.Time) ([]*domain.Slot, error)
	UpdateSlotStatus(ctx context.Context, lotID, slotID int64, update domain.SlotStatusUpdate) (*domain.Slot, error)
}

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

	log.Info("Starting SMC-ParkingOccupancy...")
	log.Info("Configuration loaded from config.toml (data_source=%s)", cfg.DataSource.Kind)

	location, err := cfg.Engine.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Engine.Timezone, err)
	}

	// Инициализируем метрики (если включены).
	// Получатели метрик остаются nil, если метрики выключены.
	var (
		metricsCollector *metrics.Metrics
		indexMetrics     bookingindex.MetricsRecorder
		viewMetrics      liveview.MetricsRecorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		indexMetrics = metricsCollector
		viewMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	checks := make(map[string]healthHandler.Check)

	// Источник слотов и бронирований
	var (
		slots    slotSource
		bookings bookingindex.BookingDataService
	)

	switch cfg.DataSource.Kind {
	case config.DataSourcePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
			slots = slotRepo.NewRepository(wrappedDB)
			bookings = bookingRepo.NewRepository(wrappedDB)
		} else {
			slots = slotRepo.NewRepository(db)
			bookings = bookingRepo.NewRepository(db)
		}
		checks["postgres"] = db.PingContext

	default:
		client := parkingbackend.NewClient(
			cfg.ParkingBackend.URL,
			time.Duration(cfg.ParkingBackend.Timeout)*time.Second,
			log,
		)
		slots = client
		bookings = client
		log.Info("Parking backend client initialized (url=%s timeout=%ds)",
			cfg.ParkingBackend.URL, cfg.ParkingBackend.Timeout)
	}

	// Кэш снимков занятости (если включен)
	var (
		snapshotStore *snapshot.Store
		redisClient   *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = snapshot.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		snapshotStore = snapshot.NewStore(redisClient, time.Duration(cfg.Redis.SnapshotTTL)*time.Second)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info("Snapshot cache enabled (addr=%s ttl=%ds)", cfg.Redis.Addr, cfg.Redis.SnapshotTTL)
	}

	// Хранилища снимков для use case и представлений: nil, если кэш выключен
	var (
		ucStore   getLotOccupancyUC.SnapshotStore
		viewStore liveview.SnapshotStore
	)
	if snapshotStore != nil {
		ucStore = snapshotStore
		viewStore = snapshotStore
	}

	// Инициализируем use cases
	getLotOccupancyUseCase := getLotOccupancyUC.NewUseCase(
		slots,
		bookingindex.NewIndex(bookings, cfg.Engine.MaxParallelFetches, indexMetrics, log),
		ucStore,
		location,
		log,
	)
	updateSlotStatusUseCase := updateSlotStatusUC.NewUseCase(slots, log)

	// Каждое websocket-подключение получает собственное представление и индекс
	viewOpts := liveview.Options{
		TickInterval:    cfg.Engine.TickInterval(),
		RefetchInterval: cfg.Engine.RefetchInterval(),
		LoadTimeout:     cfg.Engine.LoadTimeout(),
		Location:        location,
	}
	openView := func() (streamOccupancyHandler.LiveView, error) {
		index := bookingindex.NewIndex(bookings, cfg.Engine.MaxParallelFetches, indexMetrics, log)
		view, err := liveview.New(slots, index, viewStore, viewMetrics, viewOpts, log)
		if err != nil {
			return nil, err
		}
		return view, nil
	}

	// Инициализируем handlers
	getLotOccupancy := getLotOccupancyHandler.NewHandler(getLotOccupancyUseCase, log)
	updateSlotStatus := updateSlotStatusHandler.NewHandler(updateSlotStatusUseCase, log)
	streamOccupancy := streamOccupancyHandler.NewHandler(openView, log)
	health := healthHandler.NewHandler(checks, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Разовый расчет занятости лота
	api.HandleFunc("/lots/{lotId}/occupancy", getLotOccupancy.Handle).Methods(http.MethodGet)

	// Живое представление занятости (WebSocket)
	api.HandleFunc("/lots/{lotId}/occupancy/live", streamOccupancy.Handle).Methods(http.MethodGet)

	// Последний сохраненный снимок доступен только при включенном кэше
	if snapshotStore != nil {
		getLatestOccupancy := getLatestOccupancyHandler.NewHandler(snapshotStore, log)
		api.HandleFunc("/lots/{lotId}/occupancy/latest", getLatestOccupancy.Handle).Methods(http.MethodGet)
	}

	// Ручное изменение статуса слота
	api.HandleFunc("/lots/{lotId}/slots/{slotId}/status", updateSlotStatus.Handle).Methods(http.MethodPut)

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
