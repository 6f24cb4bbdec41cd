package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AleeST1/Reserva-de-sala/internal/api"
	"github.com/AleeST1/Reserva-de-sala/internal/booking"
	"github.com/AleeST1/Reserva-de-sala/internal/config"
	"github.com/AleeST1/Reserva-de-sala/internal/events"
	"github.com/AleeST1/Reserva-de-sala/internal/metrics"
	"github.com/AleeST1/Reserva-de-sala/internal/store"
	"github.com/AleeST1/Reserva-de-sala/internal/tasks"
	"github.com/AleeST1/Reserva-de-sala/internal/updates"
)

// version is overridden at build time via -ldflags.
var version = "0.0.0"

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("RESERVA_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := store.Open(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database error")
	}
	defer db.Close()

	var (
		rdb          *redis.Client
		bookingStore booking.Store = db
	)
	if cfg.Redis.Address != "" && cfg.Redis.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		bookingStore = store.NewCachedStore(db, rdb, cfg.CacheTTL(), &logger)
		logger.Info().Str("address", cfg.Redis.Address).Msg("redis cache enabled")
	}

	bus := events.NewBus()
	subscribeMetrics(bus)

	service := booking.NewService(bookingStore, bus, &logger, cfg.Rooms, cfg.ServerTimeout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refresher := tasks.NewRefresher(service, cfg.RefreshInterval(), &logger)
	go refresher.Start(ctx)

	janitor := tasks.NewJanitor(service, cfg.Cleanup.RetentionDays, cfg.CleanupInitialDelay(), cfg.CleanupInterval(), &logger)
	go janitor.Start(ctx)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		go startBackupLoop(ctx, db, cfg, &logger)
	}

	if cfg.Update.Enabled && cfg.Update.URL != "" {
		go checkForUpdates(ctx, cfg.Update.URL, &logger)
	}

	srv := api.NewHTTPServer(service, refresher, cfg.Server.Port, &logger)
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Str("version", version).Msg("reservation server started")
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

// subscribeMetrics bridges domain events into Prometheus counters.
func subscribeMetrics(bus *events.Bus) {
	bus.Subscribe(events.TypeReservationCreated, func(events.Event) {
		metrics.IncReservationCreated()
	})
	bus.Subscribe(events.TypeReservationUpdated, func(events.Event) {
		metrics.IncReservationUpdated()
	})
	bus.Subscribe(events.TypeReservationDeleted, func(events.Event) {
		metrics.IncReservationDeleted()
	})
	bus.Subscribe(events.TypeReservationExpired, func(e events.Event) {
		metrics.AddReservationExpired(float64(e.Count))
	})
}

func checkForUpdates(ctx context.Context, url string, logger *zerolog.Logger) {
	checker := updates.NewChecker(url, version, logger)
	ctxCheck, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := checker.Check(ctxCheck); err != nil {
		logger.Warn().Err(err).Msg("update check failed")
	}
}

func startBackupLoop(ctx context.Context, db *store.Store, cfg *config.Config, logger *zerolog.Logger) {
	if err := os.MkdirAll(cfg.Backup.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create backup directory")
		return
	}

	interval := time.Duration(cfg.Backup.IntervalHours) * time.Hour
	retention := time.Duration(cfg.Backup.RetentionDays) * 24 * time.Hour

	// Run first backup after a short delay
	select {
	case <-time.After(1 * time.Minute):
		runBackupTask(db, cfg, retention, logger)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runBackupTask(db, cfg, retention, logger)
		case <-ctx.Done():
			return
		}
	}
}

func runBackupTask(db *store.Store, cfg *config.Config, retention time.Duration, logger *zerolog.Logger) {
	timestamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(cfg.Backup.Path, fmt.Sprintf("reservations_%s.db", timestamp))

	logger.Info().Str("path", dest).Msg("starting database backup")
	if err := db.Backup(dest); err != nil {
		logger.Error().Err(err).Msg("backup failed")
	} else {
		logger.Info().Msg("backup completed successfully")
	}

	deleted, err := db.CleanupBackups(cfg.Backup.Path, retention)
	if err != nil {
		logger.Error().Err(err).Msg("backup cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int("deleted", deleted).Msg("cleaned up old backups")
	}
}

func startHealthServer(ctx context.Context, port int, db *store.Store, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
