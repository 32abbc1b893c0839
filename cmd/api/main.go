package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maxiG180/trimminflow/internal/audit"
	"github.com/maxiG180/trimminflow/internal/config"
	dbpkg "github.com/maxiG180/trimminflow/internal/db"
	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/infra/cache"
	"github.com/maxiG180/trimminflow/internal/infra/memory"
	"github.com/maxiG180/trimminflow/internal/infra/repository"
	"github.com/maxiG180/trimminflow/internal/logging"
	"github.com/maxiG180/trimminflow/internal/middleware"
	"github.com/maxiG180/trimminflow/internal/observability/metrics"
	"github.com/maxiG180/trimminflow/internal/routes"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

func main() {

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	clock := timezone.SystemClock{}

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		dir  domain.Directory
		cal  domain.CalendarStore
		sink audit.Sink
	)

	if cfg.UseMemoryBackend() {
		memDir := memory.NewDirectory()
		seedDemo(memDir)
		dir = memDir
		cal = memory.NewCalendar(clock)
		log.Warn("using in-memory calendar; data is lost on restart")
	} else {
		db, err := dbpkg.NewDB(cfg, log.Logger)
		if err != nil {
			log.Error("database unavailable", "err", err)
			os.Exit(1)
		}
		dir = repository.NewDirectoryGormRepository(db)
		cal = repository.NewCalendarGormStore(db)
		sink = audit.New(db)
	}

	// ======================================================
	// REDIS (OPTIONAL)
	// ======================================================
	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.PublicRateLimit, cfg.PublicRateWindow)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()

		if err != nil {
			log.Warn("redis unavailable, running without occupancy cache", "addr", cfg.RedisAddr, "err", err)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			cal = cache.NewOccupancyCache(cal, rdb, cfg.OccupancyCacheTTL, log.Logger)
			limiter = middleware.NewRedisLimiter(rdb, cfg.PublicRateLimit, cfg.PublicRateWindow, "rl:public")
			log.Info("redis connected", "addr", cfg.RedisAddr)
		}
	}

	// ======================================================
	// AUDIT + METRICS
	// ======================================================
	dispatcher := audit.NewDispatcher(sink, log.Logger)
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:    cfg,
		Directory: dir,
		Calendar:  cal,
		Clock:     clock,
		Audit:     dispatcher,
		Metrics:   bookingMetrics,
		Gatherer:  prometheus.DefaultGatherer,
		Limiter:   limiter,
		Logger:    log.Logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server running", "addr", cfg.Addr(), "backend", cfg.CalendarBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// ======================================================
	// SHUTDOWN
	// ======================================================
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Warn("audit queue not drained", "err", err, "dropped", dispatcher.Dropped())
	}
	log.Info("server stopped")
}
