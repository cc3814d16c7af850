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
	"go.uber.org/zap"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/cache"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/config"
	dbpkg "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/db"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/logger"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/metrics"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/routes"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	redisClient := connectRedis(ctx, cfg, log)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	hub := realtime.NewHub(log)
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	if cfg.RealtimeListen {
		listener := realtime.NewListener(cfg.DBUrl, hub, log, bookingMetrics)
		go listener.Run(ctx)
	}

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, routes.Infra{
		Log:      log,
		Redis:    redisClient,
		Hub:      hub,
		Audit:    auditDispatcher,
		Metrics:  bookingMetrics,
		Gatherer: prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	auditDispatcher.Close()

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// connectRedis returns nil when Redis is not configured or unreachable;
// cache and booking locks then stay in process.
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis disabled, using in-process cache and locks")
		return nil
	}

	client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := cache.NewRedis(client).Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, using in-process cache and locks",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		_ = client.Close()
		return nil
	}

	log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	return client
}
