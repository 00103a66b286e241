package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fieldtrack/config"
	"fieldtrack/internal/api/handler"
	"fieldtrack/internal/api/router"
	"fieldtrack/internal/repository"
	"fieldtrack/internal/service"
	"fieldtrack/pkg/clock"
	"fieldtrack/pkg/database"
	"fieldtrack/pkg/jwt"
	applogger "fieldtrack/pkg/logger"
	"fieldtrack/pkg/redis"
	"fieldtrack/pkg/scheduler"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("FIELDTRACK_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loc, err := cfg.Attendance.Location()
	if err != nil {
		logger.Fatal("invalid field time zone", zap.String("timezone", cfg.Attendance.Timezone), zap.Error(err))
	}

	logger.Info("starting fieldtrack",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", loc.String()),
	)

	// 3. database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. redis is optional: without it logout cannot revoke and rate limits are off
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token revocation and rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. wiring: repository → service → handler
	clk := clock.New(loc)
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, clk, logger)
	h := handler.NewHandler(svc, logger)

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 6. background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.New(loc, logger)
		err := jobs.Register("reminder-sweep", cfg.Scheduler.ReminderCron, func(ctx context.Context) error {
			_, err := svc.Reminder.Sweep(ctx)
			return err
		})
		if err != nil {
			logger.Fatal("register reminder sweep failed", zap.String("spec", cfg.Scheduler.ReminderCron), zap.Error(err))
		}
		jobs.Start()
	}

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if jobs != nil {
		jobs.Stop(ctx)
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
