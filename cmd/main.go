package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasker/internal/config"
	"tasker/internal/handlers"
	"tasker/internal/logger"
	"tasker/internal/repository"
	"tasker/internal/repository/db"
	"tasker/internal/server"
	"tasker/internal/service"
)

// @title        Tasker API
// @version      1.0
// @description  Per-user task tracker with cookie sessions.
// @host         localhost:8080
// @BasePath     /
func main() {
	// load configs/config.yml + env
	cfg, err := config.Load("configs")
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	if cfg.UsesDefaultSecret() {
		log.Warnw("session secret left at development default; set SECRET_KEY")
	}

	// open DB and apply migrations
	conn, err := openDB(cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Config{
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
	}, log)
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		SessionTTL:   cfg.Session.TTL,
		SecureCookie: cfg.Session.Secure,
	})

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, cfg.Server.ShutdownTimeout, log)
}

func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return db.InitDB(ctx, path, db.Options{
		OnMigrated: func(version int64, source string) {
			log.Infow("migration_applied", "version", version, "source", source)
		},
	})
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight requests.
func waitForShutdown(srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
