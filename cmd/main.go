package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "todo_list/docs"
	"todo_list/internal/config"
	"todo_list/internal/handlers"
	"todo_list/internal/logger"
	"todo_list/internal/metrics"
	"todo_list/internal/repository"
	"todo_list/internal/repository/db"
	"todo_list/internal/security/password"
	"todo_list/internal/security/token"
	"todo_list/internal/server"
	"todo_list/internal/service"
)

// @title                       To-Do List API
// @version                     1.0
// @description                 Multi-user to-do list with JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	// load configs/config.yml and TODO_* env
	cfg, err := config.Load()
	if err != nil {
		// the real logger depends on config
		logger.Get(logger.Options{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	conn, err := openDB(cfg.DB)
	if err != nil {
		log.Fatalw("failed to init database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	dialect, _ := db.ParseDialect(cfg.DB.Driver)

	hasher, err := password.New(cfg.PasswordConfig())
	if err != nil {
		log.Fatalw("invalid password hasher config", "err", err)
	}
	tokens, err := token.NewManager(cfg.TokenConfig())
	if err != nil {
		log.Fatalw("invalid token config", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(conn, dialect)
	services := service.NewService(repos, hasher, tokens)

	opts := []handlers.Option{
		handlers.WithReadiness(conn.PingContext),
		handlers.WithCORS(cfg.CORS.AllowedOrigins),
		handlers.WithStreamInterval(cfg.WS.PollInterval),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, handlers.WithMetrics(metrics.New(), cfg.Metrics.Path))
	}
	apiHandler := handlers.NewHandler(services, log, opts...)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.HTTP, apiHandler, log)
	log.Infow("server started", "port", cfg.HTTP.Port, "db", string(dialect), "hasher", hasher.Algorithm())

	// graceful shutdown
	waitForShutdown(srv, cfg.HTTP.ShutdownTimeout, log)
}

// openDB opens the configured database and creates missing tables.
func openDB(c config.DBConfig) (*sql.DB, error) {
	dialect, err := db.ParseDialect(c.Driver)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return db.InitDB(ctx, dialect, c.DSN, db.Options{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	})
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, c config.HTTPConfig, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		err := srv.Run(c.Port, handler.InitRoutes(), server.Config{
			ReadHeaderTimeout: c.ReadHeaderTimeout,
			ReadTimeout:       c.ReadTimeout,
			WriteTimeout:      c.WriteTimeout,
			IdleTimeout:       c.IdleTimeout,
		})
		if err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
