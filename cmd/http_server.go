package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/core/events"
	"github.com/frahmantamala/task-management/internal/task"
	taskPostgres "github.com/frahmantamala/task-management/internal/task/postgres"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/transport/flash"
	"github.com/frahmantamala/task-management/internal/transport/middleware"
	"github.com/frahmantamala/task-management/internal/transport/rest"
	"github.com/frahmantamala/task-management/internal/transport/view"
	"github.com/frahmantamala/task-management/internal/user"
	userPostgres "github.com/frahmantamala/task-management/internal/user/postgres"
	"github.com/frahmantamala/task-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the task management pages`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	Store  *Store
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "environment", deps.Config.Environment)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.Store.Close()
			os.Exit(1)
		}
	}

	if err := deps.Store.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg, log := deps.Config, deps.Logger

	views, err := view.New()
	if err != nil {
		return err
	}
	base := transport.NewBaseHandler(log, views, flash.NewStore(cfg.Security.SessionSecret, cfg.Security.SecureCookies))

	bus := events.NewBus(log)

	userService := user.NewService(userPostgres.NewUserRepository(deps.Store.Gorm), bus, cfg.Security.BCryptCost, log)
	taskService := task.NewService(taskPostgres.NewTaskRepository(deps.Store.Gorm), userService, log)
	task.NewEventHandler(taskService, log).RegisterEventHandlers(bus)

	issuer := auth.NewJWTTokenIssuer(cfg.Security.TokenSecret, cfg.Security.TokenDuration)
	authService := auth.NewService(userService, issuer, log)
	cookies := auth.CookieConfig{Secure: cfg.Security.SecureCookies, MaxAge: issuer.TTL()}

	routes := rest.Routes{
		Gate:   auth.NewGate(authService, cookies, log),
		Auth:   auth.NewHandler(base, authService, cookies),
		User:   user.NewHandler(base, userService),
		Task:   task.NewHandler(base, taskService),
		Health: rest.NewHealthHandler(base, deps.Store.SQL, cfg.Database.Driver),
	}

	if cfg.Observability.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		routes.Metrics = middleware.NewMetrics(reg)
		routes.MetricsPath = cfg.Observability.Metrics.Path
		routes.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	rest.RegisterAllRoutes(deps.Router, routes)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	store, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		Store:  store,
		Router: chi.NewRouter(),
	}, nil
}
