package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal"
	"github.com/TonyS-dev/nexus-hr/internal/auth"
	authPostgres "github.com/TonyS-dev/nexus-hr/internal/auth/postgres"
	"github.com/TonyS-dev/nexus-hr/internal/core/events"
	"github.com/TonyS-dev/nexus-hr/internal/employee"
	employeePostgres "github.com/TonyS-dev/nexus-hr/internal/employee/postgres"
	"github.com/TonyS-dev/nexus-hr/internal/ledger"
	ledgerPostgres "github.com/TonyS-dev/nexus-hr/internal/ledger/postgres"
	"github.com/TonyS-dev/nexus-hr/internal/notification"
	notificationPostgres "github.com/TonyS-dev/nexus-hr/internal/notification/postgres"
	requestPostgres "github.com/TonyS-dev/nexus-hr/internal/request/postgres"
	"github.com/TonyS-dev/nexus-hr/internal/transport/rest"
	"github.com/TonyS-dev/nexus-hr/internal/workflow"
	"github.com/TonyS-dev/nexus-hr/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM shares the pgx connection pool opened by sqlx.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	// Stores and repositories
	directory := employeePostgres.NewEmployeeDirectory(db)
	requestRepo := requestPostgres.NewRequestRepository(gormDB)
	ledgerStore := ledgerPostgres.NewLedgerStore(gormDB)
	notificationStore := notificationPostgres.NewNotificationStore(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)

	// Services
	ledgerService := ledger.NewService(ledgerStore, config.Workflow.DefaultAnnualDays, appLogger)
	workflowService := workflow.NewService(requestRepo, ledgerService, directory, eventBus, config.Workflow, appLogger)
	employeeService := employee.NewService(directory, appLogger)
	notificationService := notification.NewService(notificationStore, appLogger)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)

	// Event handlers
	dispatcher := notification.NewDispatcher(notificationStore, appLogger)
	dispatcher.RegisterEventHandlers(eventBus)

	// Handlers
	authHandler := auth.NewHandler(authService, directory)
	employeeHandler := employee.NewHandler(employeeService, func(r *http.Request) (*employee.Employee, bool) {
		return auth.EmployeeFromContext(r.Context())
	})
	workflowHandler := workflow.NewHandler(workflowService)
	notificationHandler := notification.NewHandler(notificationService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, employeeHandler, workflowHandler, notificationHandler, appLogger)

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
