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

	"github.com/dchesque/app-loja/internal"
	"github.com/dchesque/app-loja/internal/auth"
	authPostgres "github.com/dchesque/app-loja/internal/auth/postgres"
	"github.com/dchesque/app-loja/internal/cliente"
	clientePostgres "github.com/dchesque/app-loja/internal/cliente/postgres"
	"github.com/dchesque/app-loja/internal/core/common/validation"
	"github.com/dchesque/app-loja/internal/fornecedor"
	fornecedorPostgres "github.com/dchesque/app-loja/internal/fornecedor/postgres"
	"github.com/dchesque/app-loja/internal/transport"
	"github.com/dchesque/app-loja/internal/transport/middleware"
	"github.com/dchesque/app-loja/internal/transport/rest"
	"github.com/dchesque/app-loja/internal/transport/swagger"
	"github.com/dchesque/app-loja/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
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
	Gorm   *gorm.DB
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
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Server.Env)

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
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	ttl, err := cfg.Security.TokenTTL()
	if err != nil {
		return err
	}

	base := transport.NewBaseHandler(lg, cfg.IsProduction())
	v := validation.NewValidator()

	authService := auth.NewService(
		authPostgres.NewRepository(deps.Gorm, lg),
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, ttl),
		auth.NewBcryptHasher(cfg.Security.BCryptCost),
		lg,
	)
	clienteService := cliente.NewService(clientePostgres.NewClienteRepository(deps.Gorm, lg), lg)
	fornecedorService := fornecedor.NewService(fornecedorPostgres.NewFornecedorRepository(deps.Gorm, lg), lg)

	doc, err := swagger.Load(context.Background())
	if err != nil {
		return err
	}
	docHandler, err := swagger.DocHandler(doc)
	if err != nil {
		return err
	}

	routes := rest.Routes{
		Base:         base,
		Auth:         auth.NewHandler(base, authService, v),
		RBAC:         auth.NewRBACAuthorization(base),
		Clientes:     cliente.NewHandler(base, clienteService, v),
		Fornecedores: fornecedor.NewHandler(base, fornecedorService, v),
		Health:       rest.NewHealthHandler(deps.DB),
		Docs:         swagger.Handler(),
		OpenAPI:      docHandler,
		Origins:      cfg.Server.Origins(),
		Production:   cfg.IsProduction(),
	}
	if cfg.Observability.Metrics.Enabled {
		routes.Metrics = middleware.NewMetrics()
		routes.MetricsPath = cfg.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(deps.Router, routes)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db, logger.L(), config.IsProduction())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx-backed pool and verifies it.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers gorm on the existing pool so both share connections.
func initGorm(db *sqlx.DB, lg *slog.Logger, production bool) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(lg, production),
	})
}
