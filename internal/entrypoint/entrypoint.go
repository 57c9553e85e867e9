package entrypoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/config"
	"github.com/mrlokans/booktracker/internal/database"
	"github.com/mrlokans/booktracker/internal/database/books"
	http_controllers "github.com/mrlokans/booktracker/internal/http"
	"github.com/mrlokans/booktracker/internal/logging"
	"github.com/mrlokans/booktracker/internal/security"
	"github.com/mrlokans/booktracker/internal/services"
	"github.com/mrlokans/booktracker/internal/sessions"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains
// in-flight requests for up to the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	// kill -2 is syscall.SIGINT, plain kill sends syscall.SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-listenErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	log.Info("Shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("Server exiting")
	return nil
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Book Tracker",
		zap.String("version", version),
		zap.String("profile", string(cfg.Profile)),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		if cfg.Security.SecretKey == config.DefaultSecretKey {
			log.Warn("SECRET_KEY is not set, using the development default")
		}
		gin.SetMode(gin.DebugMode)
	}

	router, closeAll, err := Build(cfg, version, log)
	if err != nil {
		return err
	}

	return Serve(router, cfg, log, func(ctx context.Context) {
		closeAll()
	})
}

// Build opens the database and assembles the router. The returned func
// releases what Build opened.
func Build(cfg *config.Config, version string, log *zap.Logger) (*gin.Engine, func(), error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := database.NewDatabase(cfg.Database.URL, database.Options{LogLevel: logLevel, Logger: log})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	service := services.NewBookService(books.NewRepository(db.DB))

	// Sessions share the SQLite file; other backends keep them in memory.
	var sessionDB *sql.DB
	if db.Dialect == database.DialectSQLite {
		if sessionDB, err = db.SQLDB(); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to access database: %w", err)
		}
	}
	sm, err := sessions.NewSessionManager(sessionDB, cfg.Security)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize sessions: %w", err)
	}

	var csrfKey []byte
	if cfg.Security.CSRFEnabled {
		csrfKey = security.CSRFKey(cfg.Security.SecretKey)
	} else {
		log.Warn("CSRF protection is disabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		BookService:    service,
		Sessions:       sm,
		Database:       db,
		Logger:         log,
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.Security.SecureCookies,
		RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
		TemplatesPath:  cfg.UI.TemplatesPath,
		Version:        version,
	})

	closeAll := func() {
		sm.Close()
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}
	return router, closeAll, nil
}
