package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/lingopod/catalog/pkg/catalog/api"
	"github.com/lingopod/catalog/pkg/catalog/config"
)

// DbConfig composes a postgres URL from discrete connection parts. It is the
// fallback when DATABASE_URL is not set; an empty host means no fallback.
type DbConfig struct {
	Host     string `env:"CATALOG_PG_HOST" env-default:""`
	Port     uint16 `env:"CATALOG_PG_PORT" env-default:"5432"`
	Name     string `env:"CATALOG_PG_NAME" env-default:"lingopod"`
	User     string `env:"CATALOG_PG_USER" env-default:"catalog"`
	Password string `env:"CATALOG_PG_PASSWORD" env-default:"pwd"`
}

func (c DbConfig) toDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// withDatabaseFallback applies the composed postgres URL when no DATABASE_URL
// was provided.
func withDatabaseFallback(db DbConfig) config.Option {
	return func(c *config.ServerConfig) error {
		if c.DatabaseType == "memory" && db.Host != "" {
			c.DatabaseType = "postgres"
			c.DatabaseURL = db.toDatabaseURL()
		}
		return nil
	}
}

func main() {
	var dbConfig DbConfig
	if err := cleanenv.ReadEnv(&dbConfig); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(
		config.WithEnv(""),
		withDatabaseFallback(dbConfig),
	)
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	logger := newLogger(serverConfig.Environment)
	slog.SetDefault(logger)

	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL, serverConfig.DBSchema); err != nil {
			logger.Error("Database not reachable", "err", err)
			os.Exit(1)
		}
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		logger.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	handler := api.NewHandler(svc, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(handler, serverConfig),
	}

	go func() {
		logger.Info("Catalog server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.Storage.Type,
			"level_scheme", serverConfig.LevelScheme)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func routes(handler *api.Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{
			"status":      "healthy",
			"environment": cfg.Environment,
			"database":    cfg.DatabaseType,
			"storage":     cfg.Storage.Type,
		})
	})

	r.Mount("/api/v1", handler.Routes())

	return r
}
