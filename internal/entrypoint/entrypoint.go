package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/session"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("Server exiting")
}

func Run(cfg *config.Config, version string) {
	logger.Init(cfg.Global.Environment, cfg.Global.LogLevel)
	if cfg.Global.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("version", version).Str("env", cfg.Global.Environment).Msg("Starting Bookshelf")

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	sessions, redisClient, err := newSessionManager(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Str("store", string(cfg.Session.Store)).Msg("Failed to initialize sessions")
	}

	ctx := context.Background()
	storage, err := covers.NewStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", string(cfg.Uploads.Driver)).Msg("Failed to initialize cover storage")
	}
	uploader := covers.NewUploader(storage, covers.NewProcessor(cfg.Uploads.MaxBytes))

	var uploadsDir string
	if local, ok := storage.(*covers.LocalStorage); ok {
		uploadsDir = local.Dir()
		log.Info().Str("dir", uploadsDir).Msg("Storing covers on disk")
	}

	csrfSecret, err := csrfSecret(cfg.Session.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate CSRF secret")
	}

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:         books.NewRepository(db.DB),
		Covers:        uploader,
		Sessions:      sessions,
		Database:      db,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		UploadsDir:    uploadsDir,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Session.SecureCookies,
		Version:       version,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	onShutdown := func(context.Context) {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing redis client")
			}
		}
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}

	Serve(router, cfg, onShutdown)
}

// newSessionManager opens the configured session store. The redis client,
// if any, is returned so it can be closed on shutdown.
func newSessionManager(cfg *config.Config, db *database.Database) (*session.Manager, *redis.Client, error) {
	var backends session.StoreBackends

	switch cfg.Session.Store {
	case config.SessionStoreSQLite, config.SessionStorePostgres:
		if string(cfg.Session.Store) != string(db.Driver()) {
			return nil, nil, fmt.Errorf("session store %q needs DATABASE_DRIVER=%s", cfg.Session.Store, cfg.Session.Store)
		}
		sqlDB, err := db.SQLDB()
		if err != nil {
			return nil, nil, err
		}
		backends.SQL = sqlDB
	case config.SessionStoreRedis:
		backends.Redis = session.NewRedisClient(cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backends.Redis.Ping(ctx).Err(); err != nil {
			backends.Redis.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	store, err := session.NewStore(cfg.Session.Store, backends)
	if err != nil {
		if backends.Redis != nil {
			backends.Redis.Close()
		}
		return nil, nil, err
	}

	log.Info().Str("store", string(cfg.Session.Store)).Msg("Sessions initialized")
	return session.NewManager(store, cfg.Session), backends.Redis, nil
}

// csrfSecret decodes a hex SESSION_SECRET, falls back to its raw bytes, and
// generates a random key when none is configured.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	log.Warn().Msg("Generated CSRF secret; set SESSION_SECRET to keep forms valid across restarts")
	return secret, nil
}
