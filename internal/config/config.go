package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type SessionStore string

const (
	SessionStoreMemory   SessionStore = "memory"
	SessionStoreSQLite   SessionStore = "sqlite"
	SessionStorePostgres SessionStore = "postgres"
	SessionStoreRedis    SessionStore = "redis"
)

type UploadDriver string

const (
	UploadDriverLocal UploadDriver = "local"
	UploadDriverMinIO UploadDriver = "minio"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Session
		Redis
		UI
		Uploads
		MinIO
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		Environment              string // development, production
		LogLevel                 string
	}
	Database struct {
		Driver   DatabaseDriver
		Path     string // sqlite file path
		URL      string // postgres DSN
		LogLevel string // gorm logger level: silent, error, warn, info
	}
	Session struct {
		Store         SessionStore
		Lifetime      time.Duration
		Secret        string // CSRF key; generated when empty
		SecureCookies bool   // Set to false for local dev without HTTPS
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	UI struct {
		TemplatesPath string // empty means embedded templates
		StaticPath    string // empty means embedded assets
	}
	Uploads struct {
		Driver   UploadDriver
		Dir      string
		MaxBytes int64
	}
	MinIO struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		PublicURL string // base URL covers are served from; defaults to the endpoint
	}
)

// sessionStore falls back to a store living next to the books table.
func sessionStore(v *viper.Viper, driver DatabaseDriver) SessionStore {
	if store := v.GetString("SESSION_STORE"); store != "" {
		return SessionStore(store)
	}
	if driver == DatabaseDriverPostgres {
		return SessionStorePostgres
	}
	return SessionStoreSQLite
}

func NewConfig() *Config {
	// A missing .env file is fine, the process environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")
	v.SetDefault("database_log_level", "warn")

	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secret", "") // Auto-generated if empty
	v.SetDefault("secure_cookies", false)

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")

	v.SetDefault("upload_driver", string(UploadDriverLocal))
	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("upload_max_bytes", DefaultUploadMaxBytes)

	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "minioadmin")
	v.SetDefault("minio_secret_key", "minioadmin")
	v.SetDefault("minio_bucket", "covers")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_public_url", "")

	driver := DatabaseDriver(v.GetString("DATABASE_DRIVER"))

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			Environment:              v.GetString("APP_ENV"),
			LogLevel:                 v.GetString("LOG_LEVEL"),
		},
		Database: Database{
			Driver:   driver,
			Path:     v.GetString("DATABASE_PATH"),
			URL:      v.GetString("DATABASE_URL"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Session: Session{
			Store:         sessionStore(v, driver),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			Secret:        v.GetString("SESSION_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Uploads: Uploads{
			Driver:   UploadDriver(v.GetString("UPLOAD_DRIVER")),
			Dir:      v.GetString("UPLOAD_DIR"),
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		MinIO: MinIO{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			PublicURL: v.GetString("MINIO_PUBLIC_URL"),
		},
	}
}
