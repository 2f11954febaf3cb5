package session

import (
	"database/sql"
	"fmt"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/redis/go-redis/v9"

	"github.com/mrlokans/bookshelf/internal/config"
)

const sqliteSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

const postgresSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BYTEA NOT NULL,
	expiry TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry);`

// StoreBackends holds the connections a session store may be built on.
// Only the one matching the requested kind needs to be set.
type StoreBackends struct {
	SQL   *sql.DB
	Redis *redis.Client
}

// NewStore builds the scs store for kind, creating the sessions table for
// SQL backed stores when it does not exist yet.
func NewStore(kind config.SessionStore, backends StoreBackends) (scs.Store, error) {
	switch kind {
	case config.SessionStoreMemory, "":
		return memstore.New(), nil

	case config.SessionStoreSQLite:
		if backends.SQL == nil {
			return nil, fmt.Errorf("sqlite session store needs a database connection")
		}
		if _, err := backends.SQL.Exec(sqliteSessionsTable); err != nil {
			return nil, fmt.Errorf("failed to create sessions table: %w", err)
		}
		return sqlite3store.New(backends.SQL), nil

	case config.SessionStorePostgres:
		if backends.SQL == nil {
			return nil, fmt.Errorf("postgres session store needs a database connection")
		}
		if _, err := backends.SQL.Exec(postgresSessionsTable); err != nil {
			return nil, fmt.Errorf("failed to create sessions table: %w", err)
		}
		return postgresstore.New(backends.SQL), nil

	case config.SessionStoreRedis:
		if backends.Redis == nil {
			return nil, fmt.Errorf("redis session store needs a redis client")
		}
		return goredisstore.New(backends.Redis), nil

	default:
		return nil, fmt.Errorf("unsupported session store %q", kind)
	}
}

// NewRedisClient opens a go-redis client for the redis session store.
func NewRedisClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
