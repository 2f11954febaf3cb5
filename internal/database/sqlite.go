package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is mattn/go-sqlite3 with a Unicode aware lower().
const sqliteDriverName = "sqlite3_bookshelf"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// The builtin lower() only folds ASCII, so "Über" would never
			// match a search for "über".
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// SQLiteDialector opens path with the driver every sqlite connection in
// the app should use.
func SQLiteDialector(path string) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        path,
	})
}
