package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewSQLiteDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_MigratesBooks(t *testing.T) {
	db := setupTestDB(t)

	assert.True(t, db.DB.Migrator().HasTable(&entities.Book{}))
	assert.True(t, db.DB.Migrator().HasColumn(&entities.Book{}, "cover_blurhash"))
	assert.Equal(t, config.DatabaseDriverSQLite, db.Driver())
	assert.NoError(t, db.Ping())
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNewDatabase_PostgresRequiresURL(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: config.DatabaseDriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestDatabase_SQLDB(t *testing.T) {
	db := setupTestDB(t)

	sqlDB, err := db.SQLDB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Info, gormLogLevel("INFO"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}

func TestSQLite_LowerFoldsUnicode(t *testing.T) {
	db := setupTestDB(t)

	var folded string
	require.NoError(t, db.DB.Raw("SELECT lower(?)", "ÜBER ÉMILE").Scan(&folded).Error)
	assert.Equal(t, "über émile", folded)

	var isNull bool
	require.NoError(t, db.DB.Raw("SELECT lower(NULL) IS NULL").Scan(&isNull).Error)
	assert.True(t, isNull)
}

func TestUnicodeLower(t *testing.T) {
	assert.Equal(t, "ärger", unicodeLower("ÄRGER"))
	assert.Equal(t, "ärger", unicodeLower([]byte("ÄRGER")))
	assert.Nil(t, unicodeLower([]byte(nil)))
	assert.Equal(t, int64(7), unicodeLower(int64(7)))
}
