package persistence

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()

		assert.NoError(t, db.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed ping", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		assert.EqualError(t, db.Ping(), "connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenDialector(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		d, err := openDialector(&config.DatabaseConfig{
			Driver: "postgres",
			Host:   "db.internal",
			Port:   5432,
			User:   "fts",
			DBName: "fts",
		})
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("sqlite creates the parent directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data", "kiosk")
		d, err := openDialector(&config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(dir, "settings.db"),
		})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", d.Name())
		assert.DirExists(t, dir)
	})

	t.Run("sqlite in memory", func(t *testing.T) {
		d, err := openDialector(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", d.Name())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := openDialector(&config.DatabaseConfig{Driver: "oracle"})
		assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
	})
}

func TestOpenSQL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "settings.db")
	db, err := OpenSQL(&config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE probe (id INTEGER)`)
	assert.NoError(t, err)
	assert.FileExists(t, path)

	_, err = OpenSQL(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
