package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/logger"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMemoryDB(t *testing.T) DB {
	t.Helper()

	db, err := New(config.Config{DatabaseDriver: config.DriverSQLite, DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_InMemoryWithoutCache(t *testing.T) {
	db, err := New(config.Config{
		DatabaseDriver:    config.DriverSQLite,
		DatabaseDbPath:    ":memory:",
		DatabaseCachePort: 6379,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NotNil(t, db.SQL)
	assert.Nil(t, db.Cache.General)
	assert.Nil(t, db.Cache.Patients)
	assert.Equal(t, "sqlite3", db.Dialect)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  config.Config
		wantErr string
	}{
		{
			name:    "empty sqlite path",
			config:  config.Config{DatabaseDriver: config.DriverSQLite},
			wantErr: "database path is empty",
		},
		{
			name:    "empty postgres dsn",
			config:  config.Config{DatabaseDriver: config.DriverPostgres},
			wantErr: "database dsn is empty",
		},
		{
			name:    "unknown driver",
			config:  config.Config{DatabaseDriver: "oracle", DatabaseDbPath: ":memory:"},
			wantErr: "unsupported database driver",
		},
		{
			name: "cache address without port",
			config: config.Config{
				DatabaseDriver:       config.DriverSQLite,
				DatabaseDbPath:       ":memory:",
				DatabaseCacheAddress: "localhost",
			},
			wantErr: "cache address or port is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitializeSQLiteDB_CreatesDirectory(t *testing.T) {
	db := &DB{log: logger.New("test")}
	dbPath := filepath.Join(t.TempDir(), "nested", "patients.db")

	err := db.initializeSQLiteDB(&gorm.Config{}, config.Config{DatabaseDbPath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.FileExists(t, dbPath)
}

func TestMigrate_UpAndDown(t *testing.T) {
	db := newMemoryDB(t)

	applied, err := db.Migrate(migrate.Up, 0)
	require.NoError(t, err)
	assert.Equal(t, len(Migrations.Migrations), applied)
	assert.True(t, db.SQL.Migrator().HasTable("patients"))

	applied, err = db.Migrate(migrate.Up, 0)
	require.NoError(t, err)
	assert.Zero(t, applied, "second run applies nothing")

	applied, err = db.Migrate(migrate.Down, 0)
	require.NoError(t, err)
	assert.Equal(t, len(Migrations.Migrations), applied)
	assert.False(t, db.SQL.Migrator().HasTable("patients"))
}

func TestCacheBuilder_NilClientIsNoop(t *testing.T) {
	builder := NewCacheBuilder(nil, "all").
		WithHashPattern("patients:%s").
		WithContext(context.Background())

	assert.Equal(t, "patients:all", builder.Key())
	assert.NoError(t, builder.WithStruct([]string{"a"}).Set())

	var dest []string
	found, err := builder.Get(&dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, dest)

	assert.NoError(t, builder.Delete())
}

func TestGeneration_NilClient(t *testing.T) {
	ctx := context.Background()

	generation, err := Generation(ctx, nil, PatientListGenerationKey)
	assert.NoError(t, err)
	assert.Zero(t, generation)

	generation, err = BumpGeneration(ctx, nil, PatientListGenerationKey)
	assert.NoError(t, err)
	assert.Zero(t, generation)
}

func TestClose_WithoutConnections(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.Close())
	assert.NoError(t, db.FlushAllCaches())
}
