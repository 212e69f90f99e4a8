package initialize

import (
	"testing"

	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/database"
	"github.com/JimLiu0/provider-dashboard/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTablesAndRollback(t *testing.T) {
	cfg := config.Config{DatabaseDriver: config.DriverSQLite, DatabaseDbPath: ":memory:"}
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.New("test")

	require.NoError(t, InitializeTables(db, cfg, log))
	require.NoError(t, InitializeTables(db, cfg, log))
	assert.True(t, db.SQL.Migrator().HasTable("patients"))

	reverted, err := Rollback(db, 0, log)
	require.NoError(t, err)
	assert.Equal(t, len(database.Migrations.Migrations), reverted)
	assert.False(t, db.SQL.Migrator().HasTable("patients"))
}
