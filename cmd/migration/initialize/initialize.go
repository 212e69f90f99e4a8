package initialize

import (
	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/database"
	"github.com/JimLiu0/provider-dashboard/internal/logger"

	migrate "github.com/rubenv/sql-migrate"
)

// InitializeTables applies pending migrations and checks the patient table is
// in place.
func InitializeTables(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing tables", "driver", config.DatabaseDriver)

	applied, err := db.Migrate(migrate.Up, 0)
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}

	if !db.SQL.Migrator().HasTable("patients") {
		return log.ErrMsg("patients table missing after migration")
	}

	log.Info("Table initialization complete", "applied", applied)
	return nil
}

// Rollback reverts up to steps migrations; zero reverts all of them.
func Rollback(db database.DB, steps int, log logger.Logger) (int, error) {
	log = log.Function("Rollback")

	reverted, err := db.Migrate(migrate.Down, steps)
	if err != nil {
		return reverted, log.Err("failed to roll back migrations", err)
	}

	log.Info("Rollback complete", "reverted", reverted)
	return reverted, nil
}
