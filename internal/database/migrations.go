package database

import (
	migrate "github.com/rubenv/sql-migrate"
)

// Migrations is the schema of the patient store. Column types stay within
// what both sqlite and postgres accept.
var Migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "20250101000000_create_patients",
			Up: []string{`
CREATE TABLE IF NOT EXISTS patients (
	id             VARCHAR(64)  PRIMARY KEY,
	first_name     VARCHAR(255) NOT NULL,
	middle_name    VARCHAR(255),
	last_name      VARCHAR(255) NOT NULL,
	date_of_birth  VARCHAR(10)  NOT NULL,
	status         VARCHAR(20)  NOT NULL,
	street_address VARCHAR(255) NOT NULL,
	city           VARCHAR(255) NOT NULL,
	state          VARCHAR(32)  NOT NULL,
	zip_code       VARCHAR(5)   NOT NULL,
	notes          TEXT,
	created_at     TIMESTAMP    NOT NULL
)`},
			Down: []string{`DROP TABLE IF EXISTS patients`},
		},
		{
			Id:   "20250101000100_index_patients_created_at",
			Up:   []string{`CREATE INDEX IF NOT EXISTS idx_patients_created_at ON patients (created_at)`},
			Down: []string{`DROP INDEX IF EXISTS idx_patients_created_at`},
		},
	},
}

// Migrate applies (up) or rolls back (down) migrations and returns how many ran.
// max limits the count; zero means all.
func (s *DB) Migrate(direction migrate.MigrationDirection, max int) (int, error) {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.ExecMax(sqlDB, s.Dialect, Migrations, direction, max)
	if err != nil {
		return applied, log.Err("failed to run migrations", err, "dialect", s.Dialect)
	}

	log.Info("Migrations complete", "applied", applied, "direction", direction)
	return applied, nil
}
