package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/JimLiu0/provider-dashboard/config"
	logg "github.com/JimLiu0/provider-dashboard/internal/logger"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	General  CacheClient
	Patients CacheClient
}

type DB struct {
	SQL     *gorm.DB
	Cache   Cache
	Dialect string
	log     logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database", "driver", config.DatabaseDriver)
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		_ = db.Close()
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func newGormConfig() *gorm.Config {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	return &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	}
}

func (s *DB) initializeDB(config config.Config) error {
	gormConfig := newGormConfig()

	switch config.DatabaseDriver {
	case "", "sqlite":
		return s.initializeSQLiteDB(gormConfig, config)
	case "postgres":
		return s.initializePostgresDB(gormConfig, config)
	default:
		return s.log.Function("initializeDB").
			Error("unsupported database driver", "driver", config.DatabaseDriver)
	}
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	dbPath := config.DatabaseDbPath
	if dbPath == "" {
		return log.Error("database path is empty", "dbPath", dbPath)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		log.Info("Creating database directory", "dir", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return log.Err("failed to create database directory", err, "dir", dir)
		}
	}

	log.Info("Connecting with GORM", "dbPath", dbPath)
	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	if err := s.configurePool(db, dbPath == ":memory:"); err != nil {
		return err
	}

	s.SQL = db
	s.Dialect = "sqlite3"
	return nil
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	if config.DatabaseDSN == "" {
		return log.Error("database dsn is empty")
	}

	log.Info("Connecting with GORM to postgres")
	db, err := gorm.Open(postgres.Open(config.DatabaseDSN), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	if err := s.configurePool(db, false); err != nil {
		return err
	}

	s.SQL = db
	s.Dialect = "postgres"
	return nil
}

// configurePool pins in-memory sqlite to one connection; every new connection
// would otherwise see its own empty database.
func (s *DB) configurePool(db *gorm.DB, inMemory bool) error {
	log := s.log.Function("configurePool")

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return nil
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" {
		log.Warn("cache is not configured, continuing without cache")
		return nil
	}

	if config.DatabaseCachePort <= 0 {
		return log.Error(
			"cache address or port is empty",
			"address", config.DatabaseCacheAddress,
			"port", config.DatabaseCachePort,
		)
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	general, err := newCacheClient(address, 0)
	if err != nil {
		return log.Err("failed to create general cache client", err, "address", address)
	}

	patients, err := newCacheClient(address, 1)
	if err != nil {
		general.Close()
		return log.Err("failed to create patients cache client", err, "address", address)
	}

	s.Cache = Cache{General: general, Patients: patients}
	log.Info("Connected to cache", "address", address)
	return nil
}

func newCacheClient(address string, db int) (CacheClient, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    db,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	if s.Cache.General != nil {
		s.Cache.General.Close()
	}

	if s.Cache.Patients != nil {
		s.Cache.Patients.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cacheClients := []struct {
		client CacheClient
		name   string
	}{
		{s.Cache.General, "General"},
		{s.Cache.Patients, "Patients"},
	}

	for _, cache := range cacheClients {
		if cache.client == nil {
			continue
		}
		if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Successfully flushed cache database", "cache", cache.name)
	}

	return nil
}
