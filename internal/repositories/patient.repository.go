package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/JimLiu0/provider-dashboard/internal/database"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	. "github.com/JimLiu0/provider-dashboard/internal/models"
	"github.com/JimLiu0/provider-dashboard/internal/services"

	"gorm.io/gorm"
)

const (
	OpInsert    = "insert"
	OpSelectAll = "select_all"

	patientListTTL = 5 * time.Minute
)

// StoreError reports a failed store operation. It is never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("patient store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type PatientRepository interface {
	Insert(ctx context.Context, patient *Patient) (*Patient, error)
	SelectAll(ctx context.Context) ([]Patient, error)
}

type patientRepository struct {
	db    database.DB
	cache listCache
	log   logger.Logger
}

func NewPatientRepository(db database.DB) PatientRepository {
	var cache listCache
	if db.Cache.Patients != nil {
		cache = valkeyListCache{client: db.Cache.Patients}
	}
	return newPatientRepository(db, cache)
}

func newPatientRepository(db database.DB, cache listCache) *patientRepository {
	return &patientRepository{
		db:    db,
		cache: cache,
		log:   logger.New("patientRepository"),
	}
}

func (r *patientRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// listCache stores patient list snapshots keyed by generation. A reader
// captures the generation before querying the database, so a snapshot that
// races with an invalidation lands under a generation nobody reads anymore.
type listCache interface {
	Generation(ctx context.Context) (int64, error)
	Load(ctx context.Context, generation int64, dest *[]Patient) (bool, error)
	Save(ctx context.Context, generation int64, patients []Patient) error
}

type valkeyListCache struct {
	client database.CacheClient
}

func (c valkeyListCache) entry(ctx context.Context, generation int64) *database.CacheBuilder {
	key := fmt.Sprintf("%s:%d", database.PatientListCacheKey, generation)
	return database.NewCacheBuilder(c.client, key).
		WithHashPattern(database.PatientsHashPattern).
		WithContext(ctx)
}

func (c valkeyListCache) Generation(ctx context.Context) (int64, error) {
	return database.Generation(ctx, c.client, database.PatientListGenerationKey)
}

func (c valkeyListCache) Load(ctx context.Context, generation int64, dest *[]Patient) (bool, error) {
	return c.entry(ctx, generation).Get(dest)
}

func (c valkeyListCache) Save(ctx context.Context, generation int64, patients []Patient) error {
	return c.entry(ctx, generation).WithStruct(patients).WithTTL(patientListTTL).Set()
}

// Insert stores a validated patient. The store assigns id and created_at; the
// returned value carries both.
func (r *patientRepository) Insert(ctx context.Context, patient *Patient) (*Patient, error) {
	log := r.log.Function("Insert")

	record := *patient
	record.ID = ""
	record.CreatedAt = time.Time{}

	if err := r.getDB(ctx).Create(&record).Error; err != nil {
		log.Er("failed to insert patient", err)
		return nil, &StoreError{Op: OpInsert, Err: err}
	}

	log.Info("Patient inserted", "id", record.ID)
	return &record, nil
}

// SelectAll returns every stored patient in insertion order. Reads go through
// the list cache when one is configured; cache failures fall back to the
// database.
func (r *patientRepository) SelectAll(ctx context.Context) ([]Patient, error) {
	log := r.log.Function("SelectAll")

	_, inTransaction := services.GetTransaction(ctx)
	cacheable := r.cache != nil && !inTransaction

	var generation int64
	if cacheable {
		var err error
		generation, err = r.cache.Generation(ctx)
		if err != nil {
			log.Warn("failed to read patient list generation", "error", err)
			cacheable = false
		}
	}

	if cacheable {
		var cached []Patient
		found, err := r.cache.Load(ctx, generation, &cached)
		if err != nil {
			log.Warn("failed to read patient list cache", "error", err)
		}
		if found {
			return cached, nil
		}
	}

	patients := []Patient{}
	if err := r.getDB(ctx).Order("created_at ASC").Order("id ASC").Find(&patients).Error; err != nil {
		log.Er("failed to select patients", err)
		return nil, &StoreError{Op: OpSelectAll, Err: err}
	}

	if cacheable {
		if err := r.cache.Save(ctx, generation, patients); err != nil {
			log.Warn("failed to cache patient list", "error", err)
		}
	}

	return patients, nil
}
