package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/database"
	. "github.com/JimLiu0/provider-dashboard/internal/models"
	"github.com/JimLiu0/provider-dashboard/internal/services"

	"github.com/google/uuid"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDbPath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(migrate.Up, 0)
	require.NoError(t, err)
	return db
}

func samplePatient(first string) *Patient {
	return &Patient{
		FirstName:     first,
		LastName:      "Doe",
		DateOfBirth:   "1990-05-17",
		Status:        StatusActive,
		StreetAddress: "1 Main St",
		City:          "Austin",
		State:         "Texas",
		ZipCode:       "78701",
	}
}

func TestPatientRepository_InsertAssignsIdentity(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))

	input := samplePatient("Ada")
	input.ID = "client-supplied"

	before := time.Now().UTC().Add(-time.Second)
	stored, err := repo.Insert(context.Background(), input)
	require.NoError(t, err)

	parsed, err := uuid.Parse(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.True(t, stored.CreatedAt.After(before))
	assert.Equal(t, "client-supplied", input.ID, "input is not mutated")
	assert.Equal(t, "Ada", stored.FirstName)
}

func TestPatientRepository_SelectAll(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	empty, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"Ada", "Grace", "Linus"} {
		_, err := repo.Insert(ctx, samplePatient(name))
		require.NoError(t, err)
	}

	patients, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 3)

	names := []string{}
	for _, p := range patients {
		names = append(names, p.FirstName)
		assert.Equal(t, "1990-05-17", p.DateOfBirth)
		assert.Equal(t, StatusActive, p.Status)
	}
	assert.ElementsMatch(t, []string{"Ada", "Grace", "Linus"}, names)
}

func TestPatientRepository_StoreErrors(t *testing.T) {
	tests := []struct {
		name string
		op   string
		run  func(repo PatientRepository) error
	}{
		{
			name: "insert",
			op:   OpInsert,
			run: func(repo PatientRepository) error {
				_, err := repo.Insert(context.Background(), samplePatient("Ada"))
				return err
			},
		},
		{
			name: "select all",
			op:   OpSelectAll,
			run: func(repo PatientRepository) error {
				_, err := repo.SelectAll(context.Background())
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			_, err := db.Migrate(migrate.Down, 0)
			require.NoError(t, err)

			err = tt.run(NewPatientRepository(db))
			require.Error(t, err)

			var storeErr *StoreError
			require.True(t, errors.As(err, &storeErr))
			assert.Equal(t, tt.op, storeErr.Op)
			assert.NotNil(t, errors.Unwrap(storeErr))
		})
	}
}

func TestPatientRepository_InsertJoinsTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository(db)
	transactions := services.NewTransactionService(db)

	err := transactions.Execute(context.Background(), func(ctx context.Context) error {
		if _, err := repo.Insert(ctx, samplePatient("Ada")); err != nil {
			return err
		}
		inside, err := repo.SelectAll(ctx)
		require.NoError(t, err)
		assert.Len(t, inside, 1)
		return errors.New("abort")
	})
	require.Error(t, err)

	patients, err := repo.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, patients)
}

type memoryListCache struct {
	generation int64
	snapshots  map[int64][]Patient
	loads      int
	hits       int
}

func newMemoryListCache() *memoryListCache {
	return &memoryListCache{snapshots: map[int64][]Patient{}}
}

func (c *memoryListCache) Generation(context.Context) (int64, error) {
	return c.generation, nil
}

func (c *memoryListCache) Load(_ context.Context, generation int64, dest *[]Patient) (bool, error) {
	c.loads++
	snapshot, ok := c.snapshots[generation]
	if !ok {
		return false, nil
	}
	c.hits++
	*dest = append([]Patient(nil), snapshot...)
	return true, nil
}

func (c *memoryListCache) Save(_ context.Context, generation int64, patients []Patient) error {
	c.snapshots[generation] = append([]Patient(nil), patients...)
	return nil
}

func (c *memoryListCache) bump() {
	c.generation++
}

func TestPatientRepository_SelectAllReadsThroughCache(t *testing.T) {
	cache := newMemoryListCache()
	repo := newPatientRepository(newTestDB(t), cache)
	ctx := context.Background()

	_, err := repo.Insert(ctx, samplePatient("Ada"))
	require.NoError(t, err)

	first, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	second, err := repo.SelectAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.loads)
	assert.Equal(t, 1, cache.hits)
}

func TestPatientRepository_StaleSnapshotAfterInvalidationIsIgnored(t *testing.T) {
	cache := newMemoryListCache()
	repo := newPatientRepository(newTestDB(t), cache)
	ctx := context.Background()

	before, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Empty(t, before)
	staleGeneration := cache.generation

	_, err = repo.Insert(ctx, samplePatient("Ada"))
	require.NoError(t, err)
	cache.bump()

	// A reader that queried before the insert finishes after the invalidation.
	require.NoError(t, cache.Save(ctx, staleGeneration, []Patient{}))

	after, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Ada", after[0].FirstName)
}

func TestPatientRepository_TransactionBypassesCache(t *testing.T) {
	db := newTestDB(t)
	cache := newMemoryListCache()
	repo := newPatientRepository(db, cache)

	err := services.NewTransactionService(db).Execute(context.Background(), func(ctx context.Context) error {
		_, err := repo.SelectAll(ctx)
		return err
	})
	require.NoError(t, err)

	assert.Zero(t, cache.loads)
	assert.Empty(t, cache.snapshots)
}

func TestStoreError_Message(t *testing.T) {
	err := &StoreError{Op: OpInsert, Err: errors.New("disk full")}
	assert.Equal(t, "patient store insert failed: disk full", err.Error())
}
