package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder is a fluent wrapper over a single cache key. A nil client
// disables caching: Set and Delete do nothing and Get always misses.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  any
	ttl    time.Duration
	ctx    context.Context
}

func NewCacheBuilder(client CacheClient, key any) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    fmt.Sprint(key),
		ctx:    context.Background(),
	}
}

func (b *CacheBuilder) WithHashPattern(pattern string) *CacheBuilder {
	b.key = fmt.Sprintf(pattern, b.key)
	return b
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		b.ctx = ctx
	}
	return b
}

func (b *CacheBuilder) Key() string {
	return b.key
}

func (b *CacheBuilder) Set() error {
	if b.client == nil {
		return nil
	}

	data, err := json.Marshal(b.value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", b.key, err)
	}

	if b.ttl > 0 {
		seconds := int64(b.ttl / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		return b.client.Do(
			b.ctx,
			b.client.B().Set().Key(b.key).Value(string(data)).ExSeconds(seconds).Build(),
		).Error()
	}

	return b.client.Do(b.ctx, b.client.B().Set().Key(b.key).Value(string(data)).Build()).Error()
}

// Get decodes the cached value into dest and reports whether the key existed.
func (b *CacheBuilder) Get(dest any) (bool, error) {
	if b.client == nil {
		return false, nil
	}

	data, err := b.client.Do(b.ctx, b.client.B().Get().Key(b.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", b.key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value for %s: %w", b.key, err)
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.client == nil {
		return nil
	}
	return b.client.Do(b.ctx, b.client.B().Del().Key(b.key).Build()).Error()
}

// Generation reads a counter that versions cache entries. A missing key or a
// nil client reads as zero.
func Generation(ctx context.Context, client CacheClient, key string) (int64, error) {
	if client == nil {
		return 0, nil
	}

	n, err := client.Do(ctx, client.B().Get().Key(key).Build()).AsInt64()
	if valkey.IsValkeyNil(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation %s: %w", key, err)
	}
	return n, nil
}

// BumpGeneration increments the counter so entries written under older
// generations are never read again.
func BumpGeneration(ctx context.Context, client CacheClient, key string) (int64, error) {
	if client == nil {
		return 0, nil
	}

	n, err := client.Do(ctx, client.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to bump generation %s: %w", key, err)
	}
	return n, nil
}

// Patient cache keys. List snapshots live under "patients:all:<generation>".
const (
	PatientsHashPattern      = "patients:%s"
	PatientListCacheKey      = "all"
	PatientListGenerationKey = "patients:list_generation"
)
