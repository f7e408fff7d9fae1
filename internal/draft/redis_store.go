// Package draft provides local persistence for in-progress edits and the
// last-record seed used to prefill brand-new records.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"siteval/api/internal/schema"
)

// Snapshot is one user's unsaved editing state. It is only valid for the
// record identified by RecordID; a snapshot loaded against a different
// record is stale and must be ignored by the caller.
type Snapshot struct {
	RecordID string               `json:"recordId"`
	Fields   schema.FlatFieldSet  `json:"fields"`
	Custom   []schema.CustomField `json:"customFields,omitempty"`
	SavedAt  time.Time            `json:"savedAt"`
}

// Seed is the single process-wide snapshot of the last successfully saved
// record, read only when a brand-new record is opened. It is overwritten on
// every successful save and never explicitly deleted.
type Seed struct {
	Fields       schema.FlatFieldSet  `json:"fields"`
	Custom       []schema.CustomField `json:"customFields,omitempty"`
	BankName     string               `json:"bankName"`
	City         string               `json:"city"`
	DSA          string               `json:"dsa"`
	EngineerName string               `json:"engineerName"`
	SavedAt      time.Time            `json:"savedAt"`
}

// ErrNotFound is returned when no draft or seed exists for the key.
var ErrNotFound = errors.New("draft: not found")

// Drafts are per-user scratch state; the identity check already guards
// correctness, the TTL just bounds storage.
const draftTTL = 14 * 24 * time.Hour

// RedisStore implements draft and seed storage using Redis.
type RedisStore struct {
	client      *redis.Client
	draftPrefix string
	seedKey     string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:      client,
		draftPrefix: "siteval:draft:",
		seedKey:     "siteval:seed:last",
	}
}

func (s *RedisStore) draftKey(userID string) string {
	return s.draftPrefix + userID
}

// SaveDraft stores a user's draft snapshot. Callers treat failures as
// best-effort; the remote record remains authoritative.
func (s *RedisStore) SaveDraft(ctx context.Context, userID string, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, s.draftKey(userID), payload, draftTTL).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// LoadDraft retrieves a user's draft snapshot, or ErrNotFound.
func (s *RedisStore) LoadDraft(ctx context.Context, userID string) (Snapshot, error) {
	payload, err := s.client.Get(ctx, s.draftKey(userID)).Result()
	if err == redis.Nil {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load draft: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return snap, nil
}

// ClearDraft removes a user's draft snapshot. Clearing a missing draft is
// not an error.
func (s *RedisStore) ClearDraft(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// SaveSeed overwrites the last-record seed. No TTL: the seed lives until
// the next save replaces it.
func (s *RedisStore) SaveSeed(ctx context.Context, seed Seed) error {
	payload, err := json.Marshal(seed)
	if err != nil {
		return fmt.Errorf("marshal seed: %w", err)
	}
	if err := s.client.Set(ctx, s.seedKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save seed: %w", err)
	}
	return nil
}

// LoadSeed retrieves the last-record seed, or ErrNotFound.
func (s *RedisStore) LoadSeed(ctx context.Context) (Seed, error) {
	payload, err := s.client.Get(ctx, s.seedKey).Result()
	if err == redis.Nil {
		return Seed{}, ErrNotFound
	}
	if err != nil {
		return Seed{}, fmt.Errorf("load seed: %w", err)
	}

	var seed Seed
	if err := json.Unmarshal([]byte(payload), &seed); err != nil {
		return Seed{}, fmt.Errorf("unmarshal seed: %w", err)
	}
	return seed, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
