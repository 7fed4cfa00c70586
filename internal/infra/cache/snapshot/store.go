package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

const keyPrefix = "occupancy:lot:"

// Store хранит последний опубликованный снимок каждого лота в Redis
type Store struct {
	client RedisClient
	ttl    time.Duration
}

// NewStore создает хранилище снимков. ttl <= 0 означает хранение без срока.
func NewStore(client RedisClient, ttl time.Duration) *Store {
	if ttl < 0 {
		ttl = 0
	}
	return &Store{client: client, ttl: ttl}
}

// Save перезаписывает последний снимок лота
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	payload, err := json.Marshal(toRecord(snapshot))
	if err != nil {
		return fmt.Errorf("%w: lot=%d: %v", ErrEncode, snapshot.LotID, err)
	}

	if err := s.client.Set(ctx, key(snapshot.LotID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set lot=%d: %v", ErrRedis, snapshot.LotID, err)
	}
	return nil
}

// Get возвращает последний снимок лота
func (s *Store) Get(ctx context.Context, lotID int64) (*domain.Snapshot, error) {
	payload, err := s.client.Get(ctx, key(lotID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get lot=%d: %v", ErrRedis, lotID, err)
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: lot=%d: %v", ErrDecode, lotID, err)
	}
	return rec.toDomain(), nil
}

func key(lotID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, lotID)
}
