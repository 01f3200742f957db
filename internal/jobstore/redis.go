package jobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"video-upscaler-backend/internal/models"
)

const keyPrefix = "prediction:"

// Store holds the latest known status of each enhancement job.
type Store interface {
	// Upsert merges the record's non-empty fields unless the stored status
	// outranks it. It reports whether the write was applied.
	Upsert(ctx context.Context, rec models.JobRecord) (bool, error)
	// Get returns the stored record, or models.ErrNotFound.
	Get(ctx context.Context, id string) (models.JobRecord, error)
	Ping(ctx context.Context) error
}

// upsertScript applies a write only when the incoming status rank is not
// lower than the stored one, and never over a terminal record.
//
// KEYS[1] record key
// ARGV[1] incoming status, ARGV[2] ttl seconds (0 keeps no expiry),
// ARGV[3..] field/value pairs
var upsertScript = redis.NewScript(`
local function rank(s)
  if s == 'succeeded' or s == 'failed' then return 2 end
  if s == 'processing' then return 1 end
  return 0
end
local cur = redis.call('HGET', KEYS[1], 'status')
if cur then
  local cr = rank(cur)
  if cr == 2 then return 0 end
  if rank(ARGV[1]) < cr then return 0 end
end
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
local ttl = tonumber(ARGV[2])
if ttl and ttl > 0 then
  redis.call('EXPIRE', KEYS[1], ttl)
end
return 1
`)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Job Store. ttl bounds how long a record
// outlives its last write; zero keeps records forever.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), ttl), nil
}

func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func Key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Upsert(ctx context.Context, rec models.JobRecord) (bool, error) {
	if rec.ID == "" || rec.Status == "" {
		return false, &models.StoreError{Store: "redis", Op: "upsert", Err: errors.New("job id and status are required")}
	}

	fields := rec.Fields()
	args := make([]interface{}, 0, 2+len(fields)*2)
	args = append(args, string(rec.Status), int64(s.ttl/time.Second))
	for k, v := range fields {
		if v == "" {
			continue
		}
		args = append(args, k, v)
	}

	applied, err := upsertScript.Run(ctx, s.client, []string{Key(rec.ID)}, args...).Int()
	if err != nil {
		return false, &models.StoreError{Store: "redis", Op: "upsert", Err: err}
	}
	return applied == 1, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (models.JobRecord, error) {
	fields, err := s.client.HGetAll(ctx, Key(id)).Result()
	if err != nil {
		return models.JobRecord{}, &models.StoreError{Store: "redis", Op: "get", Err: err}
	}
	if len(fields) == 0 {
		return models.JobRecord{}, models.ErrNotFound
	}
	return models.JobRecordFromFields(id, fields), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &models.StoreError{Store: "redis", Op: "ping", Err: errors.Join(models.ErrStoreUnavailable, err)}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
