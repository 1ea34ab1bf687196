package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "xmlbridge:session:"
	fieldCreatedAt   = "created_at"
	fieldData        = "data"
	redisExpiryGrace = time.Minute
)

// evictScript deletes the key only when it still holds the given creation time
var evictScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], ARGV[1]) == ARGV[2] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisBackend shares sessions between replicas through redis. Keys also get a
// native expiry slightly past the TTL so abandoned keys never outlive a sweep gap.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to redis at addr
func NewRedisBackend(addr string, password string, db int) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func encodeCreatedAt(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func decodeCreatedAt(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n), nil
}

func (b *RedisBackend) Put(ctx context.Context, id string, rec Record, ttl time.Duration) error {
	key := redisKey(id)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldCreatedAt, encodeCreatedAt(rec.CreatedAt), fieldData, rec.Data)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl+redisExpiryGrace)
		}
		return nil
	})
	return err
}

func (b *RedisBackend) Get(ctx context.Context, id string) (Record, bool, error) {
	vals, err := b.client.HMGet(ctx, redisKey(id), fieldCreatedAt, fieldData).Result()
	if err != nil {
		return Record{}, false, err
	}
	created, ok1 := vals[0].(string)
	data, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return Record{}, false, nil
	}
	createdAt, err := decodeCreatedAt(created)
	if err != nil {
		return Record{}, false, err
	}
	return Record{CreatedAt: createdAt, Data: []byte(data)}, true, nil
}

func (b *RedisBackend) Evict(ctx context.Context, id string, createdAt time.Time) error {
	err := evictScript.Run(ctx, b.client, []string{redisKey(id)}, fieldCreatedAt, encodeCreatedAt(createdAt)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, redisKey(id)).Err()
}

func (b *RedisBackend) Scan(ctx context.Context, fn func(id string, createdAt time.Time) error) error {
	iter := b.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		created, err := b.client.HGet(ctx, key, fieldCreatedAt).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return err
		}
		createdAt, err := decodeCreatedAt(created)
		if err != nil {
			continue
		}
		if err := fn(key[len(redisKeyPrefix):], createdAt); err != nil {
			return err
		}
	}
	return iter.Err()
}
