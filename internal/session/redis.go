package session

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis as JSON values with a server-side
// TTL, so any process behind the webhook sees the same dialogue state.
type RedisStore struct {
    rdb    *redis.Client
    ttl    time.Duration
    prefix string
}

// NewRedisStore returns a RedisStore writing under "sess:<user id>"
// with the given entry lifetime.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
    return &RedisStore{rdb: rdb, ttl: clampTTL(ttl), prefix: "sess"}
}

func (r *RedisStore) key(userID uint64) string {
    return fmt.Sprintf("%s:%d", r.prefix, userID)
}

// Get loads and decodes the user's session. A missing key is not an
// error; a corrupt value is, because it means two incompatible bot
// versions share one Redis database.
func (r *RedisStore) Get(ctx context.Context, userID uint64) (Session, bool, error) {
    raw, err := r.rdb.Get(ctx, r.key(userID)).Bytes()
    if err == redis.Nil {
        return New(), false, nil
    }
    if err != nil {
        return New(), false, err
    }
    var s Session
    if err := json.Unmarshal(raw, &s); err != nil {
        return New(), false, fmt.Errorf("decode session %d: %w", userID, err)
    }
    return s, true, nil
}

// Put stores the session, resetting the TTL.
func (r *RedisStore) Put(ctx context.Context, userID uint64, s Session) error {
    raw, err := json.Marshal(s)
    if err != nil {
        return err
    }
    return r.rdb.Set(ctx, r.key(userID), raw, r.ttl).Err()
}

// Delete clears the user's session.
func (r *RedisStore) Delete(ctx context.Context, userID uint64) error {
    return r.rdb.Del(ctx, r.key(userID)).Err()
}
