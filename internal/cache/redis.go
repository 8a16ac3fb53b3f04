package cache

import (
    "context"
    "time"

    "github.com/redis/go-redis/v9"
)

type Redis struct{ rdb *redis.Client }

func NewRedis(addr string, password string, db int) *Redis {
    return &Redis{rdb: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

func (r *Redis) Ping(ctx context.Context) error {
    return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
    b, err := r.rdb.Get(ctx, key).Bytes()
    if err != nil { return nil, false }
    return b, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
    _ = r.rdb.Set(ctx, key, val, ttl).Err()
}
