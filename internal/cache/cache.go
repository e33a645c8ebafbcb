// Package cache stores rendered artifacts. Rendering is deterministic, so an
// artifact can be reused for as long as its inputs hash to the same key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key hashes the given parts into a fixed-length key.
func Key(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Conf struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Redis struct {
	conf     Conf
	internal *redis.Client
}

var _ Cache = (*Redis)(nil)

func NewRedis(conf Conf) *Redis {
	return &Redis{
		conf: conf,
		internal: redis.NewClient(&redis.Options{
			Addr:     conf.Addr,
			Password: conf.Password,
			DB:       conf.DB,
		}),
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.internal.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.internal.Close()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.internal.Get(ctx, r.conf.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.internal.Set(ctx, r.conf.Prefix+key, value, ttl).Err()
}
