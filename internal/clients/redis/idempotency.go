package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

// IdempotencyStore reserves client-supplied idempotency keys so a retried
// budget create or duplicate does not mint a second version. A reservation is
// first-writer-wins with a TTL; replays inside the window read back the stored
// resource id.
type IdempotencyStore interface {
	// Reserve claims key for resourceID. Returns the winning resource id and
	// whether this call made the claim.
	Reserve(ctx context.Context, key, resourceID string) (string, bool, error)
	// Lookup returns the resource id stored for key, or "" when unclaimed.
	Lookup(ctx context.Context, key string) (string, error)
	Close() error
}

type idempotencyStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewIdempotencyStore(log *logger.Logger) (IdempotencyStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse IDEMPOTENCY_TTL: %w", err)
		}
		ttl = parsed
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &idempotencyStore{
		log:    log.With("service", "RedisIdempotencyStore"),
		rdb:    rdb,
		prefix: "idem:",
		ttl:    ttl,
	}, nil
}

func (s *idempotencyStore) Reserve(ctx context.Context, key, resourceID string) (string, bool, error) {
	if s == nil || s.rdb == nil {
		return "", false, fmt.Errorf("idempotency store not initialized")
	}
	full := s.prefix + key
	claimed, err := s.rdb.SetNX(ctx, full, resourceID, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if claimed {
		return resourceID, true, nil
	}
	winner, err := s.rdb.Get(ctx, full).Result()
	if err != nil {
		return "", false, err
	}
	return winner, false, nil
}

func (s *idempotencyStore) Lookup(ctx context.Context, key string) (string, error) {
	if s == nil || s.rdb == nil {
		return "", fmt.Errorf("idempotency store not initialized")
	}
	val, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *idempotencyStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
