package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/busbooking/config"
	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/session"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     redis.UniversalClient
	routesTTL  time.Duration
	sessionTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, routesTTL, sessionTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		routesTTL,
		sessionTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, routesTTL, sessionTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, routesTTL: routesTTL, sessionTTL: sessionTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetRoutes returns nil, nil on a cache miss.
func (c *RedisCache) GetRoutes(ctx context.Context, variant string) ([]domain.Route, error) {
	data, err := c.client.Get(ctx, routesKey(variant)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, variant string, routes []domain.Route) error {
	payload, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routesKey(variant), payload, c.routesTTL).Err()
}

// AcquireSubmitGuard claims the (session, route, seats) slot for ttl. It
// reports false when the same selection was already submitted in the window.
func (c *RedisCache) AcquireSubmitGuard(ctx context.Context, sessionID, routeID string, seats []int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submitGuardKey(sessionID, routeID, seats), "submitted", ttl).Result()
}

func (c *RedisCache) ReleaseSubmitGuard(ctx context.Context, sessionID, routeID string, seats []int) error {
	return c.client.Del(ctx, submitGuardKey(sessionID, routeID, seats)).Err()
}

// Save implements session.Store.
func (c *RedisCache) Save(ctx context.Context, s *session.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := c.sessionTTL
	if !s.ExpiresAt.IsZero() {
		left := time.Until(s.ExpiresAt)
		if left <= 0 {
			return session.ExpiredCredential()
		}
		if ttl <= 0 || left < ttl {
			ttl = left
		}
	}
	return c.client.Set(ctx, sessionKey(s.ID), payload, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

var _ session.Store = (*RedisCache)(nil)

func routesKey(variant string) string {
	if variant == "" {
		return "cache:routes"
	}
	return "cache:routes:" + variant
}

func sessionKey(id string) string {
	return "session:" + id
}

func submitGuardKey(sessionID, routeID string, seats []int) string {
	sorted := append([]int(nil), seats...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ",")))
	return fmt.Sprintf("guard:session:%s:route:%s:seats:%s", sessionID, routeID, hex.EncodeToString(sum[:8]))
}
