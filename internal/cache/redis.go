package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps the flight schedule and the simulator lease. Seat state is
// never cached; Postgres row locks are its only source of truth.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	owner      string
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration, owner string) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
		owner,
	)
}

func NewRedisCacheWithClient(client *redis.Client, flightsTTL time.Duration, owner string) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL, owner: owner}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFlights returns nil, nil on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// acquireScript extends the lease when this process already owns it and
// takes it only when the key is free otherwise.
var acquireScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
	return 1
end
if redis.call("SET", KEYS[1], ARGV[1], "NX", "PX", ARGV[2]) then
	return 1
end
return 0`)

// AcquireLease takes a named lease for ttl if nobody else holds it. Calling it
// again while still the owner succeeds and restarts the ttl.
func (c *RedisCache) AcquireLease(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	n, err := acquireScript.Run(ctx, c.client, []string{leaseKey(name)}, c.owner, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// releaseScript deletes the lease only if this process still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (c *RedisCache) ReleaseLease(ctx context.Context, name string) error {
	return releaseScript.Run(ctx, c.client, []string{leaseKey(name)}, c.owner).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func leaseKey(name string) string {
	return fmt.Sprintf("lease:%s", name)
}
