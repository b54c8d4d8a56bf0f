package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rdearco/nuel-supply-sight-tw/internal/config"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	kpiKeyPrefix     = "kpis:"
	kpiScanBatchSize = 100
	defaultKPITTL    = time.Minute
	pingTimeout      = 5 * time.Second
)

// KPIKey identifies one aggregate: a date range over one revision of one
// store. A process restart or a second replica gets a new StoreID, so Redis
// entries are never shared between stores.
type KPIKey struct {
	StoreID  string
	Range    domain.DateRange
	Revision uint64
}

// KeyFor builds the key of a snapshot's KPIs for a range.
func KeyFor(snapshot domain.Snapshot, r domain.DateRange) KPIKey {
	return KPIKey{StoreID: snapshot.StoreID, Range: r, Revision: snapshot.Revision}
}

func (k KPIKey) String() string {
	return fmt.Sprintf("%s%s:r%d", storePrefix(k.StoreID), k.Range, k.Revision)
}

func storePrefix(storeID string) string {
	return kpiKeyPrefix + storeID + ":"
}

// KPICache stores aggregated KPIs. Since store id and revision are part of
// the key, an entry only ever answers for the exact snapshot it was
// computed from.
type KPICache interface {
	GetKPIs(ctx context.Context, key KPIKey) (domain.KPIData, bool, error)
	SetKPIs(ctx context.Context, key KPIKey, kpis domain.KPIData) error
	// InvalidateStore drops every entry of one store.
	InvalidateStore(ctx context.Context, storeID string) error
	Close() error
}

type redisKPICache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopKPICache struct{}

// NewKPICache returns a redis backed cache when enabled, a no-op otherwise.
func NewKPICache(cfg config.CacheConfig) (KPICache, error) {
	if !cfg.Enabled {
		return &noopKPICache{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kpi cache: redis unreachable at %s: %w", opts.Addr, err)
	}

	ttl := time.Duration(cfg.KPITTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultKPITTL
	}

	return &redisKPICache{client: client, ttl: ttl}, nil
}

func NewNoopKPICache() KPICache {
	return &noopKPICache{}
}

// redisOptions prefers REDIS_URL and falls back to host, port and db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("kpi cache: invalid redis url: %w", err)
		}
		return opts, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func (c *redisKPICache) GetKPIs(ctx context.Context, key KPIKey) (domain.KPIData, bool, error) {
	payload, err := c.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.KPIData{}, false, nil
	}
	if err != nil {
		return domain.KPIData{}, false, fmt.Errorf("kpi cache: get %s: %w", key, err)
	}

	var kpis domain.KPIData
	if err := json.Unmarshal(payload, &kpis); err != nil {
		return domain.KPIData{}, false, fmt.Errorf("kpi cache: decode %s: %w", key, err)
	}

	return kpis, true, nil
}

func (c *redisKPICache) SetKPIs(ctx context.Context, key KPIKey, kpis domain.KPIData) error {
	payload, err := json.Marshal(kpis)
	if err != nil {
		return fmt.Errorf("kpi cache: encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key.String(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("kpi cache: set %s: %w", key, err)
	}
	return nil
}

// InvalidateStore walks the store's keys with SCAN so a large keyspace is
// never blocked by a single KEYS call.
func (c *redisKPICache) InvalidateStore(ctx context.Context, storeID string) error {
	match := storePrefix(storeID) + "*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, kpiScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("kpi cache: scan %s: %w", match, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("kpi cache: drop %d keys: %w", len(keys), err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *redisKPICache) Close() error {
	return c.client.Close()
}

func (n *noopKPICache) GetKPIs(ctx context.Context, key KPIKey) (domain.KPIData, bool, error) {
	return domain.KPIData{}, false, nil
}

func (n *noopKPICache) SetKPIs(ctx context.Context, key KPIKey, kpis domain.KPIData) error {
	return nil
}

func (n *noopKPICache) InvalidateStore(ctx context.Context, storeID string) error {
	return nil
}

func (n *noopKPICache) Close() error {
	return nil
}
