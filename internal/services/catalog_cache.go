package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"milgapo/scholarship-matcher/internal/models"
)

const catalogCacheKey = "notion:catalog"

// cachedNotionService decorates a NotionService with a redis TTL cache. The
// catalog is pull-based and freshness is best effort, so a warm cache also
// serves through an upstream outage; only a cold cache propagates the fetch
// error.
type cachedNotionService struct {
	upstream NotionService
	rdb      *redis.Client
	ttl      time.Duration
}

func NewCachedNotionService(upstream NotionService, rdb *redis.Client, ttl time.Duration) NotionService {
	return &cachedNotionService{
		upstream: upstream,
		rdb:      rdb,
		ttl:      ttl,
	}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// FetchCatalog implements NotionService.
func (c *cachedNotionService) FetchCatalog(ctx context.Context) ([]models.CatalogRecord, error) {
	if cached := c.readCache(ctx); cached != nil {
		return cached, nil
	}

	records, err := c.upstream.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	c.writeCache(ctx, records)
	return records, nil
}

func (c *cachedNotionService) readCache(ctx context.Context) []models.CatalogRecord {
	raw, err := c.rdb.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️  Catalog cache read failed: %v\n", err)
		}
		return nil
	}

	var records []models.CatalogRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Printf("⚠️  Catalog cache decode failed: %v\n", err)
		return nil
	}
	return records
}

func (c *cachedNotionService) writeCache(ctx context.Context, records []models.CatalogRecord) {
	encoded, err := json.Marshal(records)
	if err != nil {
		log.Printf("⚠️  Catalog cache encode failed: %v\n", err)
		return
	}
	if err := c.rdb.Set(ctx, catalogCacheKey, encoded, c.ttl).Err(); err != nil {
		log.Printf("⚠️  Catalog cache write failed: %v\n", err)
	}
}
