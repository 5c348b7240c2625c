package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"testgen/internal/model"
)

// ExportCache keeps recently generated tests for download
type ExportCache interface {
	SetTest(ctx context.Context, testID string, test *model.Test) error
	// GetTest returns nil, nil on a miss
	GetTest(ctx context.Context, testID string) (*model.Test, error)
	DeleteTest(ctx context.Context, testID string) error
}

type exportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExportCache creates a new export cache
func NewExportCache(client *redis.Client) ExportCache {
	return &exportCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *exportCache) key(testID string) string {
	return fmt.Sprintf("test:%s:export", testID)
}

func (c *exportCache) SetTest(ctx context.Context, testID string, test *model.Test) error {
	data, err := json.Marshal(test)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(testID), data, c.ttl).Err()
}

func (c *exportCache) GetTest(ctx context.Context, testID string) (*model.Test, error) {
	data, err := c.client.Get(ctx, c.key(testID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var test model.Test
	if err := json.Unmarshal([]byte(data), &test); err != nil {
		return nil, err
	}
	return &test, nil
}

func (c *exportCache) DeleteTest(ctx context.Context, testID string) error {
	return c.client.Del(ctx, c.key(testID)).Err()
}

// NopExportCache is used when no Redis is configured; every read misses
type NopExportCache struct{}

func (NopExportCache) SetTest(context.Context, string, *model.Test) error { return nil }

func (NopExportCache) GetTest(context.Context, string) (*model.Test, error) { return nil, nil }

func (NopExportCache) DeleteTest(context.Context, string) error { return nil }
