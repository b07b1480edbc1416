package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formdash/internal/model"
)

// DefaultTTL bounds how long a computed payload may serve before recomputation
const DefaultTTL = time.Hour

// WidgetDataCache handles Redis operations for computed widget payloads.
// Invalidation is an explicit message from the collaborator that owns
// response writes; the engine never invalidates implicitly.
type WidgetDataCache interface {
	Get(ctx context.Context, widgetID string, sandbox bool) (*model.WidgetData, error)
	Set(ctx context.Context, widgetID string, sandbox bool, data *model.WidgetData) error
	Delete(ctx context.Context, widgetIDs []string) error
}

type widgetDataCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWidgetDataCache creates a new widget data cache
func NewWidgetDataCache(client *redis.Client, ttl time.Duration) WidgetDataCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &widgetDataCache{client: client, ttl: ttl}
}

// Key helpers
func dataKey(widgetID string, sandbox bool) string {
	if sandbox {
		return fmt.Sprintf("widget-sandbox-data:%s", widgetID)
	}
	return fmt.Sprintf("widget-data:%s", widgetID)
}

func (c *widgetDataCache) Get(ctx context.Context, widgetID string, sandbox bool) (*model.WidgetData, error) {
	data, err := c.client.Get(ctx, dataKey(widgetID, sandbox)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var payload model.WidgetData
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *widgetDataCache) Set(ctx context.Context, widgetID string, sandbox bool, payload *model.WidgetData) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dataKey(widgetID, sandbox), data, c.ttl).Err()
}

// Delete drops both the committed and sandbox variants for every widget
func (c *widgetDataCache) Delete(ctx context.Context, widgetIDs []string) error {
	if len(widgetIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(widgetIDs)*2)
	for _, id := range widgetIDs {
		keys = append(keys, dataKey(id, false), dataKey(id, true))
	}
	return c.client.Del(ctx, keys...).Err()
}
