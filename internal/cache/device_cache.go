package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"kyrix/api/internal/models"
)

const deviceKeyPrefix = "device:code:"

// DeviceCache is a read-through cache for device-by-code lookups. Paired
// displays poll the sync endpoint every few seconds, so this is the one
// hot read in the system. Last-sync writes never go through the cache.
type DeviceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDeviceCache(client *redis.Client, ttl time.Duration) *DeviceCache {
	return &DeviceCache{client: client, ttl: ttl}
}

// Get returns the cached device for a code. A redis failure is reported
// as a miss; the caller falls back to the store.
func (c *DeviceCache) Get(ctx context.Context, code string) (models.Device, bool) {
	payload, err := c.client.Get(ctx, deviceKeyPrefix+code).Bytes()
	if err != nil {
		return models.Device{}, false
	}

	var device models.Device
	if err := json.Unmarshal(payload, &device); err != nil {
		return models.Device{}, false
	}
	return device, true
}

func (c *DeviceCache) Set(ctx context.Context, device models.Device) {
	payload, err := json.Marshal(device)
	if err != nil {
		return
	}
	c.client.Set(ctx, deviceKeyPrefix+device.DeviceCode, payload, c.ttl)
}

func (c *DeviceCache) Invalidate(ctx context.Context, code string) {
	c.client.Del(ctx, deviceKeyPrefix+code)
}
