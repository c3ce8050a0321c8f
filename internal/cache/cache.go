package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davronov/qrdesk/internal/models"
)

// RecordCache is the two-tier cache in front of storage for the scan
// path: an in-process LRU backed by Redis. Any write to a QR code must
// invalidate its entry or scans keep resolving stale content.
type RecordCache struct {
	l1    *LRUCache
	l2    *redis.Client
	l2TTL time.Duration
}

func NewRecordCache(l1Capacity int, redisClient *redis.Client, l2TTL time.Duration) *RecordCache {
	return &RecordCache{
		l1:    NewLRUCache(l1Capacity),
		l2:    redisClient,
		l2TTL: l2TTL,
	}
}

func recordKey(id string) string {
	return "qr:" + id
}

func (c *RecordCache) Get(ctx context.Context, id string) (*models.QRCode, bool) {
	if qr, found := c.l1.Get(id); found {
		return qr, true
	}

	if c.l2 == nil {
		return nil, false
	}

	val, err := c.l2.Get(ctx, recordKey(id)).Result()
	if err != nil {
		return nil, false
	}

	var qr models.QRCode
	if err := json.Unmarshal([]byte(val), &qr); err != nil {
		// Undecodable entry, drop it rather than serve it again.
		c.l2.Del(ctx, recordKey(id))
		return nil, false
	}

	c.l1.Set(id, &qr)
	return &qr, true
}

func (c *RecordCache) Set(ctx context.Context, qr *models.QRCode) error {
	c.l1.Set(qr.ID, qr)

	if c.l2 == nil {
		return nil
	}

	data, err := json.Marshal(qr)
	if err != nil {
		return err
	}
	return c.l2.Set(ctx, recordKey(qr.ID), string(data), c.l2TTL).Err()
}

func (c *RecordCache) Invalidate(ctx context.Context, id string) error {
	c.l1.Delete(id)

	if c.l2 == nil {
		return nil
	}
	return c.l2.Del(ctx, recordKey(id)).Err()
}
