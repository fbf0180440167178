package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entity "guardianearth/internal/entity"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheTTL = 10 * time.Minute

// paymentCache is the cache-aside layer in front of the payment table. Cache
// failures are logged and swallowed; the database stays authoritative.
type paymentCache struct {
	redis  *redis.Client
	logger *zap.Logger
}

func newPaymentCache(rdb *redis.Client, logger *zap.Logger) *paymentCache {
	return &paymentCache{
		redis:  rdb,
		logger: logger.With(zap.String("component", "payment_cache")),
	}
}

func (c *paymentCache) key(paymentID string) string {
	return fmt.Sprintf("payment:%s", paymentID)
}

func (c *paymentCache) get(ctx context.Context, paymentID string) (*entity.Payment, bool) {
	cached, err := c.redis.Get(ctx, c.key(paymentID)).Result()
	if err != nil {
		return nil, false
	}
	var payment entity.Payment
	if err := json.Unmarshal([]byte(cached), &payment); err != nil {
		c.logger.Warn("failed to unmarshal cached payment",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return nil, false
	}
	return &payment, true
}

func (c *paymentCache) put(ctx context.Context, payment *entity.Payment) {
	data, err := json.Marshal(payment)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(payment.ID), data, cacheTTL).Err(); err != nil {
		c.logger.Warn("failed to cache payment",
			zap.String("payment_id", payment.ID),
			zap.Error(err))
	}
}

func (c *paymentCache) drop(ctx context.Context, paymentID string) {
	if err := c.redis.Del(ctx, c.key(paymentID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate payment cache",
			zap.String("payment_id", paymentID),
			zap.Error(err))
	}
}
