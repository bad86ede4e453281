package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// cachedProductService decorates ProductService with a Redis read-through
// cache for single-product lookups. The cache is a convenience for catalog
// reads only: order placement validates stock against Postgres inside its
// transaction and never consults this layer. Redis outages trip the breaker
// and reads fall through to Postgres.
type cachedProductService struct {
	ProductService

	redis  *redis.Client
	cb     *gobreaker.CircuitBreaker
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProductService(
	inner ProductService,
	redisClient *redis.Client,
	ttl time.Duration,
	logger *zap.Logger,
) ProductService {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-product-cache",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &cachedProductService{
		ProductService: inner,
		redis:          redisClient,
		cb:             cb,
		ttl:            ttl,
		logger:         logger,
	}
}

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *cachedProductService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	cached, err := utils.ExecuteWithBreaker(s.cb, func() (string, error) {
		return s.redis.Get(ctx, productCacheKey(id)).Result()
	})
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			return &product, nil
		}
		// Unreadable entry, fall through and refresh it.
	} else if !errors.Is(err, redis.Nil) && !errors.Is(err, gobreaker.ErrOpenState) {
		applog.Warn(
			ctx,
			s.logger,
			"Product cache read failed",
			zap.Int64("product_id", id),
			zap.Error(err),
		)
	}

	product, err := s.ProductService.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.storeInCache(ctx, product)
	return product, nil
}

func (s *cachedProductService) storeInCache(ctx context.Context, product *domain.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}

	_, err = utils.ExecuteWithBreaker(s.cb, func() (struct{}, error) {
		return struct{}{}, s.redis.Set(ctx, productCacheKey(product.ID), data, s.ttl).Err()
	})
	if err != nil && !errors.Is(err, gobreaker.ErrOpenState) {
		applog.Warn(
			ctx,
			s.logger,
			"Product cache write failed",
			zap.Int64("product_id", product.ID),
			zap.Error(err),
		)
	}
}

func (s *cachedProductService) invalidate(ctx context.Context, id int64) {
	_, err := utils.ExecuteWithBreaker(s.cb, func() (struct{}, error) {
		return struct{}{}, s.redis.Del(ctx, productCacheKey(id)).Err()
	})
	if err != nil && !errors.Is(err, gobreaker.ErrOpenState) {
		applog.Warn(
			ctx,
			s.logger,
			"Product cache invalidation failed",
			zap.Int64("product_id", id),
			zap.Error(err),
		)
	}
}

func (s *cachedProductService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	if err := s.ProductService.Update(ctx, id, input); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *cachedProductService) SetStock(ctx context.Context, id, quantity int64) error {
	if err := s.ProductService.SetStock(ctx, id, quantity); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *cachedProductService) Delete(ctx context.Context, id int64) error {
	if err := s.ProductService.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}
