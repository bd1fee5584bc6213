package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var _ repository.ProductCache = (*RedisProductCache)(nil)

// RedisProductCache caché de productos por SKU. Clave: tenant:{tenantId}:product:{sku}.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache crea el cliente; ttl <= 0 usa una hora.
func NewRedisProductCache(addr, password string, db int, ttl time.Duration) *RedisProductCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisProductCacheWithClient(client, ttl)
}

// NewRedisProductCacheWithClient permite inyectar un cliente ya configurado.
func NewRedisProductCacheWithClient(client *redis.Client, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

// ProductKey clave de un producto en caché.
func ProductKey(tenantID, sku string) string {
	return fmt.Sprintf("tenant:%s:product:%s", tenantID, sku)
}

// cachedProduct forma serializada; los decimales viajan como string.
type cachedProduct struct {
	ID              string           `json:"id"`
	TenantID        string           `json:"tenantId"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	BasePrice       decimal.Decimal  `json:"basePrice"`
	SellPrice       *decimal.Decimal `json:"sellPrice,omitempty"`
	IsFlexiblePrice bool             `json:"isFlexiblePrice"`
	ImageURL        *string          `json:"imageUrl,omitempty"`
	MinStock        int              `json:"minStock"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (c *RedisProductCache) Get(ctx context.Context, tenantID, sku string) (*entity.Product, bool, error) {
	val, err := c.client.Get(ctx, ProductKey(tenantID, sku)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cp cachedProduct
	if err := json.Unmarshal([]byte(val), &cp); err != nil {
		return nil, false, err
	}
	return &entity.Product{
		ID:              cp.ID,
		TenantID:        cp.TenantID,
		SKU:             cp.SKU,
		Name:            cp.Name,
		Type:            cp.Type,
		BasePrice:       cp.BasePrice,
		SellPrice:       cp.SellPrice,
		IsFlexiblePrice: cp.IsFlexiblePrice,
		ImageURL:        cp.ImageURL,
		MinStock:        cp.MinStock,
		CreatedAt:       cp.CreatedAt,
		UpdatedAt:       cp.UpdatedAt,
	}, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *entity.Product) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(cachedProduct{
		ID:              p.ID,
		TenantID:        p.TenantID,
		SKU:             p.SKU,
		Name:            p.Name,
		Type:            p.Type,
		BasePrice:       p.BasePrice,
		SellPrice:       p.SellPrice,
		IsFlexiblePrice: p.IsFlexiblePrice,
		ImageURL:        p.ImageURL,
		MinStock:        p.MinStock,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ProductKey(p.TenantID, p.SKU), payload, c.ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, tenantID string, skus ...string) error {
	if len(skus) == 0 {
		return nil
	}
	keys := make([]string, 0, len(skus))
	for _, sku := range skus {
		keys = append(keys, ProductKey(tenantID, sku))
	}
	return c.client.Del(ctx, keys...).Err()
}

// InvalidateTenant borra todas las claves de productos del tenant (SCAN + DEL por lotes).
func (c *RedisProductCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("tenant:%s:product:*", tenantID), 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}
