// Package cache cache de lectura del catálogo de productos sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.Catalog = (*RedisCatalog)(nil)

const keyPrefix = "ledger:catalog:"

// RedisCatalog read-through sobre otro Catalog. Un fallo de Redis no falla la lectura:
// se registra y se consulta el catálogo de origen.
type RedisCatalog struct {
	client *redis.Client
	inner  inventory.Catalog
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisClient construye el cliente con la configuración de la app.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCatalog(client *redis.Client, inner inventory.Catalog, ttl time.Duration, log zerolog.Logger) *RedisCatalog {
	return &RedisCatalog{client: client, inner: inner, ttl: ttl, log: log}
}

func (c *RedisCatalog) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCatalog) Close() error {
	return c.client.Close()
}

func (c *RedisCatalog) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	key := keyPrefix + "product:" + id
	var p entity.Product
	if c.get(ctx, key, &p) {
		return &p, nil
	}
	product, err := c.inner.GetProduct(ctx, id)
	if err != nil || product == nil {
		return product, err
	}
	c.set(ctx, key, product)
	return product, nil
}

func (c *RedisCatalog) GetProductUOMs(ctx context.Context, productID string) ([]entity.ProductUOM, error) {
	key := keyPrefix + "uoms:" + productID
	var uoms []entity.ProductUOM
	if c.get(ctx, key, &uoms) {
		return uoms, nil
	}
	uoms, err := c.inner.GetProductUOMs(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, uoms)
	return uoms, nil
}

// Invalidate borra las entradas del producto (después de crear o cambiar unidades).
func (c *RedisCatalog) Invalidate(ctx context.Context, productID string) error {
	return c.client.Del(ctx, keyPrefix+"product:"+productID, keyPrefix+"uoms:"+productID).Err()
}

func (c *RedisCatalog) get(ctx context.Context, key string, dst any) bool {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache de catálogo no disponible")
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de cache corrupta")
		return false
	}
	return true
}

func (c *RedisCatalog) set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo escribir cache de catálogo")
	}
}
