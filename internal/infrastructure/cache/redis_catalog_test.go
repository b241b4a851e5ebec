package cache

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type fakeCatalog struct {
	calls    int
	products map[string]*entity.Product
	uoms     map[string][]entity.ProductUOM
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	f.calls++
	return f.products[id], nil
}

func (f *fakeCatalog) GetProductUOMs(_ context.Context, id string) ([]entity.ProductUOM, error) {
	f.calls++
	return f.uoms[id], nil
}

// Redis caído: las lecturas caen al catálogo de origen sin error.
func TestRedisCatalog_FallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	inner := &fakeCatalog{
		products: map[string]*entity.Product{"p1": {ID: "p1", SKU: "W-1", BaseUOM: "piece"}},
		uoms:     map[string][]entity.ProductUOM{"p1": {{ProductID: "p1", Name: "box", ConversionFactor: decimal.NewFromInt(12)}}},
	}
	c := NewRedisCatalog(client, inner, time.Minute, zerolog.Nop())
	ctx := context.Background()

	p, err := c.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "W-1", p.SKU)

	uoms, err := c.GetProductUOMs(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, uoms, 1)
	assert.True(t, uoms[0].ConversionFactor.Equal(decimal.NewFromInt(12)))

	missing, err := c.GetProduct(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, 3, inner.calls)
}
