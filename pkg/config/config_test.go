package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.False(t, cfg.Inventory.AllowNegativeStock)
	assert.Empty(t, cfg.Approval.RequiredKinds)
	assert.True(t, cfg.Approval.QuantityThreshold.IsZero())
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://postgres:@localhost:5432/inventario_ledger?sslmode=disable", cfg.DB.DSN())
}

func TestFromViper_ParsesLists(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("INVENTORY_ALLOW_NEGATIVE_STOCK", "true")
	v.Set("APPROVAL_REQUIRED_KINDS", "INVENTORY_ADJUSTMENT, INVENTORY_TRANSFER")
	v.Set("APPROVAL_QUANTITY_THRESHOLD", "250.5")
	v.Set("KAFKA_BROKERS", "k1:9092,k2:9092")
	v.Set("HTTP_PORT", "9000")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Inventory.AllowNegativeStock)
	assert.Equal(t, []string{"INVENTORY_ADJUSTMENT", "INVENTORY_TRANSFER"}, cfg.Approval.RequiredKinds)
	assert.True(t, cfg.Approval.QuantityThreshold.Equal(decimal.RequireFromString("250.5")))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestFromViper_RejectsUnknownDriver(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := FromViper(v)
	require.Error(t, err)
}

func TestFromViper_RejectsBadThreshold(t *testing.T) {
	v := viper.New()
	v.Set("APPROVAL_QUANTITY_THRESHOLD", "mucho")
	_, err := FromViper(v)
	require.Error(t, err)
}
