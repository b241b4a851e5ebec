package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestStore_RunRollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(7)}))
		require.NoError(t, repos.Movements.Create(ctx, &entity.InventoryMovement{ID: "m1", ProductID: "p1", WarehouseID: "w1"}))
		_, err := repos.Sequences.Next(ctx, "ADJ-20260115")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stock, err := s.Repos().Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Nil(t, stock)
	movs, err := s.Repos().Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)

	// La secuencia tampoco avanzó
	err = s.Run(ctx, func(repos inventory.TxRepos) error {
		n, err := repos.Sequences.Next(ctx, "ADJ-20260115")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RunCommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Run(ctx, func(repos inventory.TxRepos) error {
		st, err := repos.Stock.GetForUpdate(ctx, "p1", "w1")
		if err != nil {
			return err
		}
		assert.True(t, st.Quantity.IsZero())
		st.Quantity = st.Quantity.Add(decimal.RequireFromString("2.5"))
		return repos.Stock.Upsert(ctx, st)
	})
	require.NoError(t, err)

	stock, err := s.Repos().Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	require.NotNil(t, stock)
	assert.True(t, decimal.RequireFromString("2.5").Equal(stock.Quantity))
}

func TestStore_RunContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewStore().Run(ctx, func(inventory.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAdjustmentRepo_ProductoDuplicado(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	adj := &entity.InventoryAdjustment{
		ID:               "a1",
		AdjustmentNumber: "ADJ-20260115-0001",
		Items: []entity.InventoryAdjustmentItem{
			{ID: "i1", ProductID: "p1"},
			{ID: "i2", ProductID: "p1"},
		},
	}
	assert.ErrorIs(t, s.Repos().Adjustments.Create(ctx, adj), domain.ErrDuplicate)

	adj.Items = adj.Items[:1]
	require.NoError(t, s.Repos().Adjustments.Create(ctx, adj))

	// Las líneas guardadas no comparten memoria con el llamador
	adj.Items[0].ProductID = "otro"
	got, err := s.Repos().Adjustments.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.Items[0].ProductID)

	other := &entity.InventoryAdjustment{ID: "a2", AdjustmentNumber: "ADJ-20260115-0001"}
	assert.ErrorIs(t, s.Repos().Adjustments.Create(ctx, other), domain.ErrDuplicate, "número repetido")
}

func TestLevelRepo_BajoMinimo(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", MinStockLevel: decimal.NewFromInt(5)}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "B"}))

	items, err := s.Levels().GetProductsBelowMinimum(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.True(t, items[0].CurrentStock.IsZero())
}
