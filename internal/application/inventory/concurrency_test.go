package inventory_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Posteos concurrentes sobre el mismo (producto, bodega)
// ──────────────────────────────────────────────────────────────────────────────

func TestConcurrencia_SalidasNoPierdenActualizaciones(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "50", "", "2")

	const workers = 80
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		shortfall int
		other     []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
				ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(1),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				shortfall++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 50, succeeded)
	assert.Equal(t, workers-50, shortfall)
	assertQty(t, "0", f.stock(t, productBolt, whA))
	assertQty(t, "0", f.journalSum(t, productBolt, whA))
	assertQty(t, "0", f.openLots(t, productBolt, whA))
}

func TestConcurrencia_DosAjustesSeSuman(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "5")

	first := f.adjustment(t, whA, relative(productBolt, "5"))
	second := f.adjustment(t, whA, relative(productBolt, "-3"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.adjustments.Post(f.ctx, id, testUser)
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assertQty(t, "12", f.stock(t, productBolt, whA))
	assertQty(t, "12", f.journalSum(t, productBolt, whA))
	assertQty(t, "12", f.openLots(t, productBolt, whA))
}

func TestConcurrencia_MismoAjusteSePosteaUnaVez(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "5")
	adj := f.adjustment(t, whA, relative(productBolt, "4"))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.adjustments.Post(f.ctx, adj.ID, testUser)
		}(i)
	}
	wg.Wait()

	posted := 0
	for _, err := range errs {
		if err == nil {
			posted++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
	assert.Equal(t, 1, posted)
	assertQty(t, "14", f.stock(t, productBolt, whA))
	assert.Len(t, f.journal(t, dto.MovementFilters{ReferenceID: adj.ID}), 1)
}
