package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestPostingMetrics_CountsOutcomesAndMovements(t *testing.T) {
	m := NewPostingMetrics("test_ledger")

	m.ObservePosting("INVENTORY_ADJUSTMENT", inventory.OutcomePosted, 20*time.Millisecond)
	m.ObservePosting("INVENTORY_ADJUSTMENT", inventory.OutcomePosted, 30*time.Millisecond)
	m.ObservePosting("INVENTORY_ADJUSTMENT", inventory.OutcomeFailed, time.Millisecond)
	m.ObserveMovement(entity.MovementKindTransferOUT, decimal.NewFromInt(12))
	m.ObserveMovement(entity.MovementKindTransferOUT, decimal.RequireFromString("0.5"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.postings.WithLabelValues("INVENTORY_ADJUSTMENT", inventory.OutcomePosted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postings.WithLabelValues("INVENTORY_ADJUSTMENT", inventory.OutcomeFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("TRANSFER_OUT")))
	assert.InDelta(t, 12.5, testutil.ToFloat64(m.quantity.WithLabelValues("TRANSFER_OUT")), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}
