package approval

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestThresholdPolicy(t *testing.T) {
	ctx := context.Background()
	payload := func(q int64) inventory.ApprovalPayload {
		return inventory.ApprovalPayload{TotalBaseQuantity: decimal.NewFromInt(q)}
	}

	tests := []struct {
		name      string
		kinds     []string
		threshold int64
		kind      entity.ApprovalKind
		qty       int64
		want      bool
	}{
		{"tipo no listado", []string{"INVENTORY_TRANSFER"}, 0, entity.ApprovalKindAdjustment, 500, false},
		{"umbral cero exige siempre", []string{"inventory_adjustment"}, 0, entity.ApprovalKindAdjustment, 1, true},
		{"bajo el umbral", []string{"INVENTORY_ADJUSTMENT"}, 100, entity.ApprovalKindAdjustment, 100, false},
		{"sobre el umbral", []string{" INVENTORY_ADJUSTMENT "}, 100, entity.ApprovalKindAdjustment, 101, true},
		{"sin tipos", nil, 0, entity.ApprovalKindTransfer, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewThresholdPolicy(tt.kinds, decimal.NewFromInt(tt.threshold))
			got, err := p.IsApprovalRequired(ctx, tt.kind, payload(tt.qty))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
