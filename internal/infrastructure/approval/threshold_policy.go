// Package approval políticas de aprobación configurables.
package approval

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.ApprovalPolicy = (*ThresholdPolicy)(nil)

// ThresholdPolicy exige aprobación para los tipos listados cuando la cantidad total en unidad
// base supera el umbral. Umbral cero exige aprobación siempre para esos tipos.
type ThresholdPolicy struct {
	kinds     map[entity.ApprovalKind]struct{}
	threshold decimal.Decimal
}

// NewThresholdPolicy acepta los tipos como los nombres de entity.ApprovalKind, sin distinguir mayúsculas.
func NewThresholdPolicy(kinds []string, threshold decimal.Decimal) *ThresholdPolicy {
	p := &ThresholdPolicy{kinds: make(map[entity.ApprovalKind]struct{}, len(kinds)), threshold: threshold}
	for _, k := range kinds {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		p.kinds[entity.ApprovalKind(k)] = struct{}{}
	}
	return p
}

func (p *ThresholdPolicy) IsApprovalRequired(_ context.Context, kind entity.ApprovalKind, payload inventory.ApprovalPayload) (bool, error) {
	if _, ok := p.kinds[kind]; !ok {
		return false, nil
	}
	return payload.TotalBaseQuantity.GreaterThan(p.threshold) || p.threshold.IsZero(), nil
}
