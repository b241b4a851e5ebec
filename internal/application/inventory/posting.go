package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// stockPoster combina Ledger y BatchStore: toda entrada crea lotes y toda salida consume lotes,
// de modo que la suma de lotes abiertos coincide con max(saldo, 0).
type stockPoster struct {
	ledger  *Ledger
	batches *BatchStore
}

// inbound aplica una entrada y crea su lote al costo de in.UnitCost.
func (p stockPoster) inbound(ctx context.Context, repos TxRepos, in MovementInput) (*entity.InventoryMovement, error) {
	return p.inboundLots(ctx, repos, in, []entity.BatchAllocation{{Quantity: in.Quantity, UnitCost: in.UnitCost}})
}

// inboundLots aplica la entrada y crea un lote por porción, en el orden recibido.
// Si el saldo previo era negativo la entrada cubre primero el déficit y solo el excedente
// queda en lotes.
func (p stockPoster) inboundLots(ctx context.Context, repos TxRepos, in MovementInput, portions []entity.BatchAllocation) (*entity.InventoryMovement, error) {
	mov, err := p.ledger.ApplyMovement(ctx, repos, in)
	if err != nil {
		return nil, err
	}
	deficit := decimal.Max(mov.Quantity.Sub(mov.BalanceAfter), decimal.Zero)
	for _, portion := range portions {
		qty := portion.Quantity
		if deficit.IsPositive() {
			settled := decimal.Min(deficit, qty)
			deficit = deficit.Sub(settled)
			qty = qty.Sub(settled)
		}
		if !qty.IsPositive() {
			continue
		}
		if _, err := p.batches.Receive(ctx, repos, LotInput{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Quantity:      qty,
			UnitCost:      portion.UnitCost,
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
			At:            mov.CreatedAt,
		}); err != nil {
			return nil, err
		}
	}
	return mov, nil
}

// outbound verifica saldo, consume lotes FIFO y aplica la salida al costo de lo consumido.
// Con saldos negativos permitidos, la parte no cubierta por lotes se costea a fallbackCost y
// aparece como una asignación sin BatchID.
func (p stockPoster) outbound(ctx context.Context, repos TxRepos, in MovementInput, fallbackCost decimal.Decimal) (*entity.InventoryMovement, []entity.BatchAllocation, error) {
	if _, err := p.ledger.EnsureAvailable(ctx, repos, in.ProductID, in.WarehouseID, in.Quantity); err != nil {
		return nil, nil, err
	}

	var allocs []entity.BatchAllocation
	if p.ledger.AllowsNegativeStock() {
		got, uncovered, err := p.batches.AllocateAvailable(ctx, repos, in.ProductID, in.WarehouseID, in.Quantity)
		if err != nil {
			return nil, nil, err
		}
		allocs = got
		if uncovered.IsPositive() {
			allocs = append(allocs, entity.BatchAllocation{Quantity: uncovered, UnitCost: fallbackCost})
		}
	} else {
		got, err := p.batches.AllocateConsumption(ctx, repos, in.ProductID, in.WarehouseID, in.Quantity)
		if err != nil {
			return nil, nil, err
		}
		allocs = got
	}

	_, unitCost := inv.AllocationCost(allocs)
	in.UnitCost = unitCost
	mov, err := p.ledger.ApplyMovement(ctx, repos, in)
	if err != nil {
		return nil, nil, err
	}
	return mov, allocs, nil
}
