// Package memory implementa los puertos de persistencia en memoria. Se usa en desarrollo
// (STORAGE_DRIVER=memory) y como respaldo de los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ledgerState estado transaccional: saldos, diario, lotes, documentos, aprobaciones y secuencias.
type ledgerState struct {
	stock       map[string]entity.Stock
	movements   []entity.InventoryMovement
	batches     map[string]entity.InventoryBatch
	adjustments map[string]entity.InventoryAdjustment
	transfers   map[string]entity.InventoryTransfer
	approvals   map[string]entity.ApprovalRequest
	sequences   map[string]int64
	batchSeq    int64
}

func newLedgerState() ledgerState {
	return ledgerState{
		stock:       make(map[string]entity.Stock),
		batches:     make(map[string]entity.InventoryBatch),
		adjustments: make(map[string]entity.InventoryAdjustment),
		transfers:   make(map[string]entity.InventoryTransfer),
		approvals:   make(map[string]entity.ApprovalRequest),
		sequences:   make(map[string]int64),
	}
}

func (s ledgerState) clone() ledgerState {
	c := ledgerState{
		stock:       make(map[string]entity.Stock, len(s.stock)),
		movements:   make([]entity.InventoryMovement, len(s.movements)),
		batches:     make(map[string]entity.InventoryBatch, len(s.batches)),
		adjustments: make(map[string]entity.InventoryAdjustment, len(s.adjustments)),
		transfers:   make(map[string]entity.InventoryTransfer, len(s.transfers)),
		approvals:   make(map[string]entity.ApprovalRequest, len(s.approvals)),
		sequences:   make(map[string]int64, len(s.sequences)),
		batchSeq:    s.batchSeq,
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	copy(c.movements, s.movements)
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = cloneAdjustment(v)
	}
	for k, v := range s.transfers {
		c.transfers[k] = cloneTransfer(v)
	}
	for k, v := range s.approvals {
		c.approvals[k] = cloneApproval(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan con txMu y trabajan sobre una
// copia del estado que solo se publica si fn no devuelve error.
// El catálogo (productos, unidades, bodegas) y la auditoría viven fuera del estado transaccional.
type Store struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state ledgerState

	catalog *catalogState
	audit   *auditState
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		state:   newLedgerState(),
		catalog: newCatalogState(),
		audit:   &auditState{},
	}
}

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback en otro caso.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	if err := fn(reposFor(&access{st: &work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}

// Repos repositorios sobre el estado confirmado (fuera de transacción).
func (s *Store) Repos() inventory.TxRepos {
	return reposFor(&access{st: &s.state, store: s})
}

// access resuelve el acceso al estado: directo dentro de una transacción o con locks fuera de ella.
type access struct {
	st    *ledgerState
	store *Store // nil dentro de una transacción
}

func (a *access) read(fn func(st *ledgerState)) {
	if a.store == nil {
		fn(a.st)
		return
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	fn(&a.store.state)
}

func (a *access) write(fn func(st *ledgerState) error) error {
	if a.store == nil {
		return fn(a.st)
	}
	a.store.txMu.Lock()
	defer a.store.txMu.Unlock()
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(&a.store.state)
}

func reposFor(a *access) inventory.TxRepos {
	return inventory.TxRepos{
		Stock:       &stockRepo{a: a},
		Movements:   &movementRepo{a: a},
		Batches:     &batchRepo{a: a},
		Adjustments: &adjustmentRepo{a: a},
		Transfers:   &transferRepo{a: a},
		Approvals:   &approvalRepo{a: a},
		Sequences:   &sequenceRepo{a: a},
	}
}

func cloneAdjustment(a entity.InventoryAdjustment) entity.InventoryAdjustment {
	a.Items = append([]entity.InventoryAdjustmentItem(nil), a.Items...)
	return a
}

func cloneTransfer(t entity.InventoryTransfer) entity.InventoryTransfer {
	t.Items = append([]entity.InventoryTransferItem(nil), t.Items...)
	return t
}

func cloneApproval(r entity.ApprovalRequest) entity.ApprovalRequest {
	r.Payload = append([]byte(nil), r.Payload...)
	return r
}
