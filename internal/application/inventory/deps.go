package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Acciones registradas en la bitácora de auditoría.
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionPost    = "POST"
	AuditActionCancel  = "CANCEL"
	AuditActionApprove = "APPROVE"
	AuditActionReject  = "REJECT"
)

// Dependencies colaboradores compartidos por los casos de uso de inventario.
// Policy, Events, Metrics, Audit y Slips son opcionales.
type Dependencies struct {
	TxRunner   TxRunner
	Repos      TxRepos // repositorios fuera de transacción, para lecturas
	Catalog    Catalog
	Warehouses WarehouseDirectory
	Ledger     *Ledger
	Batches    *BatchStore
	Policy     ApprovalPolicy
	Approvals  ApprovalRequester
	Events     EventPublisher
	Metrics    PostingMetrics
	Audit      AuditLogger
	Slips      *SlipService
	Logger     zerolog.Logger
	Now        func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Ledger == nil {
		d.Ledger = NewLedger(false)
	}
	if d.Batches == nil {
		d.Batches = NewBatchStore()
	}
	if d.Events == nil {
		d.Events = noopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = noopMetrics{}
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// productUnits producto con su tabla de unidades alternas.
type productUnits struct {
	Product *entity.Product
	UOMs    []entity.ProductUOM
}

// productLookup cache por operación de productos ya consultados al catálogo.
type productLookup struct {
	catalog Catalog
	loaded  map[string]*productUnits
}

func newProductLookup(catalog Catalog) *productLookup {
	return &productLookup{catalog: catalog, loaded: make(map[string]*productUnits)}
}

func (l *productLookup) get(ctx context.Context, productID string) (*productUnits, error) {
	if pu, ok := l.loaded[productID]; ok {
		return pu, nil
	}
	p, err := l.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog get product: %w", err)
	}
	if p == nil {
		return nil, domain.NewNotFoundError("producto", productID)
	}
	uoms, err := l.catalog.GetProductUOMs(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog get uoms: %w", err)
	}
	pu := &productUnits{Product: p, UOMs: uoms}
	l.loaded[productID] = pu
	return pu, nil
}

func (l *productLookup) products() map[string]*entity.Product {
	out := make(map[string]*entity.Product, len(l.loaded))
	for id, pu := range l.loaded {
		out[id] = pu.Product
	}
	return out
}

// documentNumber genera PREFIJO-YYYYMMDD-NNNN con la secuencia diaria del prefijo.
func documentNumber(ctx context.Context, seq repository.DocumentSequenceRepository, prefix string, at time.Time) (string, error) {
	key := fmt.Sprintf("%s-%s", prefix, at.Format("20060102"))
	n, err := seq.Next(ctx, key)
	if err != nil {
		return "", fmt.Errorf("next document number: %w", err)
	}
	return fmt.Sprintf("%s-%04d", key, n), nil
}

func (d Dependencies) loadWarehouse(ctx context.Context, id, field string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, domain.NewValidationError(field, "requerido")
	}
	wh, err := d.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	if wh == nil {
		return nil, domain.NewNotFoundError("bodega", id)
	}
	return wh, nil
}

// audit escribe en la bitácora; un fallo solo se registra en el log.
func (d Dependencies) audit(ctx context.Context, userID, action, resource, resourceID string, details any) {
	if d.Audit == nil {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		raw = nil
	}
	entry := &entity.AuditLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    raw,
		CreatedAt:  d.Now(),
	}
	if err := d.Audit.Create(ctx, entry); err != nil {
		d.Logger.Warn().Err(err).Str("resource", resource).Str("resource_id", resourceID).Str("action", action).
			Msg("no se pudo registrar auditoría")
	}
}

// publishPosted emite el evento de posteo; un fallo solo se registra en el log.
func (d Dependencies) publishPosted(ctx context.Context, docType, docID, docNumber, userID string, at time.Time, movs []*entity.InventoryMovement) {
	ev := DocumentPostedEvent{
		EventID:        uuid.New().String(),
		DocumentType:   docType,
		DocumentID:     docID,
		DocumentNumber: docNumber,
		PostedBy:       userID,
		PostedAt:       at,
		Movements:      make([]PostedMovement, 0, len(movs)),
	}
	for _, m := range movs {
		ev.Movements = append(ev.Movements, PostedMovement{
			MovementID:   m.ID,
			ProductID:    m.ProductID,
			WarehouseID:  m.WarehouseID,
			Kind:         string(m.Kind),
			Quantity:     m.Quantity,
			UnitCost:     m.UnitCost,
			BalanceAfter: m.BalanceAfter,
		})
		d.Metrics.ObserveMovement(m.Kind, m.Quantity)
	}
	if err := d.Events.Publish(ctx, ev); err != nil {
		d.Logger.Error().Err(err).Str("document_type", docType).Str("document_id", docID).Msg("no se pudo publicar evento de posteo")
	}
}
