package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Stock       repository.StockRepository
	Movements   repository.InventoryMovementRepository
	Batches     repository.InventoryBatchRepository
	Adjustments repository.InventoryAdjustmentRepository
	Transfers   repository.InventoryTransferRepository
	Approvals   repository.ApprovalRequestRepository
	Sequences   repository.DocumentSequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// Catalog acceso de solo lectura al catálogo de productos y su tabla de unidades.
// GetProduct devuelve (nil, nil) si el producto no existe.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	GetProductUOMs(ctx context.Context, productID string) ([]entity.ProductUOM, error)
}

// WarehouseDirectory acceso de solo lectura a bodegas.
type WarehouseDirectory interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}

// ApprovalPayloadItem línea resumida que se evalúa en la política de aprobación.
type ApprovalPayloadItem struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UOM          string          `json:"uom"`
	Type         string          `json:"type,omitempty"`
	BaseQuantity decimal.Decimal `json:"base_quantity"`
}

// ApprovalPayload resumen del documento que se envía a la política y se guarda en la solicitud.
type ApprovalPayload struct {
	DocumentID             string                `json:"document_id"`
	DocumentNumber         string                `json:"document_number"`
	WarehouseID            string                `json:"warehouse_id"`
	DestinationWarehouseID string                `json:"destination_warehouse_id,omitempty"`
	Reason                 string                `json:"reason,omitempty"`
	TotalBaseQuantity      decimal.Decimal       `json:"total_base_quantity"` // suma de |cantidad base|
	Items                  []ApprovalPayloadItem `json:"items"`
}

// ApprovalPolicy decide si una operación requiere aprobación previa.
type ApprovalPolicy interface {
	IsApprovalRequired(ctx context.Context, kind entity.ApprovalKind, payload ApprovalPayload) (bool, error)
}

// ApprovalRequester crea (o reutiliza) la solicitud de aprobación de un documento.
type ApprovalRequester interface {
	CreateApprovalRequest(ctx context.Context, kind entity.ApprovalKind, entityID string, payload ApprovalPayload, requestedBy, reason string) (*entity.ApprovalRequest, error)
}

// PostedMovement movimiento resumido dentro de un evento de posteo.
type PostedMovement struct {
	MovementID   string          `json:"movement_id"`
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// DocumentPostedEvent evento emitido tras el commit de un posteo.
type DocumentPostedEvent struct {
	EventID        string           `json:"event_id"`
	DocumentType   string           `json:"document_type"` // INVENTORY_ADJUSTMENT, INVENTORY_TRANSFER, RECEIPT, SALE
	DocumentID     string           `json:"document_id"`
	DocumentNumber string           `json:"document_number,omitempty"`
	PostedBy       string           `json:"posted_by"`
	PostedAt       time.Time        `json:"posted_at"`
	Movements      []PostedMovement `json:"movements"`
}

// EventPublisher publica eventos de dominio. Un fallo no revierte el posteo.
type EventPublisher interface {
	Publish(ctx context.Context, event DocumentPostedEvent) error
}

// PostingMetrics métricas de posteo.
type PostingMetrics interface {
	ObservePosting(document, outcome string, duration time.Duration)
	ObserveMovement(kind entity.MovementKind, quantity decimal.Decimal)
}

// AuditLogger persiste entradas de auditoría fuera de la transacción de posteo.
type AuditLogger interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}

// SlipRenderer genera el comprobante PDF de un documento.
type SlipRenderer interface {
	AdjustmentSlip(adj *entity.InventoryAdjustment, products map[string]*entity.Product) ([]byte, error)
	TransferSlip(tr *entity.InventoryTransfer, products map[string]*entity.Product) ([]byte, error)
}

// SlipArchiver guarda comprobantes de documentos posteados (p. ej. en S3).
type SlipArchiver interface {
	Archive(ctx context.Context, key string, pdf []byte) error
}

// Outcomes de posteo usados en métricas.
const (
	OutcomePosted          = "posted"
	OutcomePendingApproval = "pending_approval"
	OutcomeFailed          = "failed"
)

type noopMetrics struct{}

func (noopMetrics) ObservePosting(string, string, time.Duration)         {}
func (noopMetrics) ObserveMovement(entity.MovementKind, decimal.Decimal) {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, DocumentPostedEvent) error { return nil }

// RepositoryCatalog adapta un ProductRepository al puerto Catalog.
type RepositoryCatalog struct {
	Products repository.ProductRepository
}

func (c RepositoryCatalog) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return c.Products.GetByID(ctx, id)
}

func (c RepositoryCatalog) GetProductUOMs(ctx context.Context, productID string) ([]entity.ProductUOM, error) {
	return c.Products.ListUOMs(ctx, productID)
}
