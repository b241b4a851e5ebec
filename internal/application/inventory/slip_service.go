package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SlipService genera comprobantes PDF de ajustes y traslados y archiva los de documentos posteados.
type SlipService struct {
	renderer SlipRenderer
	archiver SlipArchiver
	repos    TxRepos
	catalog  Catalog
	log      zerolog.Logger
}

// NewSlipService construye el servicio. archiver puede ser nil (sin archivo).
func NewSlipService(renderer SlipRenderer, archiver SlipArchiver, repos TxRepos, catalog Catalog, log zerolog.Logger) *SlipService {
	return &SlipService{renderer: renderer, archiver: archiver, repos: repos, catalog: catalog, log: log}
}

// AdjustmentSlip devuelve el PDF del ajuste y un nombre de archivo sugerido.
func (s *SlipService) AdjustmentSlip(ctx context.Context, id string) ([]byte, string, error) {
	adj, err := s.repos.Adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if adj == nil {
		return nil, "", domain.NewNotFoundError("ajuste", id)
	}
	products, err := s.loadProducts(ctx, adjustmentProductIDs(adj))
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.AdjustmentSlip(adj, products)
	if err != nil {
		return nil, "", fmt.Errorf("render adjustment slip: %w", err)
	}
	return pdf, adj.AdjustmentNumber + ".pdf", nil
}

// TransferSlip devuelve el PDF del traslado y un nombre de archivo sugerido.
func (s *SlipService) TransferSlip(ctx context.Context, id string) ([]byte, string, error) {
	tr, err := s.repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if tr == nil {
		return nil, "", domain.NewNotFoundError("traslado", id)
	}
	ids := make([]string, 0, len(tr.Items))
	for _, it := range tr.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.loadProducts(ctx, ids)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.TransferSlip(tr, products)
	if err != nil {
		return nil, "", fmt.Errorf("render transfer slip: %w", err)
	}
	return pdf, tr.TransferNumber + ".pdf", nil
}

func (s *SlipService) archiveAdjustment(ctx context.Context, adj *entity.InventoryAdjustment, products map[string]*entity.Product) {
	if s.archiver == nil {
		return
	}
	pdf, err := s.renderer.AdjustmentSlip(adj, products)
	if err != nil {
		s.log.Warn().Err(err).Str("adjustment_id", adj.ID).Msg("no se pudo generar comprobante de ajuste")
		return
	}
	key := fmt.Sprintf("adjustments/%s.pdf", adj.AdjustmentNumber)
	if err := s.archiver.Archive(ctx, key, pdf); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("no se pudo archivar comprobante de ajuste")
	}
}

func (s *SlipService) archiveTransfer(ctx context.Context, tr *entity.InventoryTransfer, products map[string]*entity.Product) {
	if s.archiver == nil {
		return
	}
	pdf, err := s.renderer.TransferSlip(tr, products)
	if err != nil {
		s.log.Warn().Err(err).Str("transfer_id", tr.ID).Msg("no se pudo generar comprobante de traslado")
		return
	}
	key := fmt.Sprintf("transfers/%s.pdf", tr.TransferNumber)
	if err := s.archiver.Archive(ctx, key, pdf); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("no se pudo archivar comprobante de traslado")
	}
}

func (s *SlipService) loadProducts(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	lookup := newProductLookup(s.catalog)
	for _, id := range ids {
		if _, err := lookup.get(ctx, id); err != nil {
			return nil, err
		}
	}
	return lookup.products(), nil
}

func adjustmentProductIDs(adj *entity.InventoryAdjustment) []string {
	ids := make([]string, 0, len(adj.Items))
	for _, it := range adj.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
