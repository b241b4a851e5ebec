package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type adjustmentRepo struct{ a *access }

var _ repository.InventoryAdjustmentRepository = (*adjustmentRepo)(nil)

func (r *adjustmentRepo) Create(_ context.Context, adj *entity.InventoryAdjustment) error {
	if err := uniqueProducts(len(adj.Items), func(i int) string { return adj.Items[i].ProductID }); err != nil {
		return err
	}
	return r.a.write(func(st *ledgerState) error {
		if _, ok := st.adjustments[adj.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.adjustments {
			if other.AdjustmentNumber == adj.AdjustmentNumber {
				return domain.ErrDuplicate
			}
		}
		st.adjustments[adj.ID] = cloneAdjustment(*adj)
		return nil
	})
}

func (r *adjustmentRepo) Update(_ context.Context, adj *entity.InventoryAdjustment) error {
	if err := uniqueProducts(len(adj.Items), func(i int) string { return adj.Items[i].ProductID }); err != nil {
		return err
	}
	return r.a.write(func(st *ledgerState) error {
		if _, ok := st.adjustments[adj.ID]; !ok {
			return domain.NewNotFoundError("ajuste", adj.ID)
		}
		st.adjustments[adj.ID] = cloneAdjustment(*adj)
		return nil
	})
}

func (r *adjustmentRepo) GetByID(_ context.Context, id string) (*entity.InventoryAdjustment, error) {
	var out *entity.InventoryAdjustment
	r.a.read(func(st *ledgerState) {
		if a, ok := st.adjustments[id]; ok {
			c := cloneAdjustment(a)
			out = &c
		}
	})
	return out, nil
}

func (r *adjustmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryAdjustment, error) {
	return r.GetByID(ctx, id)
}

func (r *adjustmentRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.InventoryAdjustment, error) {
	var out []*entity.InventoryAdjustment
	r.a.read(func(st *ledgerState) {
		for _, a := range st.adjustments {
			switch {
			case f.Status != "" && a.Status != f.Status,
				f.WarehouseID != "" && a.WarehouseID != f.WarehouseID,
				f.BranchID != "" && a.BranchID != f.BranchID,
				f.From != nil && a.AdjustmentDate.Before(*f.From),
				f.To != nil && a.AdjustmentDate.After(*f.To):
				continue
			}
			c := cloneAdjustment(a)
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].AdjustmentNumber < out[j].AdjustmentNumber
	})
	return paginate(out, f.Limit, f.Offset), nil
}

type transferRepo struct{ a *access }

var _ repository.InventoryTransferRepository = (*transferRepo)(nil)

func (r *transferRepo) Create(_ context.Context, tr *entity.InventoryTransfer) error {
	if err := uniqueProducts(len(tr.Items), func(i int) string { return tr.Items[i].ProductID }); err != nil {
		return err
	}
	return r.a.write(func(st *ledgerState) error {
		if _, ok := st.transfers[tr.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[tr.ID] = cloneTransfer(*tr)
		return nil
	})
}

func (r *transferRepo) Update(_ context.Context, tr *entity.InventoryTransfer) error {
	if err := uniqueProducts(len(tr.Items), func(i int) string { return tr.Items[i].ProductID }); err != nil {
		return err
	}
	return r.a.write(func(st *ledgerState) error {
		if _, ok := st.transfers[tr.ID]; !ok {
			return domain.NewNotFoundError("traslado", tr.ID)
		}
		st.transfers[tr.ID] = cloneTransfer(*tr)
		return nil
	})
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransfer, error) {
	var out *entity.InventoryTransfer
	r.a.read(func(st *ledgerState) {
		if t, ok := st.transfers[id]; ok {
			c := cloneTransfer(t)
			out = &c
		}
	})
	return out, nil
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.InventoryTransfer, error) {
	var out []*entity.InventoryTransfer
	r.a.read(func(st *ledgerState) {
		for _, t := range st.transfers {
			switch {
			case f.Status != "" && t.Status != f.Status,
				f.WarehouseID != "" && t.SourceWarehouseID != f.WarehouseID && t.DestinationWarehouseID != f.WarehouseID,
				f.BranchID != "" && t.BranchID != f.BranchID,
				f.From != nil && t.TransferDate.Before(*f.From),
				f.To != nil && t.TransferDate.After(*f.To):
				continue
			}
			c := cloneTransfer(t)
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].TransferNumber < out[j].TransferNumber
	})
	return paginate(out, f.Limit, f.Offset), nil
}

type approvalRepo struct{ a *access }

var _ repository.ApprovalRequestRepository = (*approvalRepo)(nil)

func (r *approvalRepo) Create(_ context.Context, req *entity.ApprovalRequest) error {
	return r.a.write(func(st *ledgerState) error {
		if _, ok := st.approvals[req.ID]; ok {
			return domain.ErrDuplicate
		}
		st.approvals[req.ID] = cloneApproval(*req)
		return nil
	})
}

func (r *approvalRepo) GetByID(_ context.Context, id string) (*entity.ApprovalRequest, error) {
	var out *entity.ApprovalRequest
	r.a.read(func(st *ledgerState) {
		if req, ok := st.approvals[id]; ok {
			c := cloneApproval(req)
			out = &c
		}
	})
	return out, nil
}

func (r *approvalRepo) GetForUpdate(ctx context.Context, id string) (*entity.ApprovalRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *approvalRepo) FindPending(_ context.Context, kind entity.ApprovalKind, entityID string) (*entity.ApprovalRequest, error) {
	var out *entity.ApprovalRequest
	r.a.read(func(st *ledgerState) {
		for _, req := range st.approvals {
			if req.Type == kind && req.EntityID == entityID && req.Status == entity.ApprovalStatusPending {
				c := cloneApproval(req)
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *approvalRepo) Update(_ context.Context, req *entity.ApprovalRequest) error {
	return r.a.write(func(st *ledgerState) error {
		if _, ok := st.approvals[req.ID]; !ok {
			return domain.NewNotFoundError("solicitud de aprobación", req.ID)
		}
		st.approvals[req.ID] = cloneApproval(*req)
		return nil
	})
}

func (r *approvalRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.ApprovalRequest, error) {
	var out []*entity.ApprovalRequest
	r.a.read(func(st *ledgerState) {
		for _, req := range st.approvals {
			if status != "" && req.Status != status {
				continue
			}
			c := cloneApproval(req)
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, limit, offset), nil
}

// uniqueProducts replica la restricción UNIQUE (documento, producto) de la base de datos.
func uniqueProducts(n int, productAt func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := productAt(i)
		if _, dup := seen[id]; dup {
			return domain.ErrDuplicate
		}
		seen[id] = struct{}{}
	}
	return nil
}
