package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ApprovalRequestRepository = (*ApprovalRepo)(nil)

// ApprovalRepo solicitudes de aprobación (approval_requests). Payload se guarda como JSONB.
type ApprovalRepo struct {
	q Querier
}

func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

const approvalColumns = `id, type, entity_id, payload, status, requested_by_id, reason,
	reviewed_by_id, review_note, created_at, updated_at`

func (r *ApprovalRepo) Create(ctx context.Context, req *entity.ApprovalRequest) error {
	query := `INSERT INTO approval_requests (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, req.ID, string(req.Type), req.EntityID, []byte(req.Payload), req.Status,
		nullable(req.RequestedByID), req.Reason, nullable(req.ReviewedByID), req.ReviewNote, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert approval request: %w", err)
	}
	return nil
}

func (r *ApprovalRepo) GetByID(ctx context.Context, id string) (*entity.ApprovalRequest, error) {
	return r.get(ctx, `SELECT `+approvalColumns+` FROM approval_requests WHERE id = $1`, id)
}

func (r *ApprovalRepo) GetForUpdate(ctx context.Context, id string) (*entity.ApprovalRequest, error) {
	return r.get(ctx, `SELECT `+approvalColumns+` FROM approval_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *ApprovalRepo) FindPending(ctx context.Context, kind entity.ApprovalKind, entityID string) (*entity.ApprovalRequest, error) {
	return r.get(ctx, `SELECT `+approvalColumns+` FROM approval_requests
		WHERE type = $1 AND entity_id = $2 AND status = 'PENDING'
		ORDER BY created_at LIMIT 1`, string(kind), entityID)
}

func (r *ApprovalRepo) Update(ctx context.Context, req *entity.ApprovalRequest) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE approval_requests SET status = $2, reviewed_by_id = $3, review_note = $4, payload = $5, updated_at = $6
		WHERE id = $1`,
		req.ID, req.Status, nullable(req.ReviewedByID), req.ReviewNote, []byte(req.Payload), req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update approval request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("solicitud de aprobación", req.ID)
	}
	return nil
}

func (r *ApprovalRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.ApprovalRequest, error) {
	var w whereBuilder
	if status != "" {
		w.add("status = ?", status)
	}
	query := `SELECT ` + approvalColumns + ` FROM approval_requests` + w.sql() + ` ORDER BY created_at, id` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list approval requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.ApprovalRequest
	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *ApprovalRepo) get(ctx context.Context, query string, args ...any) (*entity.ApprovalRequest, error) {
	req, err := scanApproval(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval request: %w", err)
	}
	return req, nil
}

func scanApproval(row pgx.Row) (*entity.ApprovalRequest, error) {
	var (
		req                 entity.ApprovalRequest
		kind                string
		payload             []byte
		requested, reviewer *string
	)
	err := row.Scan(&req.ID, &kind, &req.EntityID, &payload, &req.Status, &requested, &req.Reason,
		&reviewer, &req.ReviewNote, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.Type = entity.ApprovalKind(kind)
	req.Payload = payload
	req.RequestedByID = deref(requested)
	req.ReviewedByID = deref(reviewer)
	return &req, nil
}
