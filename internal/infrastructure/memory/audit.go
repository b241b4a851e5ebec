package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type auditState struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

// AuditLogs bitácora de auditoría.
func (s *Store) AuditLogs() repository.AuditLogRepository { return s.audit }

func (a *auditState) Create(_ context.Context, log *entity.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	c := *log
	c.Details = append([]byte(nil), log.Details...)
	a.logs = append(a.logs, c)
	return nil
}

func (a *auditState) ListByResource(_ context.Context, resource, resourceID string) ([]*entity.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*entity.AuditLog
	for _, l := range a.logs {
		if l.Resource == resource && (resourceID == "" || l.ResourceID == resourceID) {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}
