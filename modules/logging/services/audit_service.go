package services

import (
	"context"

	"github.com/lumen-rp/cadhub/modules/logging/domain/entities/auditlog"
	"github.com/lumen-rp/cadhub/pkg/composables"
)

// AuditService is the read side of the audit trail.
type AuditService struct {
	logs auditlog.Repository
}

func NewAuditService(logs auditlog.Repository) *AuditService {
	return &AuditService{logs: logs}
}

func (s *AuditService) List(ctx context.Context, params *auditlog.FindParams) ([]*auditlog.Entry, int64, error) {
	var entries []*auditlog.Entry
	var total int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		if entries, err = s.logs.List(txCtx, params); err != nil {
			return err
		}
		total, err = s.logs.Count(txCtx, params)
		return err
	})
	return entries, total, err
}
