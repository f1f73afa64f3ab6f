package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/logging/domain/entities/auditlog"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
)

const auditLogColumns = "id, tenant_id, translation_key, action_type, executor_id, before_state, after_state, created_at"

type AuditLogRepository struct{}

func NewAuditLogRepository() auditlog.Repository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) List(ctx context.Context, params *auditlog.FindParams) ([]*auditlog.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildAuditFilters(params, tenantID)
	query := `
		SELECT ` + auditLogColumns + `
		FROM audit_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list audit logs")
	}
	defer rows.Close()

	var entries []*auditlog.Entry
	for rows.Next() {
		var e auditlog.Entry
		var tid, actionType, executorID string
		if err := rows.Scan(&e.ID, &tid, &e.TranslationKey, &actionType, &executorID, &e.Before, &e.After, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.TenantID, err = uuid.Parse(tid); err != nil {
			return nil, err
		}
		if e.ExecutorID, err = uuid.Parse(executorID); err != nil {
			return nil, err
		}
		e.ActionType = auditlog.ActionType(actionType)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *AuditLogRepository) Count(ctx context.Context, params *auditlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildAuditFilters(params, tenantID)

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM audit_logs WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, pkgerrors.Wrap(err, "count audit logs")
}

// Create appends an entry. The tenant scope comes from the entry itself, not
// the context, because writes happen on a background goroutine.
func (r *AuditLogRepository) Create(ctx context.Context, entry *auditlog.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO audit_logs (tenant_id, translation_key, action_type, executor_id, before_state, after_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		entry.TenantID.String(), entry.TranslationKey, string(entry.ActionType),
		entry.ExecutorID.String(), entry.Before, entry.After, entry.CreatedAt,
	)
	return pkgerrors.Wrap(err, "create audit log")
}

func buildAuditFilters(params *auditlog.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.ExecutorID != nil {
		args = append(args, params.ExecutorID.String())
		where = append(where, fmt.Sprintf("executor_id = $%d", len(args)))
	}
	if params.ActionType != "" {
		args = append(args, string(params.ActionType))
		where = append(where, fmt.Sprintf("action_type = $%d", len(args)))
	}
	if params.From != nil {
		args = append(args, *params.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return where, args
}
