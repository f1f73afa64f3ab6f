package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/approvals/infrastructure/persistence/models"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
)

const approvalRequestColumns = "id, tenant_id, kind, status, subject_id, payload, created_at, updated_at"

type ApprovalRequestRepository struct{}

func NewApprovalRequestRepository() approval.Repository {
	return &ApprovalRequestRepository{}
}

func (r *ApprovalRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*approval.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+approvalRequestColumns+`
		FROM approval_requests
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())

	var m models.ApprovalRequest
	if err := scanApprovalRequest(row, &m); err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, approval.ErrRequestNotFound
		}
		return nil, pkgerrors.Wrap(err, "get approval request")
	}
	return toDomainApprovalRequest(&m)
}

func (r *ApprovalRequestRepository) List(ctx context.Context, params *approval.FindParams) ([]*approval.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildApprovalFilters(params, tenantID)
	query := `
		SELECT ` + approvalRequestColumns + `
		FROM approval_requests
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at ASC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list approval requests")
	}
	defer rows.Close()

	var results []*approval.Request
	for rows.Next() {
		var m models.ApprovalRequest
		if err := scanApprovalRequest(rows, &m); err != nil {
			return nil, err
		}
		req, err := toDomainApprovalRequest(&m)
		if err != nil {
			return nil, err
		}
		results = append(results, req)
	}
	return results, rows.Err()
}

func (r *ApprovalRequestRepository) Count(ctx context.Context, params *approval.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildApprovalFilters(params, tenantID)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM approval_requests
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, pkgerrors.Wrap(err, "count approval requests")
	}
	return count, nil
}

func (r *ApprovalRequestRepository) Create(ctx context.Context, req *approval.Request) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO approval_requests (id, tenant_id, kind, status, subject_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		req.ID.String(),
		req.TenantID.String(),
		string(req.Kind),
		string(req.Status),
		req.SubjectID.String(),
		req.Payload,
		req.CreatedAt,
		req.UpdatedAt,
	)
	return pkgerrors.Wrap(err, "create approval request")
}

func (r *ApprovalRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		DELETE FROM approval_requests WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())
	return pkgerrors.Wrap(err, "delete approval request")
}

func (r *ApprovalRequestRepository) CountPendingForSubject(ctx context.Context, kind approval.Kind, subjectID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM approval_requests
		WHERE tenant_id = $1 AND kind = $2 AND subject_id = $3 AND status = $4
	`, tenantID.String(), string(kind), subjectID.String(), string(approval.StatusPending)).Scan(&count)
	return count, pkgerrors.Wrap(err, "count pending for subject")
}

// UpdateStatus flips the status only when the current status matches the
// expected one, returning the affected-row count. Concurrent transitions on
// the same request therefore resolve to exactly one winner.
func (r *ApprovalRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to approval.Status) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE approval_requests
		SET status = $1, updated_at = now()
		WHERE id = $2 AND tenant_id = $3 AND status = $4
	`, string(to), id.String(), tenantID.String(), string(from))
	if err != nil {
		return 0, pkgerrors.Wrap(err, "update approval request status")
	}
	return tag.RowsAffected(), nil
}

func buildApprovalFilters(params *approval.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.Kind != "" {
		args = append(args, string(params.Kind))
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if len(params.Statuses) > 0 {
		statuses := make([]string, 0, len(params.Statuses))
		for _, s := range params.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if params.SubjectID != nil {
		args = append(args, params.SubjectID.String())
		where = append(where, fmt.Sprintf("subject_id = $%d", len(args)))
	}
	return where, args
}

func scanApprovalRequest(row pgx.Row, m *models.ApprovalRequest) error {
	return row.Scan(
		&m.ID,
		&m.TenantID,
		&m.Kind,
		&m.Status,
		&m.SubjectID,
		&m.Payload,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

func toDomainApprovalRequest(m *models.ApprovalRequest) (*approval.Request, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, err
	}
	subjectID, err := uuid.Parse(m.SubjectID)
	if err != nil {
		return nil, err
	}
	return &approval.Request{
		ID:        id,
		TenantID:  tenantID,
		Kind:      approval.Kind(m.Kind),
		Status:    approval.Status(m.Status),
		SubjectID: subjectID,
		Payload:   m.Payload,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
