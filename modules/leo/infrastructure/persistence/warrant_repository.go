package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/warrant"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
)

const warrantColumns = "id, tenant_id, citizen_id, officer_id, description, status, approval_status, created_at, updated_at"

type WarrantRepository struct{}

func NewWarrantRepository() warrant.Repository {
	return &WarrantRepository{}
}

func (r *WarrantRepository) GetByID(ctx context.Context, id uuid.UUID) (*warrant.Warrant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+warrantColumns+`
		FROM warrants
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())
	w, err := scanWarrant(row)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, approval.ErrSubjectNotFound
		}
		return nil, pkgerrors.Wrap(err, "get warrant")
	}
	return w, nil
}

func (r *WarrantRepository) List(ctx context.Context, params *warrant.FindParams) ([]*warrant.Warrant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildWarrantFilters(params, tenantID)
	query := `
		SELECT ` + warrantColumns + `
		FROM warrants
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list warrants")
	}
	defer rows.Close()

	var results []*warrant.Warrant
	for rows.Next() {
		w, err := scanWarrant(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

func (r *WarrantRepository) Count(ctx context.Context, params *warrant.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildWarrantFilters(params, tenantID)

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM warrants WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, pkgerrors.Wrap(err, "count warrants")
}

func (r *WarrantRepository) Create(ctx context.Context, w *warrant.Warrant) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO warrants (id, tenant_id, citizen_id, officer_id, description, status, approval_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		w.ID.String(), w.TenantID.String(), w.CitizenID.String(), w.OfficerID.String(),
		w.Description, string(w.Status), string(w.ApprovalStatus), w.CreatedAt, w.UpdatedAt,
	)
	return pkgerrors.Wrap(err, "create warrant")
}

func (r *WarrantRepository) SetApproval(ctx context.Context, id uuid.UUID, status warrant.Status, approvalStatus warrant.ApprovalStatus) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE warrants
		SET status = $1, approval_status = $2, updated_at = now()
		WHERE id = $3 AND tenant_id = $4
	`, string(status), string(approvalStatus), id.String(), tenantID.String())
	if err != nil {
		return 0, pkgerrors.Wrap(err, "set warrant approval")
	}
	return tag.RowsAffected(), nil
}

func buildWarrantFilters(params *warrant.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.CitizenID != nil {
		args = append(args, params.CitizenID.String())
		where = append(where, fmt.Sprintf("citizen_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.ApprovalStatus != "" {
		args = append(args, string(params.ApprovalStatus))
		where = append(where, fmt.Sprintf("approval_status = $%d", len(args)))
	}
	return where, args
}

func scanWarrant(row pgx.Row) (*warrant.Warrant, error) {
	var w warrant.Warrant
	var id, tid, cid, oid, status, approvalStatus string
	if err := row.Scan(&id, &tid, &cid, &oid, &w.Description, &status, &approvalStatus, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if w.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if w.TenantID, err = uuid.Parse(tid); err != nil {
		return nil, err
	}
	if w.CitizenID, err = uuid.Parse(cid); err != nil {
		return nil, err
	}
	if w.OfficerID, err = uuid.Parse(oid); err != nil {
		return nil, err
	}
	w.Status = warrant.Status(status)
	w.ApprovalStatus = warrant.ApprovalStatus(approvalStatus)
	return &w, nil
}
