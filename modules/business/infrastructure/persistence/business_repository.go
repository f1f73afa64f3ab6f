package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/business/domain/entities/business"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
)

const businessColumns = "id, tenant_id, owner_id, name, address, whitelist_status, created_at, updated_at"

type BusinessRepository struct{}

func NewBusinessRepository() business.Repository {
	return &BusinessRepository{}
}

func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())
	b, err := scanBusiness(row)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, approval.ErrSubjectNotFound
		}
		return nil, pkgerrors.Wrap(err, "get business")
	}
	return b, nil
}

func (r *BusinessRepository) List(ctx context.Context, params *business.FindParams) ([]*business.Business, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildBusinessFilters(params, tenantID)
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list businesses")
	}
	defer rows.Close()

	var results []*business.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

func (r *BusinessRepository) Count(ctx context.Context, params *business.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildBusinessFilters(params, tenantID)

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM businesses WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, pkgerrors.Wrap(err, "count businesses")
}

func (r *BusinessRepository) Create(ctx context.Context, b *business.Business) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO businesses (id, tenant_id, owner_id, name, address, whitelist_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		b.ID.String(), b.TenantID.String(), b.OwnerID.String(),
		b.Name, b.Address, string(b.WhitelistStatus), b.CreatedAt, b.UpdatedAt,
	)
	return pkgerrors.Wrap(err, "create business")
}

func (r *BusinessRepository) UpdateWhitelistStatus(ctx context.Context, id uuid.UUID, status business.WhitelistStatus) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE businesses
		SET whitelist_status = $1, updated_at = now()
		WHERE id = $2 AND tenant_id = $3
	`, string(status), id.String(), tenantID.String())
	if err != nil {
		return 0, pkgerrors.Wrap(err, "update business whitelist status")
	}
	return tag.RowsAffected(), nil
}

func buildBusinessFilters(params *business.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.OwnerID != nil {
		args = append(args, params.OwnerID.String())
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if params.WhitelistStatus != "" {
		args = append(args, string(params.WhitelistStatus))
		where = append(where, fmt.Sprintf("whitelist_status = $%d", len(args)))
	}
	return where, args
}

func scanBusiness(row pgx.Row) (*business.Business, error) {
	var b business.Business
	var id, tid, oid, status string
	if err := row.Scan(&id, &tid, &oid, &b.Name, &b.Address, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if b.TenantID, err = uuid.Parse(tid); err != nil {
		return nil, err
	}
	if b.OwnerID, err = uuid.Parse(oid); err != nil {
		return nil, err
	}
	b.WhitelistStatus = business.WhitelistStatus(status)
	return &b, nil
}
