package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/dispatch/domain/entities/call"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
)

const callColumns = "id, tenant_id, caller_name, location, description, status, created_at, updated_at"

type CallRepository struct{}

func NewCallRepository() call.Repository {
	return &CallRepository{}
}

func (r *CallRepository) GetByID(ctx context.Context, id uuid.UUID) (*call.Call, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+callColumns+`
		FROM emergency_calls
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())
	c, err := scanCall(row)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, approval.ErrSubjectNotFound
		}
		return nil, pkgerrors.Wrap(err, "get emergency call")
	}
	return c, nil
}

func (r *CallRepository) List(ctx context.Context, params *call.FindParams) ([]*call.Call, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildCallFilters(params, tenantID)
	query := `
		SELECT ` + callColumns + `
		FROM emergency_calls
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list emergency calls")
	}
	defer rows.Close()

	var results []*call.Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *CallRepository) Count(ctx context.Context, params *call.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildCallFilters(params, tenantID)

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM emergency_calls WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, pkgerrors.Wrap(err, "count emergency calls")
}

func (r *CallRepository) Create(ctx context.Context, c *call.Call) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO emergency_calls (id, tenant_id, caller_name, location, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		c.ID.String(), c.TenantID.String(), c.CallerName, c.Location,
		c.Description, string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	return pkgerrors.Wrap(err, "create emergency call")
}

func (r *CallRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status call.Status) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE emergency_calls
		SET status = $1, updated_at = now()
		WHERE id = $2 AND tenant_id = $3
	`, string(status), id.String(), tenantID.String())
	if err != nil {
		return 0, pkgerrors.Wrap(err, "update emergency call status")
	}
	return tag.RowsAffected(), nil
}

func buildCallFilters(params *call.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	return where, args
}

func scanCall(row pgx.Row) (*call.Call, error) {
	var c call.Call
	var id, tid, status string
	if err := row.Scan(&id, &tid, &c.CallerName, &c.Location, &c.Description, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if c.TenantID, err = uuid.Parse(tid); err != nil {
		return nil, err
	}
	c.Status = call.Status(status)
	return &c, nil
}
