package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/citizen"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
)

const citizenColumns = "id, tenant_id, owner_id, name, surname, date_of_birth, created_at, updated_at"

type CitizenRepository struct{}

func NewCitizenRepository() citizen.Repository {
	return &CitizenRepository{}
}

func (r *CitizenRepository) GetByID(ctx context.Context, id uuid.UUID) (*citizen.Citizen, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	var c citizen.Citizen
	var cid, tid, oid string
	err = tx.QueryRow(ctx, `
		SELECT `+citizenColumns+`
		FROM citizens
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String()).Scan(
		&cid, &tid, &oid, &c.Name, &c.Surname, &c.DateOfBirth, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, approval.ErrSubjectNotFound
		}
		return nil, pkgerrors.Wrap(err, "get citizen")
	}
	if err := parseCitizenIDs(&c, cid, tid, oid); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CitizenRepository) List(ctx context.Context, params *citizen.FindParams) ([]*citizen.Citizen, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildCitizenFilters(params, tenantID)
	query := `
		SELECT ` + citizenColumns + `
		FROM citizens
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list citizens")
	}
	defer rows.Close()

	var results []*citizen.Citizen
	for rows.Next() {
		var c citizen.Citizen
		var cid, tid, oid string
		if err := rows.Scan(&cid, &tid, &oid, &c.Name, &c.Surname, &c.DateOfBirth, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := parseCitizenIDs(&c, cid, tid, oid); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}
	return results, rows.Err()
}

func (r *CitizenRepository) Count(ctx context.Context, params *citizen.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildCitizenFilters(params, tenantID)

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM citizens WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, pkgerrors.Wrap(err, "count citizens")
}

func (r *CitizenRepository) Create(ctx context.Context, c *citizen.Citizen) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO citizens (id, tenant_id, owner_id, name, surname, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		c.ID.String(), c.TenantID.String(), c.OwnerID.String(),
		c.Name, c.Surname, c.DateOfBirth, c.CreatedAt, c.UpdatedAt,
	)
	return pkgerrors.Wrap(err, "create citizen")
}

func (r *CitizenRepository) UpdateName(ctx context.Context, id uuid.UUID, name, surname string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE citizens
		SET name = $1, surname = $2, updated_at = now()
		WHERE id = $3 AND tenant_id = $4
	`, name, surname, id.String(), tenantID.String())
	if err != nil {
		return 0, pkgerrors.Wrap(err, "update citizen name")
	}
	return tag.RowsAffected(), nil
}

func buildCitizenFilters(params *citizen.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.OwnerID != nil {
		args = append(args, params.OwnerID.String())
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	return where, args
}

func parseCitizenIDs(c *citizen.Citizen, id, tenantID, ownerID string) error {
	var err error
	if c.ID, err = uuid.Parse(id); err != nil {
		return err
	}
	if c.TenantID, err = uuid.Parse(tenantID); err != nil {
		return err
	}
	c.OwnerID, err = uuid.Parse(ownerID)
	return err
}
