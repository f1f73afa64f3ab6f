package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/weapon"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
)

const weaponColumns = "id, tenant_id, citizen_id, model, serial_number, bof_status, created_at"

type WeaponRepository struct{}

func NewWeaponRepository() weapon.Repository {
	return &WeaponRepository{}
}

func (r *WeaponRepository) GetByID(ctx context.Context, id uuid.UUID) (*weapon.Weapon, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+weaponColumns+`
		FROM weapons
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())
	w, err := scanWeapon(row)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, approval.ErrSubjectNotFound
		}
		return nil, pkgerrors.Wrap(err, "get weapon")
	}
	return w, nil
}

func (r *WeaponRepository) List(ctx context.Context, params *weapon.FindParams) ([]*weapon.Weapon, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildWeaponFilters(params, tenantID)
	query := `
		SELECT ` + weaponColumns + `
		FROM weapons
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list weapons")
	}
	defer rows.Close()

	var results []*weapon.Weapon
	for rows.Next() {
		w, err := scanWeapon(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

func (r *WeaponRepository) Count(ctx context.Context, params *weapon.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildWeaponFilters(params, tenantID)

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM weapons WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, pkgerrors.Wrap(err, "count weapons")
}

func (r *WeaponRepository) Create(ctx context.Context, w *weapon.Weapon) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO weapons (id, tenant_id, citizen_id, model, serial_number, bof_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		w.ID.String(), w.TenantID.String(), w.CitizenID.String(),
		w.Model, w.SerialNumber, string(w.BOFStatus), w.CreatedAt,
	)
	return pkgerrors.Wrap(err, "create weapon")
}

func (r *WeaponRepository) UpdateBOFStatusWherePending(ctx context.Context, id uuid.UUID, status weapon.BOFStatus) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE weapons
		SET bof_status = $1
		WHERE id = $2 AND tenant_id = $3 AND bof_status = $4
	`, string(status), id.String(), tenantID.String(), string(weapon.BOFPending))
	if err != nil {
		return 0, pkgerrors.Wrap(err, "update weapon bof status")
	}
	return tag.RowsAffected(), nil
}

func buildWeaponFilters(params *weapon.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.CitizenID != nil {
		args = append(args, params.CitizenID.String())
		where = append(where, fmt.Sprintf("citizen_id = $%d", len(args)))
	}
	if params.BOFStatus != "" {
		args = append(args, string(params.BOFStatus))
		where = append(where, fmt.Sprintf("bof_status = $%d", len(args)))
	}
	return where, args
}

func scanWeapon(row pgx.Row) (*weapon.Weapon, error) {
	var w weapon.Weapon
	var id, tid, cid, status string
	if err := row.Scan(&id, &tid, &cid, &w.Model, &w.SerialNumber, &status, &w.CreatedAt); err != nil {
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
	w.BOFStatus = weapon.BOFStatus(status)
	return &w, nil
}
