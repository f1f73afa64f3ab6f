package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/repo"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var ErrUserNotFound = serrors.NewError("SUBJECT_NOT_FOUND", "user not found", "Core.Errors.UserNotFound")

const userColumns = "id, tenant_id, username, rank, whitelist_status, banned, created_at"

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())
	u, err := r.scanUser(ctx, row)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "get user")
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1 AND tenant_id = $2
	`, username, tenantID.String())
	u, err := r.scanUser(ctx, row)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "get user by username")
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildUserFilters(params, tenantID)
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list users")
	}
	defer rows.Close()

	var results []user.User
	for rows.Next() {
		u, err := r.scanUser(ctx, rows)
		if err != nil {
			return nil, err
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildUserFilters(params, tenantID)

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, pkgerrors.Wrap(err, "count users")
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, tenant_id, username, rank, whitelist_status, banned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		u.ID().String(), u.TenantID().String(), u.Username(),
		string(u.Rank()), string(u.WhitelistStatus()), u.Banned(), u.CreatedAt(),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create user")
	}
	return u, nil
}

func (r *UserRepository) UpdateWhitelistStatus(ctx context.Context, id uuid.UUID, status user.WhitelistStatus) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET whitelist_status = $1
		WHERE id = $2 AND tenant_id = $3
	`, string(status), id.String(), tenantID.String())
	if err != nil {
		return 0, pkgerrors.Wrap(err, "update user whitelist status")
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepository) UpdateRank(ctx context.Context, id uuid.UUID, rank user.Rank) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET rank = $1
		WHERE id = $2 AND tenant_id = $3
	`, string(rank), id.String(), tenantID.String())
	if err != nil {
		return pkgerrors.Wrap(err, "update user rank")
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetPermissions(ctx context.Context, id uuid.UUID, permissionIDs []uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM user_permissions
		WHERE user_id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String()); err != nil {
		return pkgerrors.Wrap(err, "clear user permissions")
	}
	for _, permissionID := range permissionIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_permissions (user_id, tenant_id, permission_id)
			VALUES ($1, $2, $3)
		`, id.String(), tenantID.String(), permissionID.String()); err != nil {
			return pkgerrors.Wrap(err, "grant user permission")
		}
	}
	return nil
}

func (r *UserRepository) scanUser(ctx context.Context, row pgx.Row) (user.User, error) {
	var id, tenantID, username, rank, whitelistStatus string
	var banned bool
	var createdAt time.Time
	if err := row.Scan(&id, &tenantID, &username, &rank, &whitelistStatus, &banned, &createdAt); err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, err
	}
	perms, err := r.loadPermissions(ctx, userID, tid)
	if err != nil {
		return nil, err
	}
	return user.New(
		username,
		user.WithID(userID),
		user.WithTenantID(tid),
		user.WithRank(user.Rank(rank)),
		user.WithWhitelistStatus(user.WhitelistStatus(whitelistStatus)),
		user.WithBanned(banned),
		user.WithPermissions(perms),
		user.WithCreatedAt(createdAt),
	), nil
}

func (r *UserRepository) loadPermissions(ctx context.Context, userID, tenantID uuid.UUID) ([]*permission.Permission, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT p.id, p.name, p.resource, p.action, p.modifier
		FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1 AND up.tenant_id = $2
	`, userID.String(), tenantID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load user permissions")
	}
	defer rows.Close()

	var perms []*permission.Permission
	for rows.Next() {
		var p permission.Permission
		var id, resource, action, modifier string
		if err := rows.Scan(&id, &p.Name, &resource, &action, &modifier); err != nil {
			return nil, err
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		p.Resource = permission.Resource(resource)
		p.Action = permission.Action(action)
		p.Modifier = permission.Modifier(modifier)
		perms = append(perms, &p)
	}
	return perms, rows.Err()
}

func buildUserFilters(params *user.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID.String()}
	if params == nil {
		return where, args
	}
	if params.WhitelistStatus != "" {
		args = append(args, string(params.WhitelistStatus))
		where = append(where, fmt.Sprintf("whitelist_status = $%d", len(args)))
	}
	if params.Rank != "" {
		args = append(args, string(params.Rank))
		where = append(where, fmt.Sprintf("rank = $%d", len(args)))
	}
	return where, args
}
