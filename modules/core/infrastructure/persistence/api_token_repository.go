package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/core/domain/entities/apitoken"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var ErrTokenNotFound = serrors.NewError("INVALID_TOKEN", "api token not recognized", "Core.Errors.InvalidToken")

type APITokenRepository struct{}

func NewAPITokenRepository() apitoken.Repository {
	return &APITokenRepository{}
}

// GetByToken resolves a token value across all tenants. Token auth happens
// before tenant resolution, so this lookup is intentionally not tenant scoped.
func (r *APITokenRepository) GetByToken(ctx context.Context, token string) (*apitoken.APIToken, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var t apitoken.APIToken
	var id, tenantID string
	err = tx.QueryRow(ctx, `
		SELECT id, tenant_id, name, token, enabled, created_at
		FROM api_tokens
		WHERE token = $1 AND enabled = TRUE
	`, token).Scan(&id, &tenantID, &t.Name, &t.Token, &t.Enabled, &t.CreatedAt)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, pkgerrors.Wrap(err, "get api token")
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if t.TenantID, err = uuid.Parse(tenantID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *APITokenRepository) Create(ctx context.Context, t *apitoken.APIToken) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO api_tokens (id, tenant_id, name, token, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID.String(), t.TenantID.String(), t.Name, t.Token, t.Enabled, t.CreatedAt)
	return pkgerrors.Wrap(err, "create api token")
}

func (r *APITokenRepository) Disable(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE api_tokens
		SET enabled = FALSE
		WHERE id = $1 AND tenant_id = $2
	`, id.String(), tenantID.String())
	if err != nil {
		return pkgerrors.Wrap(err, "disable api token")
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}
