package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/domain/entities/apitoken"
	"github.com/lumen-rp/cadhub/pkg/composables"
)

// AuthService resolves request principals. Header-based user auth and bearer
// token auth are separate trust boundaries: a valid token authorizes the
// token-scoped API without passing through the permission gate.
type AuthService struct {
	users  user.Repository
	tokens apitoken.Repository
}

func NewAuthService(users user.Repository, tokens apitoken.Repository) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) UserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var found user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.users.GetByID(txCtx, id)
		return err
	})
	return found, err
}

func (s *AuthService) TokenByValue(ctx context.Context, token string) (*apitoken.APIToken, error) {
	var found *apitoken.APIToken
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.tokens.GetByToken(txCtx, token)
		return err
	})
	return found, err
}

// CreateToken mints a random shared secret for an external CAD integration.
func (s *AuthService) CreateToken(ctx context.Context, name string) (*apitoken.APIToken, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	t := &apitoken.APIToken{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Token:     hex.EncodeToString(raw),
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.tokens.Create(txCtx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *AuthService) DisableToken(ctx context.Context, id uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.tokens.Disable(txCtx, id)
	})
}
