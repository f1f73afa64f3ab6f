package apitoken

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// APIToken is a shared-secret credential for external CAD integrations. Token
// authentication is a separate trust boundary from the permission gate: a
// matching token grants access to the token-scoped API surface outright.
type APIToken struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Token     string
	Enabled   bool
	CreatedAt time.Time
}

type Repository interface {
	GetByToken(ctx context.Context, token string) (*APIToken, error)
	Create(ctx context.Context, t *APIToken) error
	Disable(ctx context.Context, id uuid.UUID) error
}
