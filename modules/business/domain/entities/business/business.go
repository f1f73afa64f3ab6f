package business

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WhitelistStatus is the community-approval state of a business.
type WhitelistStatus string

const (
	WhitelistPending  WhitelistStatus = "PENDING"
	WhitelistAccepted WhitelistStatus = "ACCEPTED"
	WhitelistDeclined WhitelistStatus = "DECLINED"
)

type Business struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Address         string
	WhitelistStatus WhitelistStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type FindParams struct {
	OwnerID         *uuid.UUID
	WhitelistStatus WhitelistStatus
	Limit           int
	Offset          int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Business, error)
	List(ctx context.Context, params *FindParams) ([]*Business, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, b *Business) error
	// UpdateWhitelistStatus writes the caller-supplied status after an
	// existence check. Zero affected rows means the business is gone.
	UpdateWhitelistStatus(ctx context.Context, id uuid.UUID, status WhitelistStatus) (int64, error)
}
