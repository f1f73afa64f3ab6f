package user

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	WhitelistStatus WhitelistStatus
	Rank            Rank
	Limit           int
	Offset          int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context, params *FindParams) ([]User, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, u User) (User, error)
	UpdateWhitelistStatus(ctx context.Context, id uuid.UUID, status WhitelistStatus) (int64, error)
	UpdateRank(ctx context.Context, id uuid.UUID, rank Rank) error
	// SetPermissions replaces the user's grants with the given permission IDs.
	SetPermissions(ctx context.Context, id uuid.UUID, permissionIDs []uuid.UUID) error
}
