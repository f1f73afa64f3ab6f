package citizen

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Citizen struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Surname     string
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FindParams struct {
	OwnerID *uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Citizen, error)
	List(ctx context.Context, params *FindParams) ([]*Citizen, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, c *Citizen) error
	// UpdateName copies an accepted name change onto the citizen record.
	// Returns the number of affected rows; zero means the citizen is gone.
	UpdateName(ctx context.Context, id uuid.UUID, name, surname string) (int64, error)
}
