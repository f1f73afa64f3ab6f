package call

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the dispatch lifecycle of an emergency call.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusAssigned Status = "ASSIGNED"
	StatusClosed   Status = "CLOSED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusClosed:
		return true
	}
	return false
}

type Call struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	CallerName  string
	Location    string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FindParams struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Call, error)
	List(ctx context.Context, params *FindParams) ([]*Call, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, c *Call) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (int64, error)
}
