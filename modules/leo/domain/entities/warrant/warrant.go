package warrant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the applied-effect lifecycle of a warrant, parallel to and
// distinct from the approval status driving it.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// ApprovalStatus mirrors the approval workflow state on the warrant row.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalAccepted ApprovalStatus = "ACCEPTED"
	ApprovalDeclined ApprovalStatus = "DECLINED"
)

type Warrant struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	CitizenID      uuid.UUID
	OfficerID      uuid.UUID
	Description    string
	Status         Status
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type FindParams struct {
	CitizenID      *uuid.UUID
	Status         Status
	ApprovalStatus ApprovalStatus
	Limit          int
	Offset         int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Warrant, error)
	List(ctx context.Context, params *FindParams) ([]*Warrant, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, w *Warrant) error
	// SetApproval writes both the lifecycle status and the approval status in
	// one update. Zero affected rows means the warrant no longer exists.
	SetApproval(ctx context.Context, id uuid.UUID, status Status, approval ApprovalStatus) (int64, error)
}
