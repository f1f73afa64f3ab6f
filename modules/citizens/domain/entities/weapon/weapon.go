package weapon

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BOFStatus is the bureau-of-firearms review state of a registered weapon.
type BOFStatus string

const (
	BOFPending  BOFStatus = "PENDING"
	BOFAccepted BOFStatus = "ACCEPTED"
	BOFDeclined BOFStatus = "DECLINED"
)

type Weapon struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	CitizenID    uuid.UUID
	Model        string
	SerialNumber string
	BOFStatus    BOFStatus
	CreatedAt    time.Time
}

type FindParams struct {
	CitizenID *uuid.UUID
	BOFStatus BOFStatus
	Limit     int
	Offset    int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Weapon, error)
	List(ctx context.Context, params *FindParams) ([]*Weapon, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, w *Weapon) error
	// UpdateBOFStatusWherePending flips the BOF status with a lookup scoped to
	// PENDING. Zero affected rows means the weapon is gone or already decided.
	UpdateBOFStatusWherePending(ctx context.Context, id uuid.UUID, status BOFStatus) (int64, error)
}
