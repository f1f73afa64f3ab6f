package approval

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Kind      Kind
	Statuses  []Status
	SubjectID *uuid.UUID
	Limit     int
	Offset    int
}

// Repository is the persistence port for approval requests. The status flip is
// a conditional update filtered on the expected current status; callers check
// the affected-row count to guarantee at-most-once effect application.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	List(ctx context.Context, params *FindParams) ([]*Request, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, req *Request) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPendingForSubject(ctx context.Context, kind Kind, subjectID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (int64, error)
}
