package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
)

// TransitionValidator checks that the target status is a legal terminal value
// and that the request exists and is still pending. The terminal-state check
// is strict: requests that already left PENDING are rejected rather than
// re-applied.
type TransitionValidator struct {
	requests approval.Repository
}

func NewTransitionValidator(requests approval.Repository) *TransitionValidator {
	return &TransitionValidator{requests: requests}
}

func (v *TransitionValidator) Validate(ctx context.Context, id uuid.UUID, target approval.Status) (*approval.Request, error) {
	if !target.Terminal() {
		return nil, approval.ErrInvalidTargetStatus
	}
	req, err := v.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, approval.ErrTransitionConflict
	}
	return req, nil
}
