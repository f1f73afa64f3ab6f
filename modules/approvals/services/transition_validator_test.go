package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
)

func TestTransitionValidator_NonTerminalTarget(t *testing.T) {
	requests := newMemRequests()
	v := NewTransitionValidator(requests)

	_, err := v.Validate(context.Background(), uuid.New(), approval.StatusPending)
	assert.ErrorIs(t, err, approval.ErrInvalidTargetStatus)
}

func TestTransitionValidator_MissingRequest(t *testing.T) {
	requests := newMemRequests()
	v := NewTransitionValidator(requests)

	_, err := v.Validate(context.Background(), uuid.New(), approval.StatusAccepted)
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)
}

func TestTransitionValidator_PendingRequestPasses(t *testing.T) {
	requests := newMemRequests()
	v := NewTransitionValidator(requests)

	req := &approval.Request{ID: uuid.New(), Kind: approval.KindWarrant, Status: approval.StatusPending}
	require.NoError(t, requests.Create(context.Background(), req))

	got, err := v.Validate(context.Background(), req.ID, approval.StatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
}

func TestTransitionValidator_DecidedRequestConflicts(t *testing.T) {
	requests := newMemRequests()
	v := NewTransitionValidator(requests)

	for _, status := range []approval.Status{approval.StatusAccepted, approval.StatusDeclined} {
		req := &approval.Request{ID: uuid.New(), Kind: approval.KindWarrant, Status: status}
		require.NoError(t, requests.Create(context.Background(), req))

		_, err := v.Validate(context.Background(), req.ID, approval.StatusAccepted)
		assert.ErrorIs(t, err, approval.ErrTransitionConflict, "status %s", status)
	}
}
