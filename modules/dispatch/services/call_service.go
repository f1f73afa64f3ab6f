package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/dispatch/domain/entities/call"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/eventbus"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var (
	ErrCallFieldsRequired = serrors.NewError("FIELD_REQUIRED", "caller name, location and description are required", "Dispatch.Errors.FieldsRequired")
	ErrInvalidCallStatus  = serrors.NewError("INVALID_TARGET_STATUS", "unknown call status", "Dispatch.Errors.InvalidStatus")
	ErrCallNotFound       = serrors.NewError("SUBJECT_NOT_FOUND", "emergency call not found", "Dispatch.Errors.CallNotFound")
)

// CallCreatedEvent is published for every new emergency call.
type CallCreatedEvent struct {
	Call call.Call
}

// CallStatusChangedEvent is published on dispatch status updates.
type CallStatusChangedEvent struct {
	Call call.Call
}

type CreateCallParams struct {
	CallerName  string
	Location    string
	Description string
}

// CallService stores emergency calls. Events published here reach connected
// dispatch clients through the hub forwarders the module subscribes.
type CallService struct {
	calls     call.Repository
	publisher eventbus.EventBus
}

func NewCallService(calls call.Repository, publisher eventbus.EventBus) *CallService {
	return &CallService{calls: calls, publisher: publisher}
}

func (s *CallService) GetByID(ctx context.Context, id uuid.UUID) (*call.Call, error) {
	var found *call.Call
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.calls.GetByID(txCtx, id)
		return err
	})
	return found, err
}

func (s *CallService) List(ctx context.Context, params *call.FindParams) ([]*call.Call, int64, error) {
	var results []*call.Call
	var total int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		if results, err = s.calls.List(txCtx, params); err != nil {
			return err
		}
		total, err = s.calls.Count(txCtx, params)
		return err
	})
	return results, total, err
}

func (s *CallService) Create(ctx context.Context, params CreateCallParams) (*call.Call, error) {
	if params.CallerName == "" || params.Location == "" || params.Description == "" {
		return nil, ErrCallFieldsRequired
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &call.Call{
		ID:          uuid.New(),
		TenantID:    tenantID,
		CallerName:  params.CallerName,
		Location:    params.Location,
		Description: params.Description,
		Status:      call.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.calls.Create(txCtx, c)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(CallCreatedEvent{Call: *c})
	return c, nil
}

func (s *CallService) SetStatus(ctx context.Context, id uuid.UUID, status call.Status) (*call.Call, error) {
	if !status.IsValid() {
		return nil, ErrInvalidCallStatus
	}

	var updated *call.Call
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		rows, err := s.calls.UpdateStatus(txCtx, id, status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrCallNotFound
		}
		updated, err = s.calls.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(CallStatusChangedEvent{Call: *updated})
	return updated, nil
}
