package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/logging/domain/entities/auditlog"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/eventbus"
	"github.com/lumen-rp/cadhub/pkg/metrics"
)

// RequestCreatedEvent is published whenever an approval request is created.
type RequestCreatedEvent struct {
	Request approval.Request
}

// TransitionedEvent is published after a successful transition.
type TransitionedEvent struct {
	Previous   approval.Status
	Request    approval.Request
	ExecutorID uuid.UUID
}

// CreateParams captures the fields needed to open an approval request.
type CreateParams struct {
	Kind      approval.Kind
	SubjectID uuid.UUID
	Payload   json.RawMessage
	// EnforceUniqueSubject rejects creation when the subject already has a
	// pending request of the same kind.
	EnforceUniqueSubject bool
}

// WorkflowService composes the permission gate, transition validator, effect
// applier and audit recorder into the single transition operation.
type WorkflowService struct {
	requests  approval.Repository
	gate      *PermissionGate
	validator *TransitionValidator
	effects   *EffectApplier
	audit     *AuditRecorder
	publisher eventbus.EventBus
}

func NewWorkflowService(
	requests approval.Repository,
	gate *PermissionGate,
	validator *TransitionValidator,
	effects *EffectApplier,
	audit *AuditRecorder,
	publisher eventbus.EventBus,
) *WorkflowService {
	return &WorkflowService{
		requests:  requests,
		gate:      gate,
		validator: validator,
		effects:   effects,
		audit:     audit,
		publisher: publisher,
	}
}

// Create opens a new PENDING request, optionally enforcing the one-pending-
// request-per-subject invariant with a pre-check query.
func (s *WorkflowService) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*approval.Request, error) {
	req := &approval.Request{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Kind:      params.Kind,
		Status:    approval.StatusPending,
		SubjectID: params.SubjectID,
		Payload:   params.Payload,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if params.EnforceUniqueSubject {
			pending, err := s.requests.CountPendingForSubject(txCtx, params.Kind, params.SubjectID)
			if err != nil {
				return err
			}
			if pending > 0 {
				return approval.ErrConflictAlreadyLinked
			}
		}
		return s.requests.Create(txCtx, req)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(RequestCreatedEvent{Request: *req})
	return req, nil
}

// ListPending returns pending requests of a kind with pagination.
func (s *WorkflowService) ListPending(ctx context.Context, kind approval.Kind, limit, offset int) ([]*approval.Request, int64, error) {
	params := &approval.FindParams{
		Kind:     kind,
		Statuses: []approval.Status{approval.StatusPending},
		Limit:    limit,
		Offset:   offset,
	}
	results, err := s.requests.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requests.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Get returns a single request by id.
func (s *WorkflowService) Get(ctx context.Context, id uuid.UUID) (*approval.Request, error) {
	return s.requests.GetByID(ctx, id)
}

// Transition runs gate -> validate -> apply -> audit for one request. The
// validate + status flip + effect run in one transaction; the flip is a
// conditional update on PENDING, so of two concurrent calls at most one
// applies the side effect. Audit is best-effort and outside the contract.
func (s *WorkflowService) Transition(
	ctx context.Context,
	kind approval.Kind,
	id uuid.UUID,
	target approval.Status,
	principal user.User,
) (*approval.Request, error) {
	required, fallback := GatePolicy(kind)
	if err := s.gate.Check(principal, required, fallback); err != nil {
		return nil, err
	}

	var previous approval.Status
	var updated *approval.Request
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		req, err := s.validator.Validate(txCtx, id, target)
		if err != nil {
			return err
		}
		if req.Kind != kind {
			return approval.ErrRequestNotFound
		}
		previous = req.Status

		rows, err := s.requests.UpdateStatus(txCtx, id, approval.StatusPending, target)
		if err != nil {
			return err
		}
		if rows == 0 {
			return approval.ErrTransitionConflict
		}
		if err := s.effects.Apply(txCtx, req, target); err != nil {
			return err
		}
		updated, err = s.requests.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(updated, previous, principal)
	metrics.ApprovalTransitions.WithLabelValues(string(kind), string(target)).Inc()
	s.publisher.Publish(TransitionedEvent{
		Previous:   previous,
		Request:    *updated,
		ExecutorID: principal.ID(),
	})
	return updated, nil
}

func (s *WorkflowService) recordAudit(req *approval.Request, previous approval.Status, principal user.User) {
	if s.audit == nil {
		return
	}
	before, _ := json.Marshal(map[string]any{"status": previous})
	after, _ := json.Marshal(map[string]any{"status": req.Status, "payload": req.Payload})
	s.audit.Record(&auditlog.Entry{
		TenantID:       req.TenantID,
		TranslationKey: translationKeyFor(req.Kind, req.Status),
		ActionType:     actionTypeFor(req.Kind, req.Status),
		ExecutorID:     principal.ID(),
		Before:         before,
		After:          after,
		CreatedAt:      time.Now().UTC(),
	})
}

func actionTypeFor(kind approval.Kind, target approval.Status) auditlog.ActionType {
	suffix := "_DECLINED"
	if target == approval.StatusAccepted {
		suffix = "_ACCEPTED"
	}
	switch kind {
	case approval.KindNameChange:
		return auditlog.ActionType("NAME_CHANGE" + suffix)
	case approval.KindWarrant:
		return auditlog.ActionType("WARRANT" + suffix)
	case approval.KindWeaponBOF:
		return auditlog.ActionType("WEAPON_BOF" + suffix)
	case approval.KindBusinessWhitelist:
		return auditlog.ActionType("BUSINESS" + suffix)
	case approval.KindUserWhitelist:
		return auditlog.ActionType("USER" + suffix)
	default:
		return auditlog.ActionType("EXPUNGEMENT" + suffix)
	}
}

func translationKeyFor(kind approval.Kind, target approval.Status) string {
	verb := "Declined"
	if target == approval.StatusAccepted {
		verb = "Accepted"
	}
	parts := strings.Split(strings.ToLower(string(kind)), "_")
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return "Approvals." + strings.Join(parts, "") + "." + verb
}
