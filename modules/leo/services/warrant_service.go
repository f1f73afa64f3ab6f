package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/warrant"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var ErrDescriptionRequired = serrors.NewError("FIELD_REQUIRED", "warrant description is required", "Leo.Errors.DescriptionRequired")

type CreateWarrantParams struct {
	CitizenID   uuid.UUID
	Description string
}

// WarrantService files warrants. A new warrant starts INACTIVE with a PENDING
// approval; acceptance activates it, decline leaves it inactive.
type WarrantService struct {
	warrants warrant.Repository
	workflow *approvalservices.WorkflowService
}

func NewWarrantService(warrants warrant.Repository, workflow *approvalservices.WorkflowService) *WarrantService {
	return &WarrantService{warrants: warrants, workflow: workflow}
}

func (s *WarrantService) GetByID(ctx context.Context, id uuid.UUID) (*warrant.Warrant, error) {
	var found *warrant.Warrant
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.warrants.GetByID(txCtx, id)
		return err
	})
	return found, err
}

func (s *WarrantService) List(ctx context.Context, params *warrant.FindParams) ([]*warrant.Warrant, int64, error) {
	var results []*warrant.Warrant
	var total int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		if results, err = s.warrants.List(txCtx, params); err != nil {
			return err
		}
		total, err = s.warrants.Count(txCtx, params)
		return err
	})
	return results, total, err
}

// Create files the warrant and opens its approval request atomically.
func (s *WarrantService) Create(ctx context.Context, params CreateWarrantParams) (*warrant.Warrant, *approval.Request, error) {
	if params.Description == "" {
		return nil, nil, ErrDescriptionRequired
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, err
	}
	officer, err := composables.UseUser(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	w := &warrant.Warrant{
		ID:             uuid.New(),
		TenantID:       tenantID,
		CitizenID:      params.CitizenID,
		OfficerID:      officer.ID(),
		Description:    params.Description,
		Status:         warrant.StatusInactive,
		ApprovalStatus: warrant.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var req *approval.Request
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.warrants.Create(txCtx, w); err != nil {
			return err
		}
		req, err = s.workflow.Create(txCtx, tenantID, approvalservices.CreateParams{
			Kind:      approval.KindWarrant,
			SubjectID: w.ID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return w, req, nil
}
