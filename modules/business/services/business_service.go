package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/business/domain/entities/business"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var ErrBusinessFieldsRequired = serrors.NewError("FIELD_REQUIRED", "name and address are required", "Business.Errors.FieldsRequired")

type CreateBusinessParams struct {
	Name    string
	Address string
}

// BusinessService registers businesses. A new business starts with a PENDING
// whitelist status and an open whitelist request for moderation.
type BusinessService struct {
	businesses business.Repository
	workflow   *approvalservices.WorkflowService
}

func NewBusinessService(businesses business.Repository, workflow *approvalservices.WorkflowService) *BusinessService {
	return &BusinessService{businesses: businesses, workflow: workflow}
}

func (s *BusinessService) GetByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	var found *business.Business
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.businesses.GetByID(txCtx, id)
		return err
	})
	return found, err
}

func (s *BusinessService) List(ctx context.Context, params *business.FindParams) ([]*business.Business, int64, error) {
	var results []*business.Business
	var total int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		if results, err = s.businesses.List(txCtx, params); err != nil {
			return err
		}
		total, err = s.businesses.Count(txCtx, params)
		return err
	})
	return results, total, err
}

// Create stores the business and opens its whitelist request in one
// transaction.
func (s *BusinessService) Create(ctx context.Context, params CreateBusinessParams) (*business.Business, *approval.Request, error) {
	if params.Name == "" || params.Address == "" {
		return nil, nil, ErrBusinessFieldsRequired
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, err
	}
	owner, err := composables.UseUser(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	b := &business.Business{
		ID:              uuid.New(),
		TenantID:        tenantID,
		OwnerID:         owner.ID(),
		Name:            params.Name,
		Address:         params.Address,
		WhitelistStatus: business.WhitelistPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var req *approval.Request
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.businesses.Create(txCtx, b); err != nil {
			return err
		}
		req, err = s.workflow.Create(txCtx, tenantID, approvalservices.CreateParams{
			Kind:      approval.KindBusinessWhitelist,
			SubjectID: b.ID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return b, req, nil
}
