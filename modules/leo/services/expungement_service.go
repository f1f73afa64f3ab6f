package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/expungement"
	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/warrant"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var ErrNoRecords = serrors.NewError("FIELD_REQUIRED", "at least one record is required", "Leo.Errors.NoRecords")

type CreateExpungementParams struct {
	CitizenID uuid.UUID
	RecordIDs []uuid.UUID
}

// ExpungementService opens expungement requests over warrant records. The
// request row and the record links are written in one transaction; a record
// already linked to another pending request aborts the whole creation.
type ExpungementService struct {
	warrants warrant.Repository
	links    expungement.LinkRepository
	workflow *approvalservices.WorkflowService
}

func NewExpungementService(
	warrants warrant.Repository,
	links expungement.LinkRepository,
	workflow *approvalservices.WorkflowService,
) *ExpungementService {
	return &ExpungementService{warrants: warrants, links: links, workflow: workflow}
}

func (s *ExpungementService) Create(ctx context.Context, params CreateExpungementParams) (*approval.Request, error) {
	if len(params.RecordIDs) == 0 {
		return nil, ErrNoRecords
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	var req *approval.Request
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		for _, recordID := range params.RecordIDs {
			if _, err := s.warrants.GetByID(txCtx, recordID); err != nil {
				return err
			}
		}

		payload, err := json.Marshal(approval.ExpungementPayload{RecordIDs: params.RecordIDs})
		if err != nil {
			return err
		}
		req, err = s.workflow.Create(txCtx, tenantID, approvalservices.CreateParams{
			Kind:      approval.KindExpungement,
			SubjectID: params.CitizenID,
			Payload:   payload,
		})
		if err != nil {
			return err
		}

		conflict, err := s.links.LinkRecords(txCtx, req.ID, params.RecordIDs)
		if err != nil {
			return err
		}
		if conflict != nil {
			return approval.ErrConflictAlreadyLinked.WithMessage(
				"record " + conflict.String() + " is already part of a pending expungement request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *ExpungementService) Records(ctx context.Context, requestID uuid.UUID) ([]expungement.Link, error) {
	var links []expungement.Link
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		links, err = s.links.ListByRequest(txCtx, requestID)
		return err
	})
	return links, err
}
