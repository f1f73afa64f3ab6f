package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/citizen"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var (
	ErrNameRequired    = serrors.NewError("FIELD_REQUIRED", "name and surname are required", "Citizens.Errors.NameRequired")
	ErrNameUnchanged   = serrors.NewError("INVALID_FIELD", "requested name matches the current one", "Citizens.Errors.NameUnchanged")
	ErrCitizenNotOwned = serrors.NewError("FORBIDDEN", "citizen does not belong to the requesting user", "Citizens.Errors.NotOwned")
)

type CreateCitizenParams struct {
	Name        string
	Surname     string
	DateOfBirth time.Time
}

// CitizenService manages citizen records and opens name change requests
// against them.
type CitizenService struct {
	citizens citizen.Repository
	workflow *approvalservices.WorkflowService
}

func NewCitizenService(citizens citizen.Repository, workflow *approvalservices.WorkflowService) *CitizenService {
	return &CitizenService{citizens: citizens, workflow: workflow}
}

func (s *CitizenService) GetByID(ctx context.Context, id uuid.UUID) (*citizen.Citizen, error) {
	var found *citizen.Citizen
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.citizens.GetByID(txCtx, id)
		return err
	})
	return found, err
}

func (s *CitizenService) List(ctx context.Context, params *citizen.FindParams) ([]*citizen.Citizen, int64, error) {
	var results []*citizen.Citizen
	var total int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		if results, err = s.citizens.List(txCtx, params); err != nil {
			return err
		}
		total, err = s.citizens.Count(txCtx, params)
		return err
	})
	return results, total, err
}

func (s *CitizenService) Create(ctx context.Context, params CreateCitizenParams) (*citizen.Citizen, error) {
	if params.Name == "" || params.Surname == "" {
		return nil, ErrNameRequired
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &citizen.Citizen{
		ID:          uuid.New(),
		TenantID:    tenantID,
		OwnerID:     owner.ID(),
		Name:        params.Name,
		Surname:     params.Surname,
		DateOfBirth: params.DateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.citizens.Create(txCtx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RequestNameChange opens a name change request for a citizen owned by the
// caller. A citizen can have at most one pending request at a time.
func (s *CitizenService) RequestNameChange(ctx context.Context, citizenID uuid.UUID, newName, newSurname string) (*approval.Request, error) {
	if newName == "" || newSurname == "" {
		return nil, ErrNameRequired
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	caller, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var req *approval.Request
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		c, err := s.citizens.GetByID(txCtx, citizenID)
		if err != nil {
			return err
		}
		if c.OwnerID != caller.ID() && !caller.Rank().Elevated() {
			return ErrCitizenNotOwned
		}
		if c.Name == newName && c.Surname == newSurname {
			return ErrNameUnchanged
		}

		payload, err := json.Marshal(approval.NameChangePayload{
			NewName:    newName,
			NewSurname: newSurname,
		})
		if err != nil {
			return err
		}
		req, err = s.workflow.Create(txCtx, tenantID, approvalservices.CreateParams{
			Kind:                 approval.KindNameChange,
			SubjectID:            citizenID,
			Payload:              payload,
			EnforceUniqueSubject: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}
