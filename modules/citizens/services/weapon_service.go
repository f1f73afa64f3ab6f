package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/weapon"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var ErrWeaponFieldsRequired = serrors.NewError("FIELD_REQUIRED", "model and serial number are required", "Citizens.Errors.WeaponFieldsRequired")

type RegisterWeaponParams struct {
	CitizenID    uuid.UUID
	Model        string
	SerialNumber string
}

// WeaponService registers weapons. Every registration opens a bureau of
// firearms review request; the weapon stays PENDING until it is decided.
type WeaponService struct {
	weapons  weapon.Repository
	workflow *approvalservices.WorkflowService
}

func NewWeaponService(weapons weapon.Repository, workflow *approvalservices.WorkflowService) *WeaponService {
	return &WeaponService{weapons: weapons, workflow: workflow}
}

func (s *WeaponService) GetByID(ctx context.Context, id uuid.UUID) (*weapon.Weapon, error) {
	var found *weapon.Weapon
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.weapons.GetByID(txCtx, id)
		return err
	})
	return found, err
}

func (s *WeaponService) List(ctx context.Context, params *weapon.FindParams) ([]*weapon.Weapon, int64, error) {
	var results []*weapon.Weapon
	var total int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		if results, err = s.weapons.List(txCtx, params); err != nil {
			return err
		}
		total, err = s.weapons.Count(txCtx, params)
		return err
	})
	return results, total, err
}

// Register stores the weapon and opens its review request in one transaction.
func (s *WeaponService) Register(ctx context.Context, params RegisterWeaponParams) (*weapon.Weapon, *approval.Request, error) {
	if params.Model == "" || params.SerialNumber == "" {
		return nil, nil, ErrWeaponFieldsRequired
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, err
	}

	w := &weapon.Weapon{
		ID:           uuid.New(),
		TenantID:     tenantID,
		CitizenID:    params.CitizenID,
		Model:        params.Model,
		SerialNumber: params.SerialNumber,
		BOFStatus:    weapon.BOFPending,
		CreatedAt:    time.Now().UTC(),
	}
	var req *approval.Request
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.weapons.Create(txCtx, w); err != nil {
			return err
		}
		req, err = s.workflow.Create(txCtx, tenantID, approvalservices.CreateParams{
			Kind:      approval.KindWeaponBOF,
			SubjectID: w.ID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return w, req, nil
}
