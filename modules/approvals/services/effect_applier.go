package services

import (
	"context"
	"encoding/json"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/business/domain/entities/business"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/citizen"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/weapon"
	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/warrant"
)

// EffectApplier performs the side effects tied to a transition, dispatching
// over the request kind. Each subject is touched by exactly one update.
type EffectApplier struct {
	citizens   citizen.Repository
	weapons    weapon.Repository
	warrants   warrant.Repository
	businesses business.Repository
	users      user.Repository
}

func NewEffectApplier(
	citizens citizen.Repository,
	weapons weapon.Repository,
	warrants warrant.Repository,
	businesses business.Repository,
	users user.Repository,
) *EffectApplier {
	return &EffectApplier{
		citizens:   citizens,
		weapons:    weapons,
		warrants:   warrants,
		businesses: businesses,
		users:      users,
	}
}

func (a *EffectApplier) Apply(ctx context.Context, req *approval.Request, target approval.Status) error {
	switch req.Kind {
	case approval.KindNameChange:
		return a.applyNameChange(ctx, req, target)
	case approval.KindWarrant:
		return a.applyWarrant(ctx, req, target)
	case approval.KindWeaponBOF:
		return a.applyWeaponBOF(ctx, req, target)
	case approval.KindBusinessWhitelist:
		return a.applyBusinessWhitelist(ctx, req, target)
	case approval.KindUserWhitelist:
		return a.applyUserWhitelist(ctx, req, target)
	case approval.KindExpungement:
		return a.applyExpungement(ctx, req, target)
	default:
		return approval.ErrInvalidTargetStatus
	}
}

// applyNameChange copies the proposed name onto the citizen on ACCEPTED and
// leaves the citizen untouched on DECLINED.
func (a *EffectApplier) applyNameChange(ctx context.Context, req *approval.Request, target approval.Status) error {
	if target != approval.StatusAccepted {
		return nil
	}
	var payload approval.NameChangePayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return err
	}
	rows, err := a.citizens.UpdateName(ctx, req.SubjectID, payload.NewName, payload.NewSurname)
	if err != nil {
		return err
	}
	if rows == 0 {
		return approval.ErrSubjectNotFound
	}
	return nil
}

// applyWarrant drives both the approval status and the parallel lifecycle:
// ACCEPTED activates the warrant, DECLINED deactivates it.
func (a *EffectApplier) applyWarrant(ctx context.Context, req *approval.Request, target approval.Status) error {
	lifecycle := warrant.StatusInactive
	approvalStatus := warrant.ApprovalDeclined
	if target == approval.StatusAccepted {
		lifecycle = warrant.StatusActive
		approvalStatus = warrant.ApprovalAccepted
	}
	rows, err := a.warrants.SetApproval(ctx, req.SubjectID, lifecycle, approvalStatus)
	if err != nil {
		return err
	}
	if rows == 0 {
		return approval.ErrSubjectNotFound
	}
	return nil
}

func (a *EffectApplier) applyWeaponBOF(ctx context.Context, req *approval.Request, target approval.Status) error {
	status := weapon.BOFDeclined
	if target == approval.StatusAccepted {
		status = weapon.BOFAccepted
	}
	rows, err := a.weapons.UpdateBOFStatusWherePending(ctx, req.SubjectID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return approval.ErrSubjectNotFound
	}
	return nil
}

func (a *EffectApplier) applyBusinessWhitelist(ctx context.Context, req *approval.Request, target approval.Status) error {
	status := business.WhitelistDeclined
	if target == approval.StatusAccepted {
		status = business.WhitelistAccepted
	}
	rows, err := a.businesses.UpdateWhitelistStatus(ctx, req.SubjectID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return approval.ErrSubjectNotFound
	}
	return nil
}

func (a *EffectApplier) applyUserWhitelist(ctx context.Context, req *approval.Request, target approval.Status) error {
	status := user.WhitelistDeclined
	if target == approval.StatusAccepted {
		status = user.WhitelistAccepted
	}
	rows, err := a.users.UpdateWhitelistStatus(ctx, req.SubjectID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return approval.ErrSubjectNotFound
	}
	return nil
}

// applyExpungement deactivates every linked warrant on ACCEPTED; DECLINED
// leaves the records untouched.
func (a *EffectApplier) applyExpungement(ctx context.Context, req *approval.Request, target approval.Status) error {
	if target != approval.StatusAccepted {
		return nil
	}
	var payload approval.ExpungementPayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return err
	}
	for _, recordID := range payload.RecordIDs {
		rows, err := a.warrants.SetApproval(ctx, recordID, warrant.StatusInactive, warrant.ApprovalDeclined)
		if err != nil {
			return err
		}
		if rows == 0 {
			return approval.ErrSubjectNotFound
		}
	}
	return nil
}
