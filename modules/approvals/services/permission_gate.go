package services

import (
	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
	"github.com/lumen-rp/cadhub/modules/core/permissions"
)

// Fallback is a secondary predicate consulted when explicit permission-set
// membership fails.
type Fallback func(principal user.User) bool

// PermissionGate decides whether a principal may transition a workflow kind.
// It never mutates state.
type PermissionGate struct{}

func NewPermissionGate() *PermissionGate {
	return &PermissionGate{}
}

// Check allows the principal when its rank is elevated AND its permission set
// intersects the required set, or the fallback predicate passes.
func (g *PermissionGate) Check(principal user.User, required []*permission.Permission, fallback Fallback) error {
	if principal == nil || !principal.Rank().Elevated() {
		return approval.ErrUnauthorized
	}
	for _, p := range required {
		if principal.Can(p) {
			return nil
		}
	}
	if fallback != nil && fallback(principal) {
		return nil
	}
	return approval.ErrUnauthorized
}

// isOwner is the shared fallback: the community owner may run any workflow.
func isOwner(principal user.User) bool {
	return principal.Rank() == user.RankOwner
}

// GatePolicy returns the required permission set and fallback predicate for a
// workflow kind.
func GatePolicy(kind approval.Kind) ([]*permission.Permission, Fallback) {
	switch kind {
	case approval.KindNameChange:
		return []*permission.Permission{permissions.ManageNameChangeRequests}, isOwner
	case approval.KindWarrant:
		return []*permission.Permission{permissions.ManageWarrants}, isOwner
	case approval.KindWeaponBOF:
		return []*permission.Permission{permissions.ManageWeaponRegistrations}, isOwner
	case approval.KindBusinessWhitelist:
		return []*permission.Permission{permissions.ManageBusinesses}, isOwner
	case approval.KindUserWhitelist:
		return []*permission.Permission{permissions.ManageUsers}, isOwner
	case approval.KindExpungement:
		return []*permission.Permission{permissions.ManageExpungementRequests}, isOwner
	default:
		return nil, nil
	}
}
