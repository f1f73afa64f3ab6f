package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
	"github.com/lumen-rp/cadhub/modules/core/permissions"
)

func TestPermissionGate_NilPrincipal(t *testing.T) {
	gate := NewPermissionGate()
	required, fallback := GatePolicy(approval.KindWarrant)
	err := gate.Check(nil, required, fallback)
	assert.ErrorIs(t, err, approval.ErrUnauthorized)
}

func TestPermissionGate_RegularUserDenied(t *testing.T) {
	gate := NewPermissionGate()
	// Holding the permission is not enough without an elevated rank.
	principal := user.New("plain",
		user.WithRank(user.RankUser),
		user.WithPermissions([]*permission.Permission{permissions.ManageWarrants}),
	)
	required, fallback := GatePolicy(approval.KindWarrant)
	err := gate.Check(principal, required, fallback)
	assert.ErrorIs(t, err, approval.ErrUnauthorized)
}

func TestPermissionGate_ElevatedWithoutPermissionDenied(t *testing.T) {
	gate := NewPermissionGate()
	principal := user.New("mod", user.WithRank(user.RankModerator))
	required, fallback := GatePolicy(approval.KindWarrant)
	err := gate.Check(principal, required, fallback)
	assert.ErrorIs(t, err, approval.ErrUnauthorized)
}

func TestPermissionGate_PermissionMatch(t *testing.T) {
	gate := NewPermissionGate()
	principal := user.New("mod",
		user.WithRank(user.RankModerator),
		user.WithPermissions([]*permission.Permission{permissions.ManageWarrants}),
	)
	required, fallback := GatePolicy(approval.KindWarrant)
	assert.NoError(t, gate.Check(principal, required, fallback))
}

func TestPermissionGate_WrongPermissionDenied(t *testing.T) {
	gate := NewPermissionGate()
	principal := user.New("mod",
		user.WithRank(user.RankModerator),
		user.WithPermissions([]*permission.Permission{permissions.ManageBusinesses}),
	)
	required, fallback := GatePolicy(approval.KindWarrant)
	err := gate.Check(principal, required, fallback)
	assert.ErrorIs(t, err, approval.ErrUnauthorized)
}

func TestPermissionGate_OwnerFallback(t *testing.T) {
	gate := NewPermissionGate()
	owner := user.New("owner", user.WithRank(user.RankOwner))
	for _, kind := range []approval.Kind{
		approval.KindNameChange,
		approval.KindWarrant,
		approval.KindWeaponBOF,
		approval.KindBusinessWhitelist,
		approval.KindUserWhitelist,
		approval.KindExpungement,
	} {
		required, fallback := GatePolicy(kind)
		assert.NoError(t, gate.Check(owner, required, fallback), "kind %s", kind)
	}
}

func TestGatePolicy_UnknownKind(t *testing.T) {
	required, fallback := GatePolicy(approval.Kind("BOGUS"))
	assert.Empty(t, required)
	assert.Nil(t, fallback)
}
