package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
)

func TestRankElevated(t *testing.T) {
	assert.False(t, RankUser.Elevated())
	assert.True(t, RankModerator.Elevated())
	assert.True(t, RankAdmin.Elevated())
	assert.True(t, RankOwner.Elevated())
	assert.False(t, Rank("SUPERVISOR").Elevated())
}

func TestUserCan(t *testing.T) {
	granted := &permission.Permission{Name: "warrants.manage", Resource: "warrants", Action: permission.ActionManage}
	other := &permission.Permission{Name: "users.manage", Resource: "users", Action: permission.ActionManage}

	withPerm := New("deputy",
		WithRank(RankModerator),
		WithPermissions([]*permission.Permission{granted}),
	)
	assert.True(t, withPerm.Can(granted))
	assert.False(t, withPerm.Can(other))

	bare := New("civilian")
	assert.False(t, bare.Can(granted))
	assert.Equal(t, RankUser, bare.Rank())
	assert.Equal(t, WhitelistPending, bare.WhitelistStatus())
}
