package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/permissions"
	"github.com/lumen-rp/cadhub/pkg/constants"
)

type stubTx struct{}

func (stubTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (stubTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (stubTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return nil
}

func testCtx() context.Context {
	return context.WithValue(context.Background(), constants.TxKey, stubTx{})
}

type fakeUsers struct {
	byID   map[uuid.UUID]user.User
	grants map[uuid.UUID][]uuid.UUID
	ranks  map[uuid.UUID]user.Rank
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:   map[uuid.UUID]user.User{},
		grants: map[uuid.UUID][]uuid.UUID{},
		ranks:  map[uuid.UUID]user.Rank{},
	}
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range f.byID {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) List(_ context.Context, _ *user.FindParams) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUsers) Count(_ context.Context, _ *user.FindParams) (int64, error) {
	return 0, nil
}

func (f *fakeUsers) Create(_ context.Context, u user.User) (user.User, error) {
	f.byID[u.ID()] = u
	return u, nil
}

func (f *fakeUsers) UpdateWhitelistStatus(_ context.Context, id uuid.UUID, _ user.WhitelistStatus) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeUsers) UpdateRank(_ context.Context, id uuid.UUID, rank user.Rank) error {
	f.ranks[id] = rank
	return nil
}

func (f *fakeUsers) SetPermissions(_ context.Context, id uuid.UUID, permissionIDs []uuid.UUID) error {
	f.grants[id] = permissionIDs
	return nil
}

func TestUserService_SetPermissions(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users, nil)

	memberID := uuid.New()
	users.byID[memberID] = user.New("deputy", user.WithID(memberID))

	err := svc.SetPermissions(testCtx(), memberID, []string{
		permissions.ManageWarrants.Name,
		permissions.ViewAuditLog.Name,
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{
		permissions.ManageWarrants.ID,
		permissions.ViewAuditLog.ID,
	}, users.grants[memberID])
}

func TestUserService_SetPermissionsUnknownName(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users, nil)

	memberID := uuid.New()
	users.byID[memberID] = user.New("deputy", user.WithID(memberID))

	err := svc.SetPermissions(testCtx(), memberID, []string{"Nukes.Launch"})
	assert.ErrorIs(t, err, ErrInvalidPermission)
	assert.Empty(t, users.grants[memberID])
}

func TestUserService_SetRankInvalid(t *testing.T) {
	svc := NewUserService(newFakeUsers(), nil)
	err := svc.SetRank(testCtx(), uuid.New(), user.Rank("SUPERVISOR"))
	assert.ErrorIs(t, err, ErrInvalidRank)
}
