package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/business/domain/entities/business"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/citizen"
	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/weapon"
	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
	"github.com/lumen-rp/cadhub/modules/core/permissions"
	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/warrant"
	"github.com/lumen-rp/cadhub/pkg/constants"
	"github.com/lumen-rp/cadhub/pkg/eventbus"
)

// stubTx satisfies the transaction port so InTx joins instead of opening a
// real transaction. The in-memory repositories never touch it.
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

type memRequests struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*approval.Request
}

func newMemRequests() *memRequests {
	return &memRequests{byID: map[uuid.UUID]*approval.Request{}}
}

func (m *memRequests) GetByID(_ context.Context, id uuid.UUID) (*approval.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.byID[id]
	if !ok {
		return nil, approval.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (m *memRequests) List(_ context.Context, params *approval.FindParams) ([]*approval.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*approval.Request
	for _, req := range m.byID {
		if m.matches(req, params) {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memRequests) Count(_ context.Context, params *approval.FindParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, req := range m.byID {
		if m.matches(req, params) {
			n++
		}
	}
	return n, nil
}

func (m *memRequests) matches(req *approval.Request, params *approval.FindParams) bool {
	if params == nil {
		return true
	}
	if params.Kind != "" && req.Kind != params.Kind {
		return false
	}
	if params.SubjectID != nil && req.SubjectID != *params.SubjectID {
		return false
	}
	if len(params.Statuses) > 0 {
		found := false
		for _, s := range params.Statuses {
			if req.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *memRequests) Create(_ context.Context, req *approval.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *req
	m.byID[req.ID] = &clone
	return nil
}

func (m *memRequests) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memRequests) CountPendingForSubject(_ context.Context, kind approval.Kind, subjectID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, req := range m.byID {
		if req.Kind == kind && req.SubjectID == subjectID && req.Status == approval.StatusPending {
			n++
		}
	}
	return n, nil
}

func (m *memRequests) UpdateStatus(_ context.Context, id uuid.UUID, from, to approval.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.byID[id]
	if !ok || req.Status != from {
		return 0, nil
	}
	req.Status = to
	req.UpdatedAt = time.Now().UTC()
	return 1, nil
}

type memCitizens struct {
	byID map[uuid.UUID]*citizen.Citizen
}

func (m *memCitizens) GetByID(_ context.Context, id uuid.UUID) (*citizen.Citizen, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, approval.ErrSubjectNotFound
	}
	return c, nil
}

func (m *memCitizens) List(_ context.Context, _ *citizen.FindParams) ([]*citizen.Citizen, error) {
	return nil, nil
}

func (m *memCitizens) Count(_ context.Context, _ *citizen.FindParams) (int64, error) {
	return 0, nil
}

func (m *memCitizens) Create(_ context.Context, c *citizen.Citizen) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCitizens) UpdateName(_ context.Context, id uuid.UUID, name, surname string) (int64, error) {
	c, ok := m.byID[id]
	if !ok {
		return 0, nil
	}
	c.Name = name
	c.Surname = surname
	return 1, nil
}

type memWeapons struct {
	byID map[uuid.UUID]*weapon.Weapon
}

func (m *memWeapons) GetByID(_ context.Context, id uuid.UUID) (*weapon.Weapon, error) {
	w, ok := m.byID[id]
	if !ok {
		return nil, approval.ErrSubjectNotFound
	}
	return w, nil
}

func (m *memWeapons) List(_ context.Context, _ *weapon.FindParams) ([]*weapon.Weapon, error) {
	return nil, nil
}

func (m *memWeapons) Count(_ context.Context, _ *weapon.FindParams) (int64, error) {
	return 0, nil
}

func (m *memWeapons) Create(_ context.Context, w *weapon.Weapon) error {
	m.byID[w.ID] = w
	return nil
}

func (m *memWeapons) UpdateBOFStatusWherePending(_ context.Context, id uuid.UUID, status weapon.BOFStatus) (int64, error) {
	w, ok := m.byID[id]
	if !ok || w.BOFStatus != weapon.BOFPending {
		return 0, nil
	}
	w.BOFStatus = status
	return 1, nil
}

type memWarrants struct {
	byID map[uuid.UUID]*warrant.Warrant
}

func (m *memWarrants) GetByID(_ context.Context, id uuid.UUID) (*warrant.Warrant, error) {
	w, ok := m.byID[id]
	if !ok {
		return nil, approval.ErrSubjectNotFound
	}
	return w, nil
}

func (m *memWarrants) List(_ context.Context, _ *warrant.FindParams) ([]*warrant.Warrant, error) {
	return nil, nil
}

func (m *memWarrants) Count(_ context.Context, _ *warrant.FindParams) (int64, error) {
	return 0, nil
}

func (m *memWarrants) Create(_ context.Context, w *warrant.Warrant) error {
	m.byID[w.ID] = w
	return nil
}

func (m *memWarrants) SetApproval(_ context.Context, id uuid.UUID, status warrant.Status, approvalStatus warrant.ApprovalStatus) (int64, error) {
	w, ok := m.byID[id]
	if !ok {
		return 0, nil
	}
	w.Status = status
	w.ApprovalStatus = approvalStatus
	return 1, nil
}

type memBusinesses struct {
	byID map[uuid.UUID]*business.Business
}

func (m *memBusinesses) GetByID(_ context.Context, id uuid.UUID) (*business.Business, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, approval.ErrSubjectNotFound
	}
	return b, nil
}

func (m *memBusinesses) List(_ context.Context, _ *business.FindParams) ([]*business.Business, error) {
	return nil, nil
}

func (m *memBusinesses) Count(_ context.Context, _ *business.FindParams) (int64, error) {
	return 0, nil
}

func (m *memBusinesses) Create(_ context.Context, b *business.Business) error {
	m.byID[b.ID] = b
	return nil
}

func (m *memBusinesses) UpdateWhitelistStatus(_ context.Context, id uuid.UUID, status business.WhitelistStatus) (int64, error) {
	b, ok := m.byID[id]
	if !ok {
		return 0, nil
	}
	b.WhitelistStatus = status
	return 1, nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]user.User
	// whitelist mirrors UpdateWhitelistStatus writes since user.User is
	// immutable from outside the aggregate.
	whitelist       map[uuid.UUID]user.WhitelistStatus
	whitelistWrites int
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, approval.ErrSubjectNotFound
	}
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range m.byID {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, approval.ErrSubjectNotFound
}

func (m *memUsers) List(_ context.Context, _ *user.FindParams) ([]user.User, error) {
	return nil, nil
}

func (m *memUsers) Count(_ context.Context, _ *user.FindParams) (int64, error) {
	return 0, nil
}

func (m *memUsers) Create(_ context.Context, u user.User) (user.User, error) {
	m.byID[u.ID()] = u
	return u, nil
}

func (m *memUsers) UpdateWhitelistStatus(_ context.Context, id uuid.UUID, status user.WhitelistStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return 0, nil
	}
	m.whitelist[id] = status
	m.whitelistWrites++
	return 1, nil
}

func (m *memUsers) UpdateRank(_ context.Context, _ uuid.UUID, _ user.Rank) error {
	return nil
}

func (m *memUsers) SetPermissions(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

type fixture struct {
	requests   *memRequests
	citizens   *memCitizens
	weapons    *memWeapons
	warrants   *memWarrants
	businesses *memBusinesses
	users      *memUsers
	workflow   *WorkflowService
}

func newFixture() *fixture {
	requests := newMemRequests()
	f := &fixture{
		requests:   requests,
		citizens:   &memCitizens{byID: map[uuid.UUID]*citizen.Citizen{}},
		weapons:    &memWeapons{byID: map[uuid.UUID]*weapon.Weapon{}},
		warrants:   &memWarrants{byID: map[uuid.UUID]*warrant.Warrant{}},
		businesses: &memBusinesses{byID: map[uuid.UUID]*business.Business{}},
		users:      &memUsers{byID: map[uuid.UUID]user.User{}, whitelist: map[uuid.UUID]user.WhitelistStatus{}},
	}
	effects := NewEffectApplier(f.citizens, f.weapons, f.warrants, f.businesses, f.users)
	f.workflow = NewWorkflowService(
		requests,
		NewPermissionGate(),
		NewTransitionValidator(requests),
		effects,
		nil,
		eventbus.NewEventPublisher(logrus.New()),
	)
	return f
}

func (f *fixture) addRequest(t *testing.T, kind approval.Kind, subjectID uuid.UUID, payload any) *approval.Request {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := &approval.Request{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		Kind:      kind,
		Status:    approval.StatusPending,
		SubjectID: subjectID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.requests.Create(context.Background(), req))
	return req
}

func moderatorWith(perms ...*permission.Permission) user.User {
	return user.New("mod", user.WithRank(user.RankModerator), user.WithPermissions(perms))
}

func TestTransition_NameChangeAccepted(t *testing.T) {
	f := newFixture()
	citizenID := uuid.New()
	f.citizens.byID[citizenID] = &citizen.Citizen{ID: citizenID, Name: "John", Surname: "Doe"}
	req := f.addRequest(t, approval.KindNameChange, citizenID, approval.NameChangePayload{
		NewName:    "Jane",
		NewSurname: "Smith",
	})

	updated, err := f.workflow.Transition(
		testCtx(), approval.KindNameChange, req.ID, approval.StatusAccepted,
		moderatorWith(permissions.ManageNameChangeRequests),
	)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusAccepted, updated.Status)
	assert.Equal(t, "Jane", f.citizens.byID[citizenID].Name)
	assert.Equal(t, "Smith", f.citizens.byID[citizenID].Surname)
}

func TestTransition_NameChangeDeclinedLeavesCitizen(t *testing.T) {
	f := newFixture()
	citizenID := uuid.New()
	f.citizens.byID[citizenID] = &citizen.Citizen{ID: citizenID, Name: "John", Surname: "Doe"}
	req := f.addRequest(t, approval.KindNameChange, citizenID, approval.NameChangePayload{
		NewName:    "Jane",
		NewSurname: "Smith",
	})

	updated, err := f.workflow.Transition(
		testCtx(), approval.KindNameChange, req.ID, approval.StatusDeclined,
		moderatorWith(permissions.ManageNameChangeRequests),
	)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusDeclined, updated.Status)
	assert.Equal(t, "John", f.citizens.byID[citizenID].Name)
}

func TestTransition_UnauthorizedLeavesRequestPending(t *testing.T) {
	f := newFixture()
	req := f.addRequest(t, approval.KindWarrant, uuid.New(), nil)

	plain := user.New("civilian", user.WithRank(user.RankUser))
	_, err := f.workflow.Transition(testCtx(), approval.KindWarrant, req.ID, approval.StatusAccepted, plain)
	assert.ErrorIs(t, err, approval.ErrUnauthorized)

	stored, err := f.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, stored.Status)
}

func TestTransition_NilPrincipalUnauthorized(t *testing.T) {
	f := newFixture()
	req := f.addRequest(t, approval.KindWarrant, uuid.New(), nil)

	_, err := f.workflow.Transition(testCtx(), approval.KindWarrant, req.ID, approval.StatusAccepted, nil)
	assert.ErrorIs(t, err, approval.ErrUnauthorized)
}

func TestTransition_OwnerFallbackWithoutPermissions(t *testing.T) {
	f := newFixture()
	warrantID := uuid.New()
	f.warrants.byID[warrantID] = &warrant.Warrant{ID: warrantID, Status: warrant.StatusInactive, ApprovalStatus: warrant.ApprovalPending}
	req := f.addRequest(t, approval.KindWarrant, warrantID, nil)

	owner := user.New("owner", user.WithRank(user.RankOwner))
	updated, err := f.workflow.Transition(testCtx(), approval.KindWarrant, req.ID, approval.StatusAccepted, owner)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusAccepted, updated.Status)
	assert.Equal(t, warrant.StatusActive, f.warrants.byID[warrantID].Status)
	assert.Equal(t, warrant.ApprovalAccepted, f.warrants.byID[warrantID].ApprovalStatus)
}

func TestTransition_WarrantDeclinedStaysInactive(t *testing.T) {
	f := newFixture()
	warrantID := uuid.New()
	f.warrants.byID[warrantID] = &warrant.Warrant{ID: warrantID, Status: warrant.StatusInactive, ApprovalStatus: warrant.ApprovalPending}
	req := f.addRequest(t, approval.KindWarrant, warrantID, nil)

	updated, err := f.workflow.Transition(
		testCtx(), approval.KindWarrant, req.ID, approval.StatusDeclined,
		moderatorWith(permissions.ManageWarrants),
	)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusDeclined, updated.Status)
	assert.Equal(t, warrant.StatusInactive, f.warrants.byID[warrantID].Status)
	assert.Equal(t, warrant.ApprovalDeclined, f.warrants.byID[warrantID].ApprovalStatus)
}

func TestTransition_InvalidTargetStatus(t *testing.T) {
	f := newFixture()
	req := f.addRequest(t, approval.KindUserWhitelist, uuid.New(), nil)

	_, err := f.workflow.Transition(
		testCtx(), approval.KindUserWhitelist, req.ID, approval.StatusPending,
		moderatorWith(permissions.ManageUsers),
	)
	assert.ErrorIs(t, err, approval.ErrInvalidTargetStatus)

	stored, err := f.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, stored.Status)
}

func TestTransition_AlreadyDecidedConflicts(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.users.byID[userID] = user.New("applicant", user.WithID(userID))
	req := f.addRequest(t, approval.KindUserWhitelist, userID, nil)

	mod := moderatorWith(permissions.ManageUsers)
	_, err := f.workflow.Transition(testCtx(), approval.KindUserWhitelist, req.ID, approval.StatusAccepted, mod)
	require.NoError(t, err)
	assert.Equal(t, user.WhitelistAccepted, f.users.whitelist[userID])

	_, err = f.workflow.Transition(testCtx(), approval.KindUserWhitelist, req.ID, approval.StatusDeclined, mod)
	assert.ErrorIs(t, err, approval.ErrTransitionConflict)
	// The first decision stands.
	assert.Equal(t, user.WhitelistAccepted, f.users.whitelist[userID])
}

func TestTransition_ConcurrentDecisionsApplyOnce(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.users.byID[userID] = user.New("applicant", user.WithID(userID))
	req := f.addRequest(t, approval.KindUserWhitelist, userID, nil)

	mod := moderatorWith(permissions.ManageUsers)
	targets := []approval.Status{approval.StatusAccepted, approval.StatusDeclined}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target approval.Status) {
			defer wg.Done()
			_, errs[i] = f.workflow.Transition(testCtx(), approval.KindUserWhitelist, req.ID, target, mod)
		}(i, target)
	}
	wg.Wait()

	var winners, conflicts int
	var winner approval.Status
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
			winner = targets[i]
		case errors.Is(err, approval.ErrTransitionConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, conflicts)

	// The side effect ran exactly once, for the winning target.
	assert.Equal(t, 1, f.users.whitelistWrites)
	if winner == approval.StatusAccepted {
		assert.Equal(t, user.WhitelistAccepted, f.users.whitelist[userID])
	} else {
		assert.Equal(t, user.WhitelistDeclined, f.users.whitelist[userID])
	}

	stored, err := f.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, winner, stored.Status)
}

func TestTransition_KindMismatchNotFound(t *testing.T) {
	f := newFixture()
	req := f.addRequest(t, approval.KindWarrant, uuid.New(), nil)

	owner := user.New("owner", user.WithRank(user.RankOwner))
	_, err := f.workflow.Transition(testCtx(), approval.KindNameChange, req.ID, approval.StatusAccepted, owner)
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)
}

func TestTransition_WeaponAlreadyDecidedSubjectNotFound(t *testing.T) {
	f := newFixture()
	weaponID := uuid.New()
	f.weapons.byID[weaponID] = &weapon.Weapon{ID: weaponID, BOFStatus: weapon.BOFAccepted}
	req := f.addRequest(t, approval.KindWeaponBOF, weaponID, nil)

	_, err := f.workflow.Transition(
		testCtx(), approval.KindWeaponBOF, req.ID, approval.StatusDeclined,
		moderatorWith(permissions.ManageWeaponRegistrations),
	)
	assert.ErrorIs(t, err, approval.ErrSubjectNotFound)
}

func TestTransition_BusinessWhitelist(t *testing.T) {
	f := newFixture()
	businessID := uuid.New()
	f.businesses.byID[businessID] = &business.Business{ID: businessID, WhitelistStatus: business.WhitelistPending}
	req := f.addRequest(t, approval.KindBusinessWhitelist, businessID, nil)

	updated, err := f.workflow.Transition(
		testCtx(), approval.KindBusinessWhitelist, req.ID, approval.StatusAccepted,
		moderatorWith(permissions.ManageBusinesses),
	)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusAccepted, updated.Status)
	assert.Equal(t, business.WhitelistAccepted, f.businesses.byID[businessID].WhitelistStatus)
}

func TestTransition_ExpungementDeactivatesLinkedWarrants(t *testing.T) {
	f := newFixture()
	first := uuid.New()
	second := uuid.New()
	f.warrants.byID[first] = &warrant.Warrant{ID: first, Status: warrant.StatusActive, ApprovalStatus: warrant.ApprovalAccepted}
	f.warrants.byID[second] = &warrant.Warrant{ID: second, Status: warrant.StatusActive, ApprovalStatus: warrant.ApprovalAccepted}
	req := f.addRequest(t, approval.KindExpungement, uuid.New(), approval.ExpungementPayload{
		RecordIDs: []uuid.UUID{first, second},
	})

	updated, err := f.workflow.Transition(
		testCtx(), approval.KindExpungement, req.ID, approval.StatusAccepted,
		moderatorWith(permissions.ManageExpungementRequests),
	)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusAccepted, updated.Status)
	assert.Equal(t, warrant.StatusInactive, f.warrants.byID[first].Status)
	assert.Equal(t, warrant.StatusInactive, f.warrants.byID[second].Status)
}

func TestCreate_EnforceUniqueSubject(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	subjectID := uuid.New()

	_, err := f.workflow.Create(testCtx(), tenantID, CreateParams{
		Kind:                 approval.KindNameChange,
		SubjectID:            subjectID,
		EnforceUniqueSubject: true,
	})
	require.NoError(t, err)

	_, err = f.workflow.Create(testCtx(), tenantID, CreateParams{
		Kind:                 approval.KindNameChange,
		SubjectID:            subjectID,
		EnforceUniqueSubject: true,
	})
	assert.ErrorIs(t, err, approval.ErrConflictAlreadyLinked)
}

func TestListPending_FiltersKindAndStatus(t *testing.T) {
	f := newFixture()
	f.addRequest(t, approval.KindWarrant, uuid.New(), nil)
	decided := f.addRequest(t, approval.KindWarrant, uuid.New(), nil)
	f.requests.byID[decided.ID].Status = approval.StatusDeclined
	f.addRequest(t, approval.KindNameChange, uuid.New(), nil)

	pending, total, err := f.workflow.ListPending(testCtx(), approval.KindWarrant, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, approval.KindWarrant, pending[0].Kind)
	assert.Equal(t, approval.StatusPending, pending[0].Status)
}
