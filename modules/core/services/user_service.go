package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
	"github.com/lumen-rp/cadhub/modules/core/permissions"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

var (
	ErrUsernameRequired  = serrors.NewError("FIELD_REQUIRED", "username is required", "Core.Errors.UsernameRequired")
	ErrUsernameTaken     = serrors.NewError("CONFLICT_ALREADY_LINKED", "username is already taken", "Core.Errors.UsernameTaken")
	ErrInvalidRank       = serrors.NewError("INVALID_FIELD", "rank is not recognized", "Core.Errors.InvalidRank")
	ErrInvalidPermission = serrors.NewError("INVALID_FIELD", "permission is not recognized", "Core.Errors.InvalidPermission")
)

// UserService handles community membership. Joining creates the user in
// PENDING whitelist state plus the approval request moderators decide on.
type UserService struct {
	users    user.Repository
	workflow *approvalservices.WorkflowService
}

func NewUserService(users user.Repository, workflow *approvalservices.WorkflowService) *UserService {
	return &UserService{users: users, workflow: workflow}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var found user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.users.GetByID(txCtx, id)
		return err
	})
	return found, err
}

func (s *UserService) List(ctx context.Context, params *user.FindParams) ([]user.User, int64, error) {
	var results []user.User
	var total int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		if results, err = s.users.List(txCtx, params); err != nil {
			return err
		}
		total, err = s.users.Count(txCtx, params)
		return err
	})
	return results, total, err
}

// Join registers a user into the community whitelist queue.
func (s *UserService) Join(ctx context.Context, username string) (user.User, *approval.Request, error) {
	if username == "" {
		return nil, nil, ErrUsernameRequired
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, err
	}

	u := user.New(username, user.WithTenantID(tenantID))
	var req *approval.Request
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.users.GetByUsername(txCtx, username); err == nil && existing != nil {
			return ErrUsernameTaken
		}
		if _, err := s.users.Create(txCtx, u); err != nil {
			return err
		}
		req, err = s.workflow.Create(txCtx, tenantID, approvalservices.CreateParams{
			Kind:      approval.KindUserWhitelist,
			SubjectID: u.ID(),
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return u, req, nil
}

// SetRank changes a user's rank. Owner-only by convention; the controller
// enforces the caller's rank before delegating here.
func (s *UserService) SetRank(ctx context.Context, id uuid.UUID, rank user.Rank) error {
	if !rank.IsValid() {
		return ErrInvalidRank
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.users.UpdateRank(txCtx, id, rank)
	})
}

// SetPermissions replaces a user's grants with the named permissions from the
// seeded catalog. Unknown names are rejected before anything is written.
func (s *UserService) SetPermissions(ctx context.Context, id uuid.UUID, names []string) error {
	byName := make(map[string]*permission.Permission, len(permissions.All))
	for _, p := range permissions.All {
		byName[p.Name] = p
	}
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			return ErrInvalidPermission.WithMessage("permission " + name + " is not recognized")
		}
		ids = append(ids, p.ID)
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.users.GetByID(txCtx, id); err != nil {
			return err
		}
		return s.users.SetPermissions(txCtx, id, ids)
	})
}
