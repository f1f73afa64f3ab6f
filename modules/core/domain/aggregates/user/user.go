package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
)

// Rank orders users within a community. Everything above RankUser counts as
// elevated for permission gating.
type Rank string

const (
	RankUser      Rank = "USER"
	RankModerator Rank = "MODERATOR"
	RankAdmin     Rank = "ADMIN"
	RankOwner     Rank = "OWNER"
)

func (r Rank) IsValid() bool {
	switch r {
	case RankUser, RankModerator, RankAdmin, RankOwner:
		return true
	}
	return false
}

// Elevated reports whether the rank is above the regular user rank.
func (r Rank) Elevated() bool {
	return r.IsValid() && r != RankUser
}

// WhitelistStatus tracks the pending-user approval lifecycle.
type WhitelistStatus string

const (
	WhitelistPending  WhitelistStatus = "PENDING"
	WhitelistAccepted WhitelistStatus = "ACCEPTED"
	WhitelistDeclined WhitelistStatus = "DECLINED"
)

type User interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Username() string
	Rank() Rank
	WhitelistStatus() WhitelistStatus
	Banned() bool
	Permissions() []*permission.Permission
	Can(perm *permission.Permission) bool
	CreatedAt() time.Time
}

type Option func(*userImpl)

func WithID(id uuid.UUID) Option {
	return func(u *userImpl) {
		u.id = id
	}
}

func WithTenantID(id uuid.UUID) Option {
	return func(u *userImpl) {
		u.tenantID = id
	}
}

func WithRank(rank Rank) Option {
	return func(u *userImpl) {
		u.rank = rank
	}
}

func WithWhitelistStatus(status WhitelistStatus) Option {
	return func(u *userImpl) {
		u.whitelistStatus = status
	}
}

func WithBanned(banned bool) Option {
	return func(u *userImpl) {
		u.banned = banned
	}
}

func WithPermissions(perms []*permission.Permission) Option {
	return func(u *userImpl) {
		u.permissions = perms
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(u *userImpl) {
		u.createdAt = createdAt
	}
}

func New(username string, opts ...Option) User {
	u := &userImpl{
		id:              uuid.New(),
		username:        username,
		rank:            RankUser,
		whitelistStatus: WhitelistPending,
		createdAt:       time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type userImpl struct {
	id              uuid.UUID
	tenantID        uuid.UUID
	username        string
	rank            Rank
	whitelistStatus WhitelistStatus
	banned          bool
	permissions     []*permission.Permission
	createdAt       time.Time
}

func (u *userImpl) ID() uuid.UUID {
	return u.id
}

func (u *userImpl) TenantID() uuid.UUID {
	return u.tenantID
}

func (u *userImpl) Username() string {
	return u.username
}

func (u *userImpl) Rank() Rank {
	return u.rank
}

func (u *userImpl) WhitelistStatus() WhitelistStatus {
	return u.whitelistStatus
}

func (u *userImpl) Banned() bool {
	return u.banned
}

func (u *userImpl) Permissions() []*permission.Permission {
	return u.permissions
}

func (u *userImpl) Can(perm *permission.Permission) bool {
	for _, p := range u.permissions {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}

func (u *userImpl) CreatedAt() time.Time {
	return u.createdAt
}
