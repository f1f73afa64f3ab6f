package permissions

import (
	"github.com/google/uuid"

	"github.com/lumen-rp/cadhub/modules/core/domain/entities/permission"
)

const (
	ResourceUser        permission.Resource = "user"
	ResourceCitizen     permission.Resource = "citizen"
	ResourceWarrant     permission.Resource = "warrant"
	ResourceWeapon      permission.Resource = "weapon"
	ResourceBusiness    permission.Resource = "business"
	ResourceExpungement permission.Resource = "expungement"
	ResourceAuditLog    permission.Resource = "audit_log"
)

var (
	ManageUsers = &permission.Permission{
		ID:       uuid.MustParse("7a1d5a39-68a2-4f2c-9cf1-6f2e3c7d1a01"),
		Name:     "Users.Manage",
		Resource: ResourceUser,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	ManageNameChangeRequests = &permission.Permission{
		ID:       uuid.MustParse("1f6d0c8a-2f4b-4bb4-8d15-4a9a6a2e3b02"),
		Name:     "NameChangeRequests.Manage",
		Resource: ResourceCitizen,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	ManageWarrants = &permission.Permission{
		ID:       uuid.MustParse("c2a8f7e1-9d34-44f0-9a76-0f1b2c3d4e03"),
		Name:     "Warrants.Manage",
		Resource: ResourceWarrant,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	ManageWeaponRegistrations = &permission.Permission{
		ID:       uuid.MustParse("5e4d3c2b-1a09-4f87-b654-3c2d1e0f9a04"),
		Name:     "WeaponRegistrations.Manage",
		Resource: ResourceWeapon,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	ManageBusinesses = &permission.Permission{
		ID:       uuid.MustParse("9b8a7c6d-5e4f-4321-a0b9-8c7d6e5f4a05"),
		Name:     "Businesses.Manage",
		Resource: ResourceBusiness,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	ManageExpungementRequests = &permission.Permission{
		ID:       uuid.MustParse("3c2b1a09-8d7e-46f5-b432-1a0f9e8d7c06"),
		Name:     "ExpungementRequests.Manage",
		Resource: ResourceExpungement,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	ViewAuditLog = &permission.Permission{
		ID:       uuid.MustParse("d4e5f6a7-b8c9-4012-9345-6789abcdef07"),
		Name:     "AuditLog.Read",
		Resource: ResourceAuditLog,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
)

// All lists every permission seeded for a community.
var All = []*permission.Permission{
	ManageUsers,
	ManageNameChangeRequests,
	ManageWarrants,
	ManageWeaponRegistrations,
	ManageBusinesses,
	ManageExpungementRequests,
	ViewAuditLog,
}
