package permission

import "github.com/google/uuid"

type (
	Resource string
	Action   string
	Modifier string
)

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"

	ModifierAll Modifier = "all"
	ModifierOwn Modifier = "own"
)

type Permission struct {
	ID       uuid.UUID
	Name     string
	Resource Resource
	Action   Action
	Modifier Modifier
}

func (p *Permission) Equals(other *Permission) bool {
	if p == nil || other == nil {
		return false
	}
	if p.ID != uuid.Nil && other.ID != uuid.Nil {
		return p.ID == other.ID
	}
	return p.Name == other.Name
}
