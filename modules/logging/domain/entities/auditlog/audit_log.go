package auditlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActionType tags the kind of change an audit entry describes.
type ActionType string

const (
	ActionNameChangeAccepted  ActionType = "NAME_CHANGE_ACCEPTED"
	ActionNameChangeDeclined  ActionType = "NAME_CHANGE_DECLINED"
	ActionWarrantAccepted     ActionType = "WARRANT_ACCEPTED"
	ActionWarrantDeclined     ActionType = "WARRANT_DECLINED"
	ActionWeaponBOFAccepted   ActionType = "WEAPON_BOF_ACCEPTED"
	ActionWeaponBOFDeclined   ActionType = "WEAPON_BOF_DECLINED"
	ActionBusinessAccepted    ActionType = "BUSINESS_ACCEPTED"
	ActionBusinessDeclined    ActionType = "BUSINESS_DECLINED"
	ActionUserAccepted        ActionType = "USER_ACCEPTED"
	ActionUserDeclined        ActionType = "USER_DECLINED"
	ActionExpungementAccepted ActionType = "EXPUNGEMENT_ACCEPTED"
	ActionExpungementDeclined ActionType = "EXPUNGEMENT_DECLINED"
)

// Entry is an append-only record of a performed transition. Entries are never
// mutated or deleted, even when the request they describe is purged.
type Entry struct {
	ID             uint
	TenantID       uuid.UUID
	TranslationKey string
	ActionType     ActionType
	ExecutorID     uuid.UUID
	Before         json.RawMessage
	After          json.RawMessage
	CreatedAt      time.Time
}

type FindParams struct {
	ExecutorID *uuid.UUID
	ActionType ActionType
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Entry, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, entry *Entry) error
}
