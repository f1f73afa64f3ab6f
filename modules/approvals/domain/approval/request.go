package approval

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates which workflow a request belongs to and which side
// effects an accepted transition applies.
type Kind string

const (
	KindNameChange        Kind = "NAME_CHANGE"
	KindWarrant           Kind = "WARRANT"
	KindWeaponBOF         Kind = "WEAPON_BOF"
	KindBusinessWhitelist Kind = "BUSINESS_WHITELIST"
	KindUserWhitelist     Kind = "USER_WHITELIST"
	KindExpungement       Kind = "EXPUNGEMENT"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindNameChange, KindWarrant, KindWeaponBOF,
		KindBusinessWhitelist, KindUserWhitelist, KindExpungement:
		return true
	}
	return false
}

// Status is the approval lifecycle. PENDING is initial; ACCEPTED and DECLINED
// are terminal, no transition leads out of them.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Request is a pending approval of some kind concerning a subject entity.
// SubjectID is a back-reference only; the subject is owned by its own module.
// Payload is the kind-specific proposed change and is immutable after creation.
type Request struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Kind      Kind
	Status    Status
	SubjectID uuid.UUID
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NameChangePayload is the proposed change carried by a name-change request.
type NameChangePayload struct {
	NewName    string `json:"newName"`
	NewSurname string `json:"newSurname"`
}

// ExpungementPayload lists the warrant records a citizen asks to expunge.
type ExpungementPayload struct {
	RecordIDs []uuid.UUID `json:"recordIds"`
}
