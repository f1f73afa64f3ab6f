package models

import (
	"encoding/json"
	"time"
)

type ApprovalRequest struct {
	ID        string
	TenantID  string
	Kind      string
	Status    string
	SubjectID string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
