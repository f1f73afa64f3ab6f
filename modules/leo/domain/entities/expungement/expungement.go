package expungement

import (
	"context"

	"github.com/google/uuid"
)

// Link ties a warrant record into an expungement request. A record may be
// linked into at most one pending request at a time.
type Link struct {
	RequestID uuid.UUID
	RecordID  uuid.UUID
}

type LinkRepository interface {
	// LinkRecords attaches record ids to a request. When any of the ids is
	// already linked to another pending request, no link is written and the
	// conflicting id is returned.
	LinkRecords(ctx context.Context, requestID uuid.UUID, recordIDs []uuid.UUID) (conflict *uuid.UUID, err error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Link, error)
	DeleteByRequest(ctx context.Context, requestID uuid.UUID) error
}
