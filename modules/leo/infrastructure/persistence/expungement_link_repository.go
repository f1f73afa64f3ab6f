package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/expungement"
	"github.com/lumen-rp/cadhub/pkg/composables"
)

type ExpungementLinkRepository struct{}

func NewExpungementLinkRepository() expungement.LinkRepository {
	return &ExpungementLinkRepository{}
}

func (r *ExpungementLinkRepository) LinkRecords(ctx context.Context, requestID uuid.UUID, recordIDs []uuid.UUID) (*uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(recordIDs))
	for _, id := range recordIDs {
		ids = append(ids, id.String())
	}

	// A record is busy when a link to it exists whose request is still PENDING.
	var conflict string
	err = tx.QueryRow(ctx, `
		SELECT l.record_id
		FROM expungement_links l
		JOIN approval_requests r ON r.id = l.request_id
		WHERE l.tenant_id = $1 AND l.record_id = ANY($2) AND r.status = 'PENDING'
		LIMIT 1
	`, tenantID.String(), ids).Scan(&conflict)
	if err == nil {
		conflictID, parseErr := uuid.Parse(conflict)
		if parseErr != nil {
			return nil, parseErr
		}
		return &conflictID, nil
	}
	if !pkgerrors.Is(err, pgx.ErrNoRows) {
		return nil, pkgerrors.Wrap(err, "check expungement links")
	}

	for _, id := range ids {
		_, err = tx.Exec(ctx, `
			INSERT INTO expungement_links (request_id, tenant_id, record_id)
			VALUES ($1, $2, $3)
		`, requestID.String(), tenantID.String(), id)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "link expungement record")
		}
	}
	return nil, nil
}

func (r *ExpungementLinkRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]expungement.Link, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT request_id, record_id
		FROM expungement_links
		WHERE request_id = $1 AND tenant_id = $2
	`, requestID.String(), tenantID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list expungement links")
	}
	defer rows.Close()

	var links []expungement.Link
	for rows.Next() {
		var reqID, recID string
		if err := rows.Scan(&reqID, &recID); err != nil {
			return nil, err
		}
		var link expungement.Link
		if link.RequestID, err = uuid.Parse(reqID); err != nil {
			return nil, err
		}
		if link.RecordID, err = uuid.Parse(recID); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *ExpungementLinkRepository) DeleteByRequest(ctx context.Context, requestID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		DELETE FROM expungement_links
		WHERE request_id = $1 AND tenant_id = $2
	`, requestID.String(), tenantID.String())
	return pkgerrors.Wrap(err, "delete expungement links")
}
