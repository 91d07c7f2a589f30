package pgstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/twofactor/pkg/audit"
)

const insertAuditEventSQL = `
INSERT INTO audit_events (
    id, principal_id, session_id, action, resource, resource_id, result,
    error, request_id, ip, user_agent, metadata, created_at
) VALUES (
    $1, NULLIF($2, ''), NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7,
    NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), $12, $13
)`

// AuditStorage writes audit events to the audit_events table.
type AuditStorage struct {
	db DBTX
}

var _ audit.Storage = (*AuditStorage)(nil)

func NewAuditStorage(db DBTX) *AuditStorage {
	return &AuditStorage{db: db}
}

func (s *AuditStorage) Store(ctx context.Context, e audit.Event) error {
	var metadata []byte
	if len(e.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return errors.Join(audit.ErrEventValidation, err)
		}
	}

	_, err := s.db.Exec(ctx, insertAuditEventSQL,
		e.ID, e.PrincipalID, e.SessionID, e.Action, e.Resource, e.ResourceID, string(e.Result),
		e.Error, e.RequestID, e.IP, e.UserAgent, metadata, e.CreatedAt,
	)
	if err != nil {
		return errors.Join(audit.ErrStorageNotAvailable, ErrQueryFailed, err)
	}
	return nil
}
