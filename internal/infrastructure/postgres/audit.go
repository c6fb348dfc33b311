package postgres

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// AuditLogger records security-relevant events (registrations, logins,
// reset issuance) in the audit_log table. Writes are best-effort: a failed
// audit insert is logged but never fails the request that produced it.
type AuditLogger struct {
	db     DB
	logger *logrus.Logger
}

func NewAuditLogger(db DB, logger *logrus.Logger) *AuditLogger {
	return &AuditLogger{db: db, logger: logger}
}

// Record inserts one audit row. userID and email may be empty when the
// event has no resolved account (e.g. a reset attempt for an unknown email).
func (a *AuditLogger) Record(ctx context.Context, userID, email, action, ip, userAgent string, metadata map[string]any) {
	if a == nil || a.db == nil {
		return
	}
	md, _ := json.Marshal(metadata)
	_, err := a.db.Exec(ctx, `
		INSERT INTO audit_log (user_id, email, action, ip, user_agent, metadata)
		VALUES (NULLIF($1, '')::uuid, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6)
	`, userID, email, action, ip, userAgent, md)
	if err != nil && a.logger != nil {
		a.logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}
