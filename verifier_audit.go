package jokauth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventTokenAccepted = "token_accepted"
	auditEventTokenRejected = "token_rejected"
)

func (v *Verifier) emitDecodeAudit(ctx context.Context, claims Claims, kind FailureKind) {
	if v == nil || v.audit == nil {
		return
	}

	event := AuditEvent{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		EventType: auditEventTokenAccepted,
		KeyID:     v.key.PublicKey(),
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   kind == FailureNone,
	}

	if kind != FailureNone {
		event.EventType = auditEventTokenRejected
		event.Failure = kind.String()
	} else {
		event.Subject = v.Subject(claims)
		if roles := v.Roles(claims); len(roles) > 0 {
			event.Metadata = map[string]string{"roles": strings.Join(roles, ",")}
		}
	}

	v.audit.Emit(ctx, event)
}
