package shared

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"gymhub/internal/domain/auth"
	"gymhub/internal/transport/http/middleware"
)

type Auditor interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

type Notifier interface {
	Create(ctx context.Context, recipientID, ntype, title, body string) error
}

// Audit records a mutation. The request has already succeeded, so a failure is only logged.
func Audit(r *http.Request, a Auditor, action, entityType, entityID string, before, after any) {
	if a == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	if err := a.Record(r.Context(), user.UserID, action, entityType, entityID, requestID, ClientIP(r), before, after); err != nil {
		log.Warn().Err(err).Str("action", action).Str("entityId", entityID).Str("requestId", requestID).Msg("audit record failed")
	}
}

func Notify(r *http.Request, n Notifier, recipientID, ntype, title, body string) {
	if n == nil || recipientID == "" {
		return
	}
	if err := n.Create(r.Context(), recipientID, ntype, title, body); err != nil {
		log.Warn().Err(err).Str("type", ntype).Str("requestId", middleware.GetRequestID(r.Context())).Msg("notification create failed")
	}
}

// Recipient is the inbox a caller reads: their staff or member id, or the account id for bare accounts.
func Recipient(user auth.UserContext) string {
	if user.SubjectID != "" {
		return user.SubjectID
	}
	return user.UserID
}

// Privileged reports whether the caller sees every record rather than only their own.
func Privileged(user auth.UserContext) bool {
	return user.Role == auth.RoleAdmin || user.Role == auth.RoleManager
}
