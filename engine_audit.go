package goBlog

import (
	"context"
	"errors"

	"github.com/MrEthical07/goBlog/permission"
)

const (
	auditEventSignupSuccess   = "signup_success"
	auditEventSignupFailure   = "signup_failure"
	auditEventLoginSuccess    = "login_success"
	auditEventLoginFailure    = "login_failure"
	auditEventLogout          = "logout"
	auditEventPostCreated     = "post_created"
	auditEventPostUpdated     = "post_updated"
	auditEventPostDeleted     = "post_deleted"
	auditEventPostLiked       = "post_liked"
	auditEventCommentCreated  = "comment_created"
	auditEventCommentUpdated  = "comment_updated"
	auditEventCommentDeleted  = "comment_deleted"
	auditEventAccessForbidden = "access_forbidden"
	auditEventAccessAnonymous = "access_unauthenticated"
)

const (
	resourceUser    = "user"
	resourcePost    = "post"
	resourceComment = "comment"
)

// AuditErrorCode is the machine-readable error written to AuditEvent.Error.
type AuditErrorCode string

const (
	auditErrUnauthenticated    AuditErrorCode = "unauthenticated"
	auditErrForbidden          AuditErrorCode = "forbidden"
	auditErrNotFound           AuditErrorCode = "not_found"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrValidation         AuditErrorCode = "validation"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID int64,
	resourceType string,
	resourceID int64,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		EventType:    eventType,
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    RequestIDFromContext(ctx),
		IP:           clientIPFromContext(ctx),
		Success:      success,
		Metadata:     metadata,
		Timestamp:    e.now(),
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitGuardRejection(ctx context.Context, action permission.Action, userID int64, resourceType string, resourceID int64, err error) {
	eventType := auditEventAccessForbidden
	if errors.Is(err, ErrUnauthenticated) {
		eventType = auditEventAccessAnonymous
	}
	e.emitAudit(ctx, eventType, false, userID, resourceType, resourceID, err, func() map[string]string {
		return map[string]string{"action": action.String()}
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return auditErrUnauthenticated
	case errors.Is(err, ErrForbidden):
		return auditErrForbidden
	case errors.Is(err, ErrNotFound):
		return auditErrNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrDuplicateUsername):
		return auditErrDuplicate
	case errors.Is(err, ErrValidation):
		return auditErrValidation
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
