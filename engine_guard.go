package goBlog

import (
	"context"

	"github.com/MrEthical07/goBlog/permission"
)

func principalOf(u *User) permission.Principal {
	if u == nil {
		return permission.Anonymous
	}
	return permission.User(u.ID)
}

// authorize maps a guard decision onto the engine's error taxonomy and
// records rejections.
func (e *Engine) authorize(ctx context.Context, action permission.Action, requester *User, owner int64, resourceType string, resourceID int64) error {
	p := principalOf(requester)
	switch permission.Decide(action, p, owner) {
	case permission.Allow:
		return nil
	case permission.Unauthenticated:
		e.metricInc(MetricGuardUnauthenticated)
		e.emitGuardRejection(ctx, action, 0, resourceType, resourceID, ErrUnauthenticated)
		return ErrUnauthenticated
	default:
		e.metricInc(MetricGuardForbidden)
		e.emitGuardRejection(ctx, action, p.ID, resourceType, resourceID, ErrForbidden)
		return ErrForbidden
	}
}

// requireUser is the first step of every mutation: anonymous requesters
// are turned away before any lookup, so they never learn whether a record
// exists.
func (e *Engine) requireUser(ctx context.Context, action permission.Action, requester *User, resourceType string, resourceID int64) error {
	if requester != nil {
		return nil
	}
	return e.authorize(ctx, action, nil, 0, resourceType, resourceID)
}
