package permission

// Action names a guarded operation on blog content.
type Action uint8

const (
	ViewPost Action = iota + 1
	CreatePost
	EditPost
	DeletePost
	LikePost
	ViewComment
	CreateComment
	EditComment
	DeleteComment
)

var actionNames = [...]string{
	ViewPost:      "view_post",
	CreatePost:    "create_post",
	EditPost:      "edit_post",
	DeletePost:    "delete_post",
	LikePost:      "like_post",
	ViewComment:   "view_comment",
	CreateComment: "create_comment",
	EditComment:   "edit_comment",
	DeleteComment: "delete_comment",
}

func (a Action) String() string {
	if int(a) < len(actionNames) && actionNames[a] != "" {
		return actionNames[a]
	}
	return "unknown"
}

// Mutates reports whether the action changes stored content.
func (a Action) Mutates() bool {
	return a != ViewPost && a != ViewComment
}

// Decision is the outcome of a guard check.
type Decision uint8

const (
	Allow Decision = iota
	Forbid
	Unauthenticated
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Forbid:
		return "forbid"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Principal is the requester as seen by the guard. The zero value is an
// anonymous visitor.
type Principal struct {
	ID            int64
	Authenticated bool
}

// Anonymous is the principal for requests without a valid session.
var Anonymous = Principal{}

// User returns an authenticated principal for id.
func User(id int64) Principal {
	return Principal{ID: id, Authenticated: true}
}

// Decide applies the rule for action. owner is the creator of the target
// post or comment and is ignored for view and create actions.
//
// An anonymous requester never gets Forbid for a mutating action; they get
// Unauthenticated so callers can send them to the login page instead.
func Decide(action Action, p Principal, owner int64) Decision {
	if !action.Mutates() {
		return Allow
	}
	if !p.Authenticated {
		return Unauthenticated
	}

	switch action {
	case CreatePost, CreateComment:
		return Allow
	case EditPost, DeletePost, EditComment, DeleteComment:
		if p.ID == owner {
			return Allow
		}
		return Forbid
	case LikePost:
		if p.ID != owner {
			return Allow
		}
		return Forbid
	default:
		return Forbid
	}
}
