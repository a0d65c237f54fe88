package rules

// RoleStatus is the lifecycle state of a host's membership on a team.
type RoleStatus int

const (
	StatusRequested RoleStatus = iota
	StatusAccepted
	StatusRejected
)

func (s RoleStatus) String() string {
	switch s {
	case StatusRequested:
		return "requested"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// PermissionLevel orders what an accepted role may do: Read < Write < Admin.
type PermissionLevel int

const (
	Read PermissionLevel = iota
	Write
	Admin
)

func (l PermissionLevel) String() string {
	switch l {
	case Read:
		return "read"
	case Write:
		return "write"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// RoleAssignment links an actor to a team with an invitation status and a
// permission level. The engine assumes (ActorID, TeamID) pairs are unique
// but does not enforce it.
type RoleAssignment struct {
	ActorID string
	TeamID  string
	Status  RoleStatus
	Level   PermissionLevel
}

// DenyReason classifies why an authorization check failed.
type DenyReason int

const (
	DenyNone DenyReason = iota
	NotAuthenticated
	NoMatchingRole
	InsufficientLevel
	WrongTeamScope
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return ""
	case NotAuthenticated:
		return "not_authenticated"
	case NoMatchingRole:
		return "no_matching_role"
	case InsufficientLevel:
		return "insufficient_level"
	case WrongTeamScope:
		return "wrong_team_scope"
	default:
		return "unknown"
	}
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Permitted bool
	Reason    DenyReason
}

// Permit is the positive decision.
func Permit() Decision { return Decision{Permitted: true} }

// Deny is a negative decision tagged with its reason.
func Deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Authorize decides whether the actor may perform an operation requiring
// the given level against the team whose role assignments are supplied.
// An empty actor id models an unauthenticated caller and is rejected
// before any role is inspected. Only accepted roles count; a matching
// accepted role below the required level yields InsufficientLevel.
func Authorize(actorID string, roles []RoleAssignment, required PermissionLevel) Decision {
	if actorID == "" {
		return Deny(NotAuthenticated)
	}

	found := false
	for _, r := range roles {
		if r.ActorID != actorID || r.Status != StatusAccepted {
			continue
		}
		found = true
		if r.Level >= required {
			return Permit()
		}
	}

	if !found {
		return Deny(NoMatchingRole)
	}
	return Deny(InsufficientLevel)
}

// AuthorizeScoped adds the ownership disambiguation applied to challenge
// mutations: the team that owns the target must be the team named in the
// request path. A mismatch yields WrongTeamScope before any role lookup.
func AuthorizeScoped(actorID, owningTeamID, requestTeamID string, roles []RoleAssignment, required PermissionLevel) Decision {
	if owningTeamID != requestTeamID {
		return Deny(WrongTeamScope)
	}
	return Authorize(actorID, roles, required)
}
