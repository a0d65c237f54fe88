package rules

// Filter mode keywords accepted on the team-based challenge listing.
const (
	ModeHost        = "host"
	ModeParticipant = "participant"
)

// FilterRequest carries the raw team-listing query parameters. At most
// one selector should be populated; empty string means absent.
type FilterRequest struct {
	HostTeamID        string
	ParticipantTeamID string
	Mode              string
}

// PredicateKind tags the resolved filter.
type PredicateKind int

const (
	PredicateInvalid PredicateKind = iota

	// Challenges owned by the named host team.
	PredicateHostTeam

	// Challenges mapped to the named participant team.
	PredicateParticipantTeam

	// Challenges owned by any team the current actor has an accepted
	// role on.
	PredicateHostMode

	// Challenges mapped to any team the current actor is a member of.
	PredicateParticipantMode
)

// FilterPredicate is the single filter a listing query should apply.
// TeamID is set only for the two by-id kinds.
type FilterPredicate struct {
	Kind   PredicateKind
	TeamID string
}

// Invalid reports whether the request could not be resolved.
func (p FilterPredicate) Invalid() bool { return p.Kind == PredicateInvalid }

// ResolveFilter maps the sparse request to exactly one predicate. Zero or
// more than one populated selector is invalid, as is an unknown mode
// keyword.
func ResolveFilter(req FilterRequest) FilterPredicate {
	populated := 0
	if req.HostTeamID != "" {
		populated++
	}
	if req.ParticipantTeamID != "" {
		populated++
	}
	if req.Mode != "" {
		populated++
	}
	if populated != 1 {
		return FilterPredicate{Kind: PredicateInvalid}
	}

	switch {
	case req.HostTeamID != "":
		return FilterPredicate{Kind: PredicateHostTeam, TeamID: req.HostTeamID}
	case req.ParticipantTeamID != "":
		return FilterPredicate{Kind: PredicateParticipantTeam, TeamID: req.ParticipantTeamID}
	case req.Mode == ModeHost:
		return FilterPredicate{Kind: PredicateHostMode}
	case req.Mode == ModeParticipant:
		return FilterPredicate{Kind: PredicateParticipantMode}
	default:
		return FilterPredicate{Kind: PredicateInvalid}
	}
}
