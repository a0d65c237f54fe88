package rules

// Team is a snapshot of a participant team: who created it and which
// actors are on its roster.
type Team struct {
	ID        string
	OwnerID   string
	MemberIDs []string
}

// Mapping is the join record between a participant team and a challenge.
// The engine never creates mappings; it only decides whether the caller may.
type Mapping struct {
	ChallengeID string
	TeamID      string
}

// JoinReason classifies why a join attempt was rejected.
type JoinReason int

const (
	JoinAllowed JoinReason = iota
	SelfParticipation
	AlreadyMapped
	MemberConflict
)

func (r JoinReason) String() string {
	switch r {
	case JoinAllowed:
		return ""
	case SelfParticipation:
		return "self_participation"
	case AlreadyMapped:
		return "already_mapped"
	case MemberConflict:
		return "member_conflict"
	default:
		return "unknown"
	}
}

// JoinDecision is the outcome of a participation check. On AlreadyMapped
// the ChallengeID/TeamID fields echo the existing mapping so the caller
// can frame the repeat join as idempotent success rather than a hard
// error. On MemberConflict TeamID names the team that already holds one
// of the candidate's members.
type JoinDecision struct {
	Allowed     bool
	Reason      JoinReason
	ChallengeID string
	TeamID      string
}

// JoinRequest is the snapshot a caller assembles before asking whether a
// participant team may join a challenge.
type JoinRequest struct {
	ChallengeID string
	HostTeamID  string

	// Actors holding an accepted role on the challenge's host team.
	HostActorIDs []string

	// Current mappings for this challenge, in mapping order.
	Existing []Mapping

	Candidate Team

	// Roster of every team currently mapped to the challenge.
	TeamMembers map[string][]string
}

// ValidateJoin applies the participation checks in order; the first
// failing check wins.
//
//  1. A team created by an accepted host of the challenge's own host team
//     may not join (no shadow teams for the host).
//  2. A team already mapped to the challenge is rejected with the existing
//     mapping's identifiers.
//  3. A team whose roster overlaps any currently mapped team is rejected
//     with the conflicting team's id (no duplicate entries for one actor).
func ValidateJoin(req JoinRequest) JoinDecision {
	for _, hostID := range req.HostActorIDs {
		if hostID == req.Candidate.OwnerID {
			return JoinDecision{
				Reason:      SelfParticipation,
				ChallengeID: req.ChallengeID,
				TeamID:      req.Candidate.ID,
			}
		}
	}

	for _, m := range req.Existing {
		if m.ChallengeID == req.ChallengeID && m.TeamID == req.Candidate.ID {
			return JoinDecision{
				Reason:      AlreadyMapped,
				ChallengeID: m.ChallengeID,
				TeamID:      m.TeamID,
			}
		}
	}

	for _, m := range req.Existing {
		if m.ChallengeID != req.ChallengeID || m.TeamID == req.Candidate.ID {
			continue
		}
		for _, member := range req.TeamMembers[m.TeamID] {
			for _, candidate := range req.Candidate.MemberIDs {
				if member == candidate {
					return JoinDecision{
						Reason:      MemberConflict,
						ChallengeID: req.ChallengeID,
						TeamID:      m.TeamID,
					}
				}
			}
		}
	}

	return JoinDecision{
		Allowed:     true,
		ChallengeID: req.ChallengeID,
		TeamID:      req.Candidate.ID,
	}
}
