package types

import "github.com/evalarena/arena-backend/internal/rules"

// Challenge host status values (stored form)
const (
	HostStatusRequested = "requested"
	HostStatusAccepted  = "accepted"
	HostStatusRejected  = "rejected"
)

// Challenge host permission values (stored form)
const (
	PermissionRead  = "read"
	PermissionWrite = "write"
	PermissionAdmin = "admin"
)

// Participant status values
const (
	ParticipantSelf     = "self"
	ParticipantPending  = "pending"
	ParticipantAccepted = "accepted"
	ParticipantDenied   = "denied"
)

// Challenge time segments for the bucket listing endpoint
const (
	ChallengePast    = "PAST"
	ChallengePresent = "PRESENT"
	ChallengeFuture  = "FUTURE"
	ChallengeAll     = "ALL"
)

// Phase split visibility values
const (
	VisibilityHost         = "host"
	VisibilityOwnerAndHost = "owner_and_host"
	VisibilityPublic       = "public"
)

var ValidParticipantStatuses = []string{
	ParticipantSelf, ParticipantPending, ParticipantAccepted, ParticipantDenied,
}

var ValidChallengeTimes = []string{
	ChallengePast, ChallengePresent, ChallengeFuture, ChallengeAll,
}

var ValidVisibilities = []string{
	VisibilityHost, VisibilityOwnerAndHost, VisibilityPublic,
}

// ParseHostStatus converts a stored status string into its closed rules
// variant. Statuses are validated here, once, so the rules engine never
// sees raw strings.
func ParseHostStatus(status string) (rules.RoleStatus, bool) {
	switch status {
	case HostStatusRequested:
		return rules.StatusRequested, true
	case HostStatusAccepted:
		return rules.StatusAccepted, true
	case HostStatusRejected:
		return rules.StatusRejected, true
	default:
		return 0, false
	}
}

// ParsePermissionLevel converts a stored permission string into its
// closed rules variant.
func ParsePermissionLevel(permission string) (rules.PermissionLevel, bool) {
	switch permission {
	case PermissionRead:
		return rules.Read, true
	case PermissionWrite:
		return rules.Write, true
	case PermissionAdmin:
		return rules.Admin, true
	default:
		return 0, false
	}
}

func IsValidParticipantStatus(status string) bool {
	for _, s := range ValidParticipantStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidChallengeTime(segment string) bool {
	for _, s := range ValidChallengeTimes {
		if s == segment {
			return true
		}
	}
	return false
}

func IsValidVisibility(visibility string) bool {
	for _, v := range ValidVisibilities {
		if v == visibility {
			return true
		}
	}
	return false
}
