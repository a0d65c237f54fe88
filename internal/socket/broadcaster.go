package socket

import (
	"fmt"
)

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Challenge Broadcasting
// ============================================

// BroadcastChallengeCreated announces a new published challenge to all clients
func (b *Broadcaster) BroadcastChallengeCreated(challenge map[string]interface{}) {
	b.hub.SendToAll(MessageChallengeCreated, challenge)
}

// BroadcastChallengeUpdated broadcasts challenge updates to its subscribers
func (b *Broadcaster) BroadcastChallengeUpdated(challengeID string, challenge map[string]interface{}, excludeUserID string) {
	room := fmt.Sprintf("challenge:%s", challengeID)
	b.hub.SendToRoom(room, MessageChallengeUpdated, challenge, excludeUserID)
}

// BroadcastChallengeDeleted broadcasts challenge deletion to its subscribers
func (b *Broadcaster) BroadcastChallengeDeleted(challengeID string, excludeUserID string) {
	room := fmt.Sprintf("challenge:%s", challengeID)
	b.hub.SendToRoom(room, MessageChallengeDeleted, map[string]interface{}{
		"challenge_id": challengeID,
	}, excludeUserID)
}

// BroadcastChallengeDisabled tells subscribers the challenge is no longer available
func (b *Broadcaster) BroadcastChallengeDisabled(challengeID string) {
	room := fmt.Sprintf("challenge:%s", challengeID)
	b.hub.SendToRoom(room, MessageChallengeDisabled, map[string]interface{}{
		"challenge_id": challengeID,
	}, "")
}

// ============================================
// Phase Broadcasting
// ============================================

// BroadcastPhaseCreated broadcasts phase creation to challenge subscribers
func (b *Broadcaster) BroadcastPhaseCreated(challengeID string, phase map[string]interface{}, excludeUserID string) {
	room := fmt.Sprintf("challenge:%s", challengeID)
	b.hub.SendToRoom(room, MessagePhaseCreated, phase, excludeUserID)
}

// BroadcastPhaseUpdated broadcasts phase updates to challenge subscribers
func (b *Broadcaster) BroadcastPhaseUpdated(challengeID string, phase map[string]interface{}, excludeUserID string) {
	room := fmt.Sprintf("challenge:%s", challengeID)
	b.hub.SendToRoom(room, MessagePhaseUpdated, phase, excludeUserID)
}

// BroadcastPhaseDeleted broadcasts phase deletion to challenge subscribers
func (b *Broadcaster) BroadcastPhaseDeleted(challengeID, phaseID string, excludeUserID string) {
	room := fmt.Sprintf("challenge:%s", challengeID)
	b.hub.SendToRoom(room, MessagePhaseDeleted, map[string]interface{}{
		"challenge_id": challengeID,
		"phase_id":     phaseID,
	}, excludeUserID)
}

// ============================================
// Participation Broadcasting
// ============================================

// BroadcastTeamJoined announces a participant team joining a challenge
func (b *Broadcaster) BroadcastTeamJoined(challengeID, teamID string, excludeUserID string) {
	room := fmt.Sprintf("challenge:%s", challengeID)
	b.hub.SendToRoom(room, MessageTeamJoined, map[string]interface{}{
		"challenge_id":        challengeID,
		"participant_team_id": teamID,
	}, excludeUserID)
}

// ============================================
// Team Membership Broadcasting
// ============================================

// NotifyMemberAdded tells a user they were added to a team
func (b *Broadcaster) NotifyMemberAdded(userID, teamID, teamKind string) {
	b.hub.SendToUser(userID, MessageMemberAdded, map[string]interface{}{
		"team_id":   teamID,
		"team_kind": teamKind,
	})
}

// NotifyMemberRemoved tells a user they were removed from a team
func (b *Broadcaster) NotifyMemberRemoved(userID, teamID, teamKind string) {
	b.hub.SendToUser(userID, MessageMemberRemoved, map[string]interface{}{
		"team_id":   teamID,
		"team_kind": teamKind,
	})
}

// SendToUsers sends a message to multiple specific users
func (b *Broadcaster) SendToUsers(userIDs []string, msgType MessageType, payload map[string]interface{}) {
	for _, userID := range userIDs {
		b.hub.SendToUser(userID, msgType, payload)
	}
}
