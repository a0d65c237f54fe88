package rules

import "testing"

func acceptedRole(actor, team string, level PermissionLevel) RoleAssignment {
	return RoleAssignment{ActorID: actor, TeamID: team, Status: StatusAccepted, Level: level}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		actorID  string
		roles    []RoleAssignment
		required PermissionLevel
		want     Decision
	}{
		{
			name:     "admin may write",
			actorID:  "u1",
			roles:    []RoleAssignment{acceptedRole("u1", "t1", Admin)},
			required: Write,
			want:     Permit(),
		},
		{
			name:     "admin may admin",
			actorID:  "u1",
			roles:    []RoleAssignment{acceptedRole("u1", "t1", Admin)},
			required: Admin,
			want:     Permit(),
		},
		{
			name:     "writer may write",
			actorID:  "u1",
			roles:    []RoleAssignment{acceptedRole("u1", "t1", Write)},
			required: Write,
			want:     Permit(),
		},
		{
			name:     "writer may not admin",
			actorID:  "u1",
			roles:    []RoleAssignment{acceptedRole("u1", "t1", Write)},
			required: Admin,
			want:     Deny(InsufficientLevel),
		},
		{
			name:     "reader may not write",
			actorID:  "u1",
			roles:    []RoleAssignment{acceptedRole("u1", "t1", Read)},
			required: Write,
			want:     Deny(InsufficientLevel),
		},
		{
			name:    "requested role does not count",
			actorID: "u1",
			roles: []RoleAssignment{
				{ActorID: "u1", TeamID: "t1", Status: StatusRequested, Level: Admin},
			},
			required: Write,
			want:     Deny(NoMatchingRole),
		},
		{
			name:    "rejected role does not count",
			actorID: "u1",
			roles: []RoleAssignment{
				{ActorID: "u1", TeamID: "t1", Status: StatusRejected, Level: Admin},
			},
			required: Write,
			want:     Deny(NoMatchingRole),
		},
		{
			name:     "someone else's role does not count",
			actorID:  "u1",
			roles:    []RoleAssignment{acceptedRole("u2", "t1", Admin)},
			required: Write,
			want:     Deny(NoMatchingRole),
		},
		{
			name:     "no roles at all",
			actorID:  "u1",
			roles:    nil,
			required: Write,
			want:     Deny(NoMatchingRole),
		},
		{
			name:    "highest accepted role wins",
			actorID: "u1",
			roles: []RoleAssignment{
				acceptedRole("u1", "t1", Read),
				acceptedRole("u1", "t1", Admin),
			},
			required: Admin,
			want:     Permit(),
		},
		{
			name:     "unauthenticated actor",
			actorID:  "",
			roles:    []RoleAssignment{acceptedRole("u1", "t1", Admin)},
			required: Write,
			want:     Deny(NotAuthenticated),
		},
		{
			name:     "unauthenticated actor with no roles",
			actorID:  "",
			roles:    nil,
			required: Admin,
			want:     Deny(NotAuthenticated),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.actorID, tt.roles, tt.required)
			if got != tt.want {
				t.Errorf("Authorize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeAdminPassesWhereverWritePasses(t *testing.T) {
	// Monotonicity: upgrading an accepted role from Write to Admin never
	// turns a Permit into a Deny.
	writeRoles := []RoleAssignment{acceptedRole("u1", "t1", Write)}
	adminRoles := []RoleAssignment{acceptedRole("u1", "t1", Admin)}

	for _, required := range []PermissionLevel{Read, Write} {
		if Authorize("u1", writeRoles, required).Permitted &&
			!Authorize("u1", adminRoles, required).Permitted {
			t.Errorf("admin denied at level %v where write was permitted", required)
		}
	}
}

func TestAuthorizeScoped(t *testing.T) {
	roles := []RoleAssignment{acceptedRole("u1", "t1", Admin)}

	tests := []struct {
		name          string
		actorID       string
		owningTeamID  string
		requestTeamID string
		want          Decision
	}{
		{
			name:          "matching scope defers to role check",
			actorID:       "u1",
			owningTeamID:  "t1",
			requestTeamID: "t1",
			want:          Permit(),
		},
		{
			name:          "scope mismatch wins over a valid role",
			actorID:       "u1",
			owningTeamID:  "t1",
			requestTeamID: "t2",
			want:          Deny(WrongTeamScope),
		},
		{
			name:          "scope mismatch reported even for unauthenticated caller",
			actorID:       "",
			owningTeamID:  "t1",
			requestTeamID: "t2",
			want:          Deny(WrongTeamScope),
		},
		{
			name:          "matching scope still rejects unauthenticated caller",
			actorID:       "",
			owningTeamID:  "t1",
			requestTeamID: "t1",
			want:          Deny(NotAuthenticated),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuthorizeScoped(tt.actorID, tt.owningTeamID, tt.requestTeamID, roles, Write)
			if got != tt.want {
				t.Errorf("AuthorizeScoped() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
