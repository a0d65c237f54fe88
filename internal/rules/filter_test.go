package rules

import "testing"

func TestResolveFilter(t *testing.T) {
	tests := []struct {
		name string
		req  FilterRequest
		want FilterPredicate
	}{
		{
			name: "empty request is invalid",
			req:  FilterRequest{},
			want: FilterPredicate{Kind: PredicateInvalid},
		},
		{
			name: "host team id",
			req:  FilterRequest{HostTeamID: "5"},
			want: FilterPredicate{Kind: PredicateHostTeam, TeamID: "5"},
		},
		{
			name: "participant team id",
			req:  FilterRequest{ParticipantTeamID: "7"},
			want: FilterPredicate{Kind: PredicateParticipantTeam, TeamID: "7"},
		},
		{
			name: "host mode",
			req:  FilterRequest{Mode: ModeHost},
			want: FilterPredicate{Kind: PredicateHostMode},
		},
		{
			name: "participant mode",
			req:  FilterRequest{Mode: ModeParticipant},
			want: FilterPredicate{Kind: PredicateParticipantMode},
		},
		{
			name: "unknown mode is invalid",
			req:  FilterRequest{Mode: "spectator"},
			want: FilterPredicate{Kind: PredicateInvalid},
		},
		{
			name: "host team combined with mode is invalid",
			req:  FilterRequest{HostTeamID: "5", Mode: ModeHost},
			want: FilterPredicate{Kind: PredicateInvalid},
		},
		{
			name: "both team ids is invalid",
			req:  FilterRequest{HostTeamID: "5", ParticipantTeamID: "7"},
			want: FilterPredicate{Kind: PredicateInvalid},
		},
		{
			name: "all three selectors is invalid",
			req:  FilterRequest{HostTeamID: "5", ParticipantTeamID: "7", Mode: ModeParticipant},
			want: FilterPredicate{Kind: PredicateInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFilter(tt.req)
			if got != tt.want {
				t.Errorf("ResolveFilter(%+v) = %+v, want %+v", tt.req, got, tt.want)
			}
			if got.Invalid() != (tt.want.Kind == PredicateInvalid) {
				t.Errorf("Invalid() = %v inconsistent with kind %v", got.Invalid(), got.Kind)
			}
		})
	}
}
