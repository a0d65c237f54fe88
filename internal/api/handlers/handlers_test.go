package handlers

import (
	"testing"

	"github.com/evalarena/arena-backend/internal/repository"
)

func TestToLeaderboardResponse(t *testing.T) {
	lb := &repository.Leaderboard{
		ID:     "lb-1",
		Schema: []byte(`{"labels": ["mIoU"], "default_order_by": "mIoU"}`),
	}

	resp := toLeaderboardResponse(lb)
	if resp.ID != "lb-1" {
		t.Errorf("resp.ID = %s, want lb-1", resp.ID)
	}
	if resp.Schema["default_order_by"] != "mIoU" {
		t.Errorf("resp.Schema[default_order_by] = %v, want mIoU", resp.Schema["default_order_by"])
	}
}

func TestToLeaderboardResponseCorruptSchema(t *testing.T) {
	lb := &repository.Leaderboard{
		ID:     "lb-2",
		Schema: []byte(`{"labels": [`),
	}

	resp := toLeaderboardResponse(lb)
	if resp.Schema == nil {
		t.Fatalf("corrupt schema serialized as null, want empty object")
	}
	if len(resp.Schema) != 0 {
		t.Errorf("resp.Schema = %v, want empty", resp.Schema)
	}
}
