package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/rules"
)

// fixedChallengeRepo serves a fixed published set; the sweep only
// reads, so the embedded interface's other methods stay nil.
type fixedChallengeRepo struct {
	repository.ChallengeRepository
	mu         sync.Mutex
	challenges []*repository.Challenge
}

func (r *fixedChallengeRepo) FindPublished(ctx context.Context) ([]*repository.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*repository.Challenge, len(r.challenges))
	copy(out, r.challenges)
	return out, nil
}

func (r *fixedChallengeRepo) endNow(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.challenges {
		if ch.ID == id {
			ch.EndDate = time.Now().Add(-time.Minute)
		}
	}
}

func TestSweepTracksBucketCrossings(t *testing.T) {
	repo := &fixedChallengeRepo{
		challenges: []*repository.Challenge{{
			ID:        "ch-1",
			Title:     "Image Classification Arena",
			Published: true,
			StartDate: time.Now().Add(-time.Hour),
			EndDate:   time.Now().Add(time.Hour),
		}},
	}
	s := NewScheduler(repo, nil, nil, nil)

	s.sweepChallengeBuckets()
	if got := s.buckets["ch-1"]; got != rules.Present {
		t.Fatalf("bucket after first sweep = %s, want present", got)
	}

	repo.endNow("ch-1")
	s.sweepChallengeBuckets()
	if got := s.buckets["ch-1"]; got != rules.Past {
		t.Errorf("bucket after challenge ended = %s, want past", got)
	}
}

func TestSweepSafeUnderConcurrentTriggers(t *testing.T) {
	challenges := make([]*repository.Challenge, 0, 20)
	for i := 0; i < 20; i++ {
		challenges = append(challenges, &repository.Challenge{
			ID:        "ch-" + string(rune('a'+i)),
			Published: true,
			StartDate: time.Now().Add(-time.Hour),
			EndDate:   time.Now().Add(time.Hour),
		})
	}
	repo := &fixedChallengeRepo{challenges: challenges}
	s := NewScheduler(repo, nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ManualTrigger("buckets")
		}()
	}
	wg.Wait()

	if len(s.buckets) != 20 {
		t.Errorf("tracked %d challenges, want 20", len(s.buckets))
	}
}
