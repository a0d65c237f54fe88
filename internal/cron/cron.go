package cron

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/evalarena/arena-backend/internal/db"
	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/rules"
	"github.com/evalarena/arena-backend/internal/socket"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron          *cron.Cron
	challengeRepo repository.ChallengeRepository
	userRepo      repository.UserRepository
	cache         *db.RedisDB
	broadcaster   *socket.Broadcaster

	// last observed bucket per challenge, used to detect crossings.
	// Guarded by mu: ManualTrigger can run a sweep concurrently with
	// the scheduled one.
	mu      sync.Mutex
	buckets map[string]rules.Bucket
}

// NewScheduler creates a new scheduler
func NewScheduler(challengeRepo repository.ChallengeRepository, userRepo repository.UserRepository, cache *db.RedisDB, broadcaster *socket.Broadcaster) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		cache:         cache,
		broadcaster:   broadcaster,
		buckets:       make(map[string]rules.Bucket),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every hour - detect challenges crossing temporal buckets
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Running challenge bucket sweep...")
		s.sweepChallengeBuckets()
	})

	// Run every day at 3 AM - remove expired refresh tokens
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running refresh token cleanup...")
		s.cleanupExpiredTokens()
	})

	// Run every day at 4 AM - drop stale challenge listings from cache
	s.cron.AddFunc("0 4 * * *", func() {
		log.Println("[Cron] Running cache invalidation...")
		s.invalidateChallengeCache()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// sweepChallengeBuckets reclassifies every published challenge and logs the
// ones that moved between past, present and future since the last sweep.
// Time listings are cached, so any crossing also drops the cached segments.
func (s *Scheduler) sweepChallengeBuckets() {
	ctx := context.Background()

	challenges, err := s.challengeRepo.FindPublished(ctx)
	if err != nil {
		log.Printf("[Cron] Error loading published challenges: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	crossed := 0
	for _, ch := range challenges {
		cls := rules.Classify(rules.TimeWindow{Start: ch.StartDate, End: ch.EndDate}, now)
		prev, seen := s.buckets[ch.ID]
		s.buckets[ch.ID] = cls.Bucket

		if !seen || prev == cls.Bucket {
			continue
		}
		crossed++
		log.Printf("[Cron] Challenge %s moved from %s to %s", ch.ID, prev, cls.Bucket)

		if cls.Bucket == rules.Past && s.broadcaster != nil {
			s.broadcaster.BroadcastChallengeUpdated(ch.ID, map[string]interface{}{
				"id":        ch.ID,
				"is_active": false,
			}, "")
		}
	}

	if crossed > 0 {
		s.invalidateChallengeCache()
	}
	log.Printf("[Cron] Bucket sweep done: %d challenges, %d crossings", len(challenges), crossed)
}

// cleanupExpiredTokens removes refresh tokens past their expiry
func (s *Scheduler) cleanupExpiredTokens() {
	ctx := context.Background()

	deleted, err := s.userRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		log.Printf("[Cron] Error cleaning up refresh tokens: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] Removed %d expired refresh tokens", deleted)
	}
}

// invalidateChallengeCache drops cached challenge entries and listings
func (s *Scheduler) invalidateChallengeCache() {
	if s.cache == nil {
		return
	}
	ctx := context.Background()

	if err := s.cache.InvalidateCache(ctx, "challenge*"); err != nil {
		log.Printf("[Cron] Error invalidating challenge cache: %v", err)
	}
}

// ManualTrigger allows manual triggering of scheduled checks (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "buckets":
		s.sweepChallengeBuckets()
	case "tokens":
		s.cleanupExpiredTokens()
	case "cache":
		s.invalidateChallengeCache()
	case "all":
		s.sweepChallengeBuckets()
		s.cleanupExpiredTokens()
		s.invalidateChallengeCache()
	}
}
