package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the daily digest. The cron fires well inside the delivery
// window and RunDaily's own date/hour gate decides whether anything is sent,
// so a tick outside the window is a cheap no-op.
type Scheduler struct {
	cron   *cron.Cron
	digest DigestService
	spec   string
}

func NewScheduler(digest DigestService, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		digest: digest,
		spec:   spec,
	}
}

// Start registers the job and starts the scheduler. Also evaluates once
// immediately so a restart after the send window still delivers today's
// digest.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runDigest(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Digest scheduler started with spec %q\n", s.spec)

	go s.runDigest(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("🛑 Digest scheduler stopped")
}

func (s *Scheduler) runDigest(ctx context.Context) {
	result, err := s.digest.RunDaily(ctx, false, false)
	if err != nil {
		log.Printf("❌ Digest run failed: %v\n", err)
		return
	}
	if result.Skipped {
		log.Printf("ℹ️  Digest skipped: %s\n", result.Reason)
		return
	}
	log.Printf("✅ Digest sent, %d open scholarships\n", result.OpenCount)
}
