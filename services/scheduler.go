// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartExpirySweeper runs ExpireLapsed every interval until ctx is done.
// The returned scheduler is already started; callers may Shutdown it early.
func (s *PremiumService) StartExpirySweeper(ctx context.Context, every time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if _, err := s.ExpireLapsed(ctx); err != nil {
				log.Printf("[Scheduler] premium sweep failed: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			log.Printf("[Scheduler] shutdown: %v", err)
		}
	}()
	log.Printf("✅ Premium expiry sweeper running (every %s)", every)
	return sched, nil
}
