package backup

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs Backup on a cron schedule (six fields, seconds first, or a @descriptor).
type Scheduler struct {
	cron *cron.Cron
	svc  *Service
}

func NewScheduler(svc *Service, spec string) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())
	s := &Scheduler{cron: c, svc: svc}

	if _, err := c.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("[backup] scheduler started, writing to %s", s.svc.Dir())
}

// Stop waits for a running backup to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	path, err := s.svc.Backup(context.Background())
	if err != nil {
		log.Printf("[backup] failed: %v", err)
		return
	}
	log.Printf("[backup] wrote %s", path)
}
