package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"rightscrape/config"
	"rightscrape/services"
)

// Scheduler drives the tracked-listing sweeps in daemon mode, either on a
// cron expression or a fixed interval.
type Scheduler struct {
	cfg     *config.Config
	tracker *services.TrackerService
	cron    *cron.Cron
	ticker  *time.Ticker
	stopCh  chan struct{}
}

func New(cfg *config.Config, tracker *services.TrackerService) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		tracker: tracker,
		cron:    cron.New(),
		stopCh:  make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			if err := s.tracker.RunAll(ctx); err != nil {
				log.Printf("Scheduled sweep error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
		return nil
	}

	if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.tracker.RunAll(ctx); err != nil {
						log.Printf("Scheduled sweep error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
		return nil
	}

	log.Println("No schedule configured, tracked listings will only run once at startup")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// TriggerNow runs a sweep immediately.
func (s *Scheduler) TriggerNow(ctx context.Context) error {
	return s.tracker.RunAll(ctx)
}
