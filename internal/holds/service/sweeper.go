package service

import (
	"context"
	"sync"
	"time"

	"glowbook/pkg/config"
)

// Sweeper runs the hold expiry sweep on an interval. The cron endpoint
// remains the primary trigger; this background loop is a safety net for
// environments without an external scheduler.
type Sweeper struct {
	service  HoldService
	interval time.Duration
	cfg      *config.Config

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSweeper(service HoldService, cfg *config.Config) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: cfg.SweepInterval,
		cfg:      cfg,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to terminate it.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()

	s.cfg.Log.Info("Hold sweeper started", "interval", s.interval)
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
			if _, err := s.service.Sweep(ctx); err != nil {
				s.cfg.Log.Error("Background hold sweep failed", "error", err)
			}
			cancel()
		case <-s.stopCh:
			return
		}
	}
}

// Stop terminates the sweep loop and waits for an in-flight sweep to
// finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()

	s.cfg.Log.Info("Hold sweeper stopped")
}
