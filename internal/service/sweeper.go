package service

import (
	"context"
	"log"
	"sync"
	"time"

	"foodrescue-platform/internal/repository"
)

// readRetention is how long read notifications are kept before pruning.
const readRetention = 30 * 24 * time.Hour

// Sweeper periodically expires stale listings and prunes old read
// notifications.
type Sweeper struct {
	products      repository.ProductRepository
	notifications repository.NotificationRepository
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(products repository.ProductRepository, notifications repository.NotificationRepository, interval time.Duration) *Sweeper {
	return &Sweeper{
		products:      products,
		notifications: notifications,
		interval:      interval,
		stopCh:        make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	go s.run()
	log.Printf("[Sweeper] Started with interval %v", s.interval)
}

// Stop terminates the sweep loop. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		log.Println("[Sweeper] Stopped")
	})
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one pass immediately.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()

	expired, err := s.products.ExpireBefore(ctx, now)
	if err != nil {
		log.Printf("[Sweeper] Product expiry failed: %v", err)
	} else if expired > 0 {
		log.Printf("[Sweeper] Expired %d listings", expired)
	}

	pruned, err := s.notifications.DeleteReadBefore(ctx, now.Add(-readRetention))
	if err != nil {
		log.Printf("[Sweeper] Notification prune failed: %v", err)
	} else if pruned > 0 {
		log.Printf("[Sweeper] Pruned %d read notifications", pruned)
	}
}
