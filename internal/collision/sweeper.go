// internal/collision/sweeper.go
// Background expiry sweep. Lazy read-side expiry is the real
// mechanism; this just keeps abandoned rows from lingering.

package collision

import (
	"context"
	"log"
	"time"
)

type Sweeper struct {
	service  Service
	interval time.Duration
}

func NewSweeper(service Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{service: service, interval: interval}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.service.ExpireOverdue(ctx)
			if err != nil {
				log.Printf("collision: expiry sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("collision: swept %d overdue collision(s)", n)
			}
		}
	}
}
