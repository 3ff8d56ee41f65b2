package main

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/focusflow/timer"
)

// sweeper periodically expires running sessions that ran past their planned
// duration. Lazy expiry on read covers sessions the sweep hasn't reached yet.
type sweeper struct {
	machine  *timer.Machine
	interval time.Duration
	wg       sync.WaitGroup
}

func newSweeper(machine *timer.Machine, interval time.Duration) *sweeper {
	return &sweeper{
		machine:  machine,
		interval: interval,
	}
}

func (s *sweeper) Start(ctx context.Context) {
	s.wg.Go(func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			count, err := s.machine.ExpireOverdue(ctx)
			if err != nil {
				log.Error("expire sweep failed", "err", err)
				continue
			}
			if count > 0 {
				log.Info("expired overdue sessions", "count", count)
			}
		}
	})
}

func (s *sweeper) Wait() {
	s.wg.Wait()
}
