package sweep

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs a maintenance pass on a fixed interval until stopped.
type Sweeper struct {
	name     string
	interval time.Duration
	pass     func(ctx context.Context) error
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func newSweeper(name string, interval time.Duration, pass func(ctx context.Context) error, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		name:     name,
		interval: interval,
		pass:     pass,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

// Stop halts the loop and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.pass(ctx); err != nil {
				s.logger.Error("sweep pass failed",
					slog.String("sweep", s.name),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
