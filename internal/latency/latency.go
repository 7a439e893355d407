package latency

import (
	"context"
	"time"

	"blouconnect/internal/config"
)

// Simulator stands in for network round trips of a real backend.
type Simulator struct {
	Config *config.Config
}

// Wait blocks for d scaled by the configured factor, or until ctx is done.
func (s *Simulator) Wait(ctx context.Context, d time.Duration) error {
	scaled := time.Duration(float64(d) * s.Config.LatencyScale)
	if scaled <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(scaled)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// None returns a simulator that never waits.
func None() *Simulator {
	return &Simulator{Config: &config.Config{}}
}
