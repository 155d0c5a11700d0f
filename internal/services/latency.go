package services

import (
	"context"
	"time"
)

// Latency holds the artificial delays applied before each query when simulation is on.
// A zero value disables all delays.
type Latency struct {
	Search        time.Duration
	State         time.Duration
	Region        time.Duration
	Detail        time.Duration
	Featured      time.Duration
	Category      time.Duration
	PopularStates time.Duration
}

// DefaultLatency mirrors the response times of the hosted data service the catalog stands in for.
func DefaultLatency() Latency {
	return Latency{
		Search:        300 * time.Millisecond,
		State:         800 * time.Millisecond,
		Region:        800 * time.Millisecond,
		Detail:        500 * time.Millisecond,
		Featured:      500 * time.Millisecond,
		Category:      500 * time.Millisecond,
		PopularStates: 300 * time.Millisecond,
	}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
